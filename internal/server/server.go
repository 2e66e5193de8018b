// Package server exposes games and accounts over HTTP and pushes live game
// snapshots over websockets.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/account"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

const maxJSONBodyBytes int64 = 1 << 20

// Archive lists and deletes stored games and reads their statistics.
// storage.Storage implements it.
type Archive interface {
	ListGames(ctx context.Context) ([]game.Record, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error
	LoadStats(ctx context.Context) (*storage.GameStats, error)
}

// Config holds the HTTP and rendering settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RenderSize   int
	RenderScale  float64
}

// Server serves the JSON API.
type Server struct {
	sessions *session.Manager
	accounts *account.Service
	archive  Archive
	cfg      Config
	logger   *zap.Logger
	upgrader websocket.Upgrader

	srvMu sync.Mutex
	srv   *http.Server
}

// New builds a server. accounts and archive may be nil, which disables the
// matching routes.
func New(sessions *session.Manager, accounts *account.Service, archive Archive, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RenderSize <= 0 {
		cfg.RenderSize = 480
	}
	if cfg.RenderScale < 1 {
		cfg.RenderScale = 1
	}
	return &Server{
		sessions: sessions,
		accounts: accounts,
		archive:  archive,
		cfg:      cfg,
		logger:   logger.Named("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests(), limitBody(maxJSONBodyBytes))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	{
		games := api.Group("/games")
		games.POST("", s.handleCreateGame)
		games.GET("", s.handleListGames)
		games.GET("/:id", s.handleGetGame)
		games.DELETE("/:id", s.handleDeleteGame)
		games.GET("/:id/moves", s.handleGetMoves)
		games.POST("/:id/moves", s.handleMove)
		games.POST("/:id/promotion", s.handlePromote)
		games.POST("/:id/undo", s.handleUndo)
		games.POST("/:id/result", s.handleResult)
		games.GET("/:id/history", s.handleHistory)
		games.GET("/:id/board.svg", s.handleBoardSVG)
		games.GET("/:id/board.png", s.handleBoardPNG)

		if s.archive != nil {
			api.GET("/stats", s.handleStats)
		}
		if s.accounts != nil {
			api.POST("/accounts", s.handleCreateAccount)
			api.POST("/accounts/verify", s.handleVerifyAccount)
		}
	}

	r.GET("/ws/games/:id", s.handleWebSocket)
	return r
}

// Listen serves until Close is called.
func (s *Server) Listen() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.logger.Info("HTTP listening", zap.String("addr", s.cfg.Addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
