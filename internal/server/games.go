package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/render"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

type createGameRequest struct {
	FEN   string       `json:"fen"`
	Rules *board.Rules `json:"rules"`
}

type moveRequest struct {
	Move string `json:"move"`
	From string `json:"from"`
	To   string `json:"to"`
}

type promotionRequest struct {
	Square string `json:"square" binding:"required,len=2"`
	Piece  string `json:"piece" binding:"required"`
}

type resultRequest struct {
	Result string `json:"result" binding:"required"`
}

func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: game id %q", errBadRequest, c.Param("id"))
	}
	return id, nil
}

func bind(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// parse accepts either {"move": "e2e4"} or {"from": "e2", "to": "e4"}.
func (r moveRequest) parse() (board.Move, error) {
	switch {
	case r.Move != "":
		return board.ParseMove(r.Move)
	case r.From != "" && r.To != "":
		return board.ParseMove(r.From + r.To)
	default:
		return board.Move{}, fmt.Errorf("%w: move or from/to required", errBadRequest)
	}
}

// parsePromotionKind accepts a piece letter of either case or its English
// name: "q", "N", "rook", "knight".
func parsePromotionKind(name string) (board.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "q", "queen":
		return board.Queen, nil
	case "r", "rook":
		return board.Rook, nil
	case "b", "bishop":
		return board.Bishop, nil
	case "n", "knight":
		return board.Knight, nil
	default:
		return board.NoKind, fmt.Errorf("%w: promotion piece %q", errBadRequest, name)
	}
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			s.abort(c, err)
			return
		}
	}

	var opts []game.Option
	if req.Rules != nil {
		opts = append(opts, game.WithRules(*req.Rules))
	}
	if req.FEN != "" {
		withFEN, err := game.WithFEN(req.FEN)
		if err != nil {
			s.abort(c, err)
			return
		}
		opts = append(opts, withFEN)
	}

	snap, err := s.sessions.Create(c.Request.Context(), opts...)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Header("Location", "/api/games/"+snap.ID.String())
	c.JSON(http.StatusCreated, snap)
}

func (s *Server) handleListGames(c *gin.Context) {
	resp := gin.H{"live": s.sessions.List()}
	if s.archive != nil {
		recs, err := s.archive.ListGames(c.Request.Context())
		if err != nil {
			s.abort(c, err)
			return
		}
		resp["archived"] = recs
	}
	c.JSON(http.StatusOK, resp)
}

// handleDeleteGame drops a game from the live registry and the archive.
func (s *Server) handleDeleteGame(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	live := s.sessions.Remove(id)
	if s.archive != nil {
		err = s.archive.DeleteGame(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) && live {
			err = nil
		}
	} else if !live {
		err = fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.archive.LoadStats(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":         stats,
		"average_plies": stats.AveragePlies(),
	})
}

func (s *Server) snapshot(c *gin.Context) (game.Snapshot, bool) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return game.Snapshot{}, false
	}
	snap, err := s.sessions.Load(c.Request.Context(), id)
	if err != nil {
		s.abort(c, err)
		return game.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleGetGame(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, snap)
	}
}

func (s *Server) handleGetMoves(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	moves := snap.Moves
	if from := c.Query("from"); from != "" {
		pos, err := board.ParsePosition(from)
		if err != nil {
			s.abort(c, err)
			return
		}
		moves = board.NewMoveSet(snap.Moves...).From(pos).Slice()
	}
	if moves == nil {
		moves = []board.Move{}
	}
	c.JSON(http.StatusOK, gin.H{"turn": snap.Turn, "moves": moves})
}

func (s *Server) handleHistory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	if _, err := s.sessions.Load(c.Request.Context(), id); err != nil {
		s.abort(c, err)
		return
	}
	history, err := s.sessions.History(id)
	if err != nil {
		s.abort(c, err)
		return
	}

	plies := make([]string, len(history))
	for i, p := range history {
		plies[i] = p.String()
	}
	c.JSON(http.StatusOK, gin.H{"plies": plies})
}

func (s *Server) handleMove(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	var req moveRequest
	if err := bind(c, &req); err != nil {
		s.abort(c, err)
		return
	}
	m, err := req.parse()
	if err != nil {
		s.abort(c, err)
		return
	}

	if _, err := s.sessions.Load(c.Request.Context(), id); err != nil {
		s.abort(c, err)
		return
	}
	snap, err := s.sessions.Move(c.Request.Context(), id, m.From, m.To)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handlePromote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	var req promotionRequest
	if err := bind(c, &req); err != nil {
		s.abort(c, err)
		return
	}
	pos, err := board.ParsePosition(req.Square)
	if err != nil {
		s.abort(c, err)
		return
	}
	kind, err := parsePromotionKind(req.Piece)
	if err != nil {
		s.abort(c, err)
		return
	}

	if _, err := s.sessions.Load(c.Request.Context(), id); err != nil {
		s.abort(c, err)
		return
	}
	snap, err := s.sessions.Promote(c.Request.Context(), id, pos, kind)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleUndo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	if _, err := s.sessions.Load(c.Request.Context(), id); err != nil {
		s.abort(c, err)
		return
	}
	snap, err := s.sessions.Undo(c.Request.Context(), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleResult(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	var req resultRequest
	if err := bind(c, &req); err != nil {
		s.abort(c, err)
		return
	}
	result, err := game.ParseResult(req.Result)
	if err != nil {
		s.abort(c, err)
		return
	}

	if _, err := s.sessions.Load(c.Request.Context(), id); err != nil {
		s.abort(c, err)
		return
	}
	snap, err := s.sessions.Finish(c.Request.Context(), id, result)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// geometry reads ?perspective= and ?size= with the configured default size.
func (s *Server) geometry(c *gin.Context) (render.Geometry, error) {
	g := render.Geometry{Size: s.cfg.RenderSize, Perspective: board.White}
	if p := c.Query("perspective"); p != "" {
		pl, ok := board.ParsePlayer(p)
		if !ok {
			return g, fmt.Errorf("%w: perspective %q", errBadRequest, p)
		}
		g.Perspective = pl
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 2048 {
			return g, fmt.Errorf("%w: size %q", errBadRequest, v)
		}
		g.Size = n
	}
	return g, nil
}

func (s *Server) handleBoardSVG(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	g, err := s.geometry(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(render.SVG(snap, g)))
}

func (s *Server) handleBoardPNG(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	g, err := s.geometry(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, snap, g, s.cfg.RenderScale); err != nil {
		s.abort(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
