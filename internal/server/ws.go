package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

const wsWriteWait = 10 * time.Second

// wsInbound is a client message: {"type": "move", "move": "e2e4"} or
// {"type": "promote", "square": "e8", "piece": "q"}.
type wsInbound struct {
	Type   string `json:"type"`
	Move   string `json:"move,omitempty"`
	Square string `json:"square,omitempty"`
	Piece  string `json:"piece,omitempty"`
}

// wsOutbound is a server message carrying a snapshot or an error.
type wsOutbound struct {
	Type    string         `json:"type"`
	Game    *game.Snapshot `json:"game,omitempty"`
	Message string         `json:"message,omitempty"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		s.abort(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.sessions.Load(ctx, id); err != nil {
		s.abort(c, err)
		return
	}
	updates, cancel, err := s.sessions.Subscribe(id)
	if err != nil {
		s.abort(c, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.logger.With(zap.Stringer("game", id))
	log.Debug("websocket connected")

	replies := make(chan wsOutbound, 4)
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})
	defer close(writerDone)
	go s.readLoop(ctx, conn, id, replies, readerDone, writerDone)

	write := func(msg wsOutbound) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug("websocket write", zap.Error(err))
			return false
		}
		return true
	}

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
					time.Now().Add(wsWriteWait))
				return
			}
			if !write(wsOutbound{Type: "snapshot", Game: &snap}) {
				return
			}
		case msg := <-replies:
			if !write(msg) {
				return
			}
		case <-readerDone:
			log.Debug("websocket closed")
			return
		}
	}
}

// readLoop applies client moves. Successful moves reach the client through
// the subscription; only errors are replied directly.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, id uuid.UUID, replies chan<- wsOutbound, done, stop chan struct{}) {
	defer close(done)
	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}

		if err := s.apply(ctx, id, in); err != nil {
			select {
			case replies <- wsOutbound{Type: "error", Message: err.Error()}:
			case <-stop:
				return
			}
		}
	}
}

func (s *Server) apply(ctx context.Context, id uuid.UUID, in wsInbound) error {
	switch in.Type {
	case "move":
		m, err := board.ParseMove(in.Move)
		if err != nil {
			return err
		}
		_, err = s.sessions.Move(ctx, id, m.From, m.To)
		return err

	case "promote":
		pos, err := board.ParsePosition(in.Square)
		if err != nil {
			return err
		}
		kind, err := parsePromotionKind(in.Piece)
		if err != nil {
			return err
		}
		_, err = s.sessions.Promote(ctx, id, pos, kind)
		return err

	default:
		return errBadRequest
	}
}
