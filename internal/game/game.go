// Package game orchestrates a chess game on top of the board rules: the ply
// history, castling rights, promotion policy, and the game lifecycle.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
)

// Game composes a board with its history and bookkeeping. A Game is not safe
// for concurrent use; the session layer serialises access to it.
type Game struct {
	id        uuid.UUID
	board     *board.Board
	rights    board.CastlingRights
	history   []Ply
	rules     board.Rules
	startedAt time.Time
	endedAt   time.Time
	result    Result
	logger    *zap.Logger

	// initial position, kept so the history can be replayed
	initial       *board.Board
	initialRights board.CastlingRights
}

// New starts a game at start. Without WithBoard it uses the standard initial
// position with full castling rights. Moves for the side to move are
// generated immediately.
func New(start time.Time, opts ...Option) *Game {
	cfg := &gameConfig{
		rights: board.AllCastling,
	}
	for _, f := range opts {
		f(cfg)
	}
	if cfg.id == uuid.Nil {
		cfg.id = uuid.New()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.board == nil {
		cfg.board = board.New()
	}

	g := &Game{
		id:            cfg.id,
		board:         cfg.board,
		rights:        cfg.rights,
		rules:         cfg.rules,
		startedAt:     start,
		logger:        cfg.logger.With(zap.Stringer("game", cfg.id)),
		initial:       cfg.board.Clone(),
		initialRights: cfg.rights,
	}
	g.refresh()
	return g
}

func (g *Game) refresh() {
	g.board.RefreshMovesWith(g.rules, g.rights)
}

// ID returns the game identifier.
func (g *Game) ID() uuid.UUID { return g.id }

// Rules returns the generation rules in force.
func (g *Game) Rules() board.Rules { return g.rules }

// Rights returns the current castling rights.
func (g *Game) Rights() board.CastlingRights { return g.rights }

// StartedAt returns the recorded start time.
func (g *Game) StartedAt() time.Time { return g.startedAt }

// EndedAt returns the time End was called, zero while ongoing.
func (g *Game) EndedAt() time.Time { return g.endedAt }

// Result returns the game result.
func (g *Game) Result() Result { return g.result }

// Turn returns the side to move.
func (g *Game) Turn() board.Player { return g.board.Turn() }

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board { return g.board.Clone() }

// LegalMoves returns the moves available to the side to move. They are
// pseudo-legal unless the check filter is enabled.
func (g *Game) LegalMoves() board.MoveSet {
	return g.board.Moves().Clone()
}

// History returns a copy of the plies played so far.
func (g *Game) History() []Ply {
	h := make([]Ply, len(g.history))
	copy(h, g.history)
	return h
}

// PlyCount returns the number of history entries.
func (g *Game) PlyCount() int {
	return len(g.history)
}

// LastMove returns the most recent move ply, skipping promotions.
func (g *Game) LastMove() (board.Move, bool) {
	for i := len(g.history) - 1; i >= 0; i-- {
		if g.history[i].Kind == PlyMove {
			return g.history[i].Move(), true
		}
	}
	return board.Move{}, false
}

// ApplyMove plays from -> to for the side to move. On success the ply is
// recorded, castling rights are updated, the turn passes and moves are
// regenerated. On failure the game is unchanged.
func (g *Game) ApplyMove(from, to board.Position) error {
	if g.result.IsOver() {
		return ErrGameOver
	}

	moved, err := g.board.PieceAt(from)
	if err != nil {
		return err
	}
	captured, err := g.board.MovePiece(from, to)
	if err != nil {
		return err
	}

	g.rights = g.rights.Update(from, to, moved, captured)
	g.history = append(g.history, Ply{
		Kind:     PlyMove,
		From:     from,
		To:       to,
		Piece:    moved,
		Captured: captured,
	})
	g.board.FlipTurn()
	g.refresh()

	g.logger.Debug("move applied",
		zap.Stringer("move", board.NewMove(from, to)),
		zap.Stringer("piece", moved),
		zap.Int("ply", len(g.history)),
		zap.Int("moves", g.board.Moves().Len()))
	return nil
}

// Promote replaces the pawn on pos with a piece of kind for the pawn's owner.
// Only knights, bishops, rooks and queens are accepted, and only right after
// the move that brought the pawn to its last rank. The side to move is not
// changed.
func (g *Game) Promote(pos board.Position, kind board.Kind) error {
	if g.result.IsOver() {
		return ErrGameOver
	}
	switch kind {
	case board.Knight, board.Bishop, board.Rook, board.Queen:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPromotionPiece, kind)
	}

	pawn, err := g.board.PieceAt(pos)
	if err != nil {
		return err
	}
	if pawn.IsPawn() && pos.Y == pawn.Owner.PromotionRank() && !g.justArrived(pos) {
		return fmt.Errorf("%w: pawn on %s must be promoted on the ply it arrives", board.ErrInvalidPromotion, pos)
	}
	promoted := board.NewPiece(kind, pawn.Owner)
	if err := g.board.PromotePiece(pos, promoted); err != nil {
		return err
	}

	g.history = append(g.history, Ply{
		Kind:  PlyPromotion,
		From:  pos,
		To:    pos,
		Piece: promoted,
	})
	g.refresh()

	g.logger.Debug("pawn promoted",
		zap.Stringer("square", pos),
		zap.Stringer("piece", promoted))
	return nil
}

// justArrived reports whether the last ply moved a piece onto pos. A game
// set up with a pawn already on its last rank may promote it before any ply.
func (g *Game) justArrived(pos board.Position) bool {
	if len(g.history) == 0 {
		return true
	}
	last := g.history[len(g.history)-1]
	return last.Kind == PlyMove && last.To == pos
}

// End finishes the game with result at the given time.
func (g *Game) End(result Result, at time.Time) error {
	if g.result.IsOver() {
		return ErrGameOver
	}
	if !result.IsOver() {
		return fmt.Errorf("%w: %s", ErrInvalidResult, result)
	}
	g.result = result
	g.endedAt = at
	g.logger.Info("game ended",
		zap.Stringer("result", result),
		zap.Int("plies", len(g.history)),
		zap.Duration("duration", at.Sub(g.startedAt)))
	return nil
}

// Undo takes back the last ply by replaying the rest of the history from the
// initial position.
func (g *Game) Undo() error {
	if g.result.IsOver() {
		return ErrGameOver
	}
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}

	ng, err := Replay(g.startedAt, g.history[:len(g.history)-1],
		WithID(g.id),
		WithRules(g.rules),
		WithBoard(g.initial, g.initialRights),
		WithLogger(zap.NewNop()))
	if err != nil {
		return err
	}
	ng.logger = g.logger
	*g = *ng
	g.logger.Debug("ply undone", zap.Int("ply", len(g.history)))
	return nil
}

// InitialFEN returns the position the game started from.
func (g *Game) InitialFEN() string {
	return g.initial.FEN(g.initialRights)
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.board.FEN(g.rights)
}

// Replay builds a game by playing history from the starting position given
// by opts. The returned error names the first ply that failed.
func Replay(start time.Time, history []Ply, opts ...Option) (*Game, error) {
	g := New(start, opts...)
	for i, p := range history {
		var err error
		switch p.Kind {
		case PlyMove:
			err = g.ApplyMove(p.From, p.To)
		case PlyPromotion:
			err = g.Promote(p.To, p.Piece.Kind)
		default:
			err = fmt.Errorf("%w: unknown ply kind %d", ErrInvalidRecord, p.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("replay ply %d (%s): %w", i+1, p, err)
		}
	}
	return g, nil
}
