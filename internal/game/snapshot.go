package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessrules/internal/board"
)

// Snapshot is a read-only copy of the game state for renderers and API
// callers. It shares nothing with the live game.
type Snapshot struct {
	ID        uuid.UUID                           `json:"id"`
	Squares   [board.Size][board.Size]board.Piece `json:"-"`
	Placement string                              `json:"placement"`
	FEN       string                              `json:"fen"`
	Turn      board.Player                        `json:"turn"`
	LastMove  *board.Move                         `json:"last_move,omitempty"`
	Rights    board.CastlingRights                `json:"castling"`
	Moves     []board.Move                        `json:"moves"`
	Plies     int                                 `json:"plies"`
	InCheck   bool                                `json:"in_check"`
	StartedAt time.Time                           `json:"started_at"`
	EndedAt   *time.Time                          `json:"ended_at,omitempty"`
	Result    Result                              `json:"result"`
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:        g.id,
		Squares:   g.board.Squares(),
		Placement: g.board.Placement(),
		FEN:       g.FEN(),
		Turn:      g.board.Turn(),
		Rights:    g.rights,
		Moves:     g.board.Moves().Slice(),
		Plies:     len(g.history),
		InCheck:   g.board.InCheck(g.board.Turn()),
		StartedAt: g.startedAt,
		Result:    g.result,
	}
	if m, ok := g.LastMove(); ok {
		s.LastMove = &m
	}
	if g.result.IsOver() {
		at := g.endedAt
		s.EndedAt = &at
	}
	return s
}

// PieceAt returns the piece on pos in the snapshot, NoPiece when pos is off
// the board.
func (s Snapshot) PieceAt(pos board.Position) board.Piece {
	if !pos.InBounds() {
		return board.NoPiece
	}
	return s.Squares[pos.Y][pos.X]
}
