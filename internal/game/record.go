package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
)

// Record is the archived form of a game: its starting position and the
// serialized ply list.
type Record struct {
	ID        uuid.UUID   `json:"id"`
	StartFEN  string      `json:"start_fen"`
	Rules     board.Rules `json:"rules"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
	Result    Result      `json:"result"`
	Plies     []string    `json:"plies"`
	FinalFEN  string      `json:"final_fen"`
}

// Record returns the archived form of the game.
func (g *Game) Record() Record {
	rec := Record{
		ID:        g.id,
		StartFEN:  g.InitialFEN(),
		Rules:     g.rules,
		StartedAt: g.startedAt,
		Result:    g.result,
		Plies:     make([]string, len(g.history)),
		FinalFEN:  g.FEN(),
	}
	for i, p := range g.history {
		rec.Plies[i] = p.String()
	}
	if g.result.IsOver() {
		at := g.endedAt
		rec.EndedAt = &at
	}
	return rec
}

// FromRecord rebuilds a game by replaying an archived record.
func FromRecord(rec Record, logger *zap.Logger) (*Game, error) {
	opts := []Option{
		WithID(rec.ID),
		WithRules(rec.Rules),
		WithLogger(logger),
	}
	if rec.StartFEN != "" {
		withFEN, err := WithFEN(rec.StartFEN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		opts = append(opts, withFEN)
	}

	history := make([]Ply, len(rec.Plies))
	for i, s := range rec.Plies {
		p, err := ParsePly(s)
		if err != nil {
			return nil, fmt.Errorf("%w: ply %d: %v", ErrInvalidRecord, i+1, err)
		}
		history[i] = p
	}

	g, err := Replay(rec.StartedAt, history, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	if rec.Result.IsOver() {
		at := rec.StartedAt
		if rec.EndedAt != nil {
			at = *rec.EndedAt
		}
		if err := g.End(rec.Result, at); err != nil {
			return nil, err
		}
	}
	return g, nil
}
