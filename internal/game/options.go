package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
)

type gameConfig struct {
	id     uuid.UUID
	rules  board.Rules
	logger *zap.Logger
	board  *board.Board
	rights board.CastlingRights
}

// Option configures a new Game.
type Option func(*gameConfig)

// WithID fixes the game ID instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(cfg *gameConfig) {
		cfg.id = id
	}
}

// WithRules enables optional generation rules.
func WithRules(r board.Rules) Option {
	return func(cfg *gameConfig) {
		cfg.rules = r
	}
}

// WithLogger sets the logger used for ply and lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *gameConfig) {
		cfg.logger = l
	}
}

// WithBoard starts the game from a custom setup. The board is cloned.
func WithBoard(b *board.Board, rights board.CastlingRights) Option {
	return func(cfg *gameConfig) {
		cfg.board = b.Clone()
		cfg.rights = rights
	}
}

// WithFEN starts the game from a FEN position.
func WithFEN(fen string) (Option, error) {
	b, rights, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return WithBoard(b, rights), nil
}
