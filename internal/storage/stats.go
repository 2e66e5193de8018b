package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessrules/internal/game"
)

// GameStats aggregates the results of finished games.
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Draws         int           `json:"draws"`
	Aborted       int           `json:"aborted"`
	TotalPlies    int           `json:"total_plies"`
	LongestGame   int           `json:"longest_game"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// AveragePlies returns the mean number of plies per finished game.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// recordResult folds a newly finished game into the stored statistics.
func recordResult(txn *badger.Txn, rec game.Record) error {
	var stats GameStats
	if err := getJSON(txn, []byte(keyStats), &stats); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	stats.GamesPlayed++
	switch rec.Result {
	case game.WhiteWins:
		stats.WhiteWins++
	case game.BlackWins:
		stats.BlackWins++
	case game.Draw:
		stats.Draws++
	case game.Aborted:
		stats.Aborted++
	}

	plies := len(rec.Plies)
	stats.TotalPlies += plies
	if plies > stats.LongestGame {
		stats.LongestGame = plies
	}
	if rec.EndedAt != nil && rec.EndedAt.After(rec.StartedAt) {
		stats.TotalPlayTime += rec.EndedAt.Sub(rec.StartedAt)
	}

	return setJSON(txn, []byte(keyStats), &stats)
}

// LoadStats returns the aggregate statistics, empty if no game has finished.
func (s *Storage) LoadStats(ctx context.Context) (*GameStats, error) {
	stats := &GameStats{}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		err := getJSON(txn, []byte(keyStats), stats)
		if errors.Is(err, ErrNotFound) {
			return nil // no finished games yet
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("storage: load stats: %w", err)
	}
	return stats, nil
}
