package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory(nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func playedRecord(t *testing.T, start time.Time, moves ...string) game.Record {
	t.Helper()
	g := game.New(start)
	for _, s := range moves {
		m, err := board.ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.ApplyMove(m.From, m.To); err != nil {
			t.Fatalf("ApplyMove(%s): %v", s, err)
		}
	}
	return g.Record()
}

func TestSaveAndLoadGame(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	rec := playedRecord(t, time.Now().UTC().Truncate(time.Second), "e2e4", "e7e5")

	if err := s.SaveGame(ctx, rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := s.LoadGame(ctx, rec.ID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.ID != rec.ID || len(got.Plies) != 2 || got.FinalFEN != rec.FinalFEN {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.StartedAt.Equal(rec.StartedAt) {
		t.Errorf("start time mismatch: got=%v want=%v", got.StartedAt, rec.StartedAt)
	}

	if _, err := s.LoadGame(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListGamesNewestFirst(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := s.SaveGame(ctx, playedRecord(t, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	recs, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("unexpected count: got=%d want=3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].StartedAt.After(recs[i-1].StartedAt) {
			t.Errorf("records out of order at %d", i)
		}
	}
}

func TestDeleteGame(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	rec := playedRecord(t, time.Now())

	if err := s.SaveGame(ctx, rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.DeleteGame(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if err := s.DeleteGame(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsCountFinishedGamesOnce(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	g := game.New(start)
	if err := s.SaveGame(ctx, g.Record()); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	stats, err := s.LoadStats(ctx)
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 0 {
		t.Errorf("ongoing game counted: %+v", stats)
	}

	if err := g.End(game.BlackWins, start.Add(5*time.Minute)); err != nil {
		t.Fatalf("End: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.SaveGame(ctx, g.Record()); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	stats, err = s.LoadStats(ctx)
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 1 || stats.BlackWins != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.TotalPlayTime != 5*time.Minute {
		t.Errorf("unexpected play time: %v", stats.TotalPlayTime)
	}
}

func TestAveragePlies(t *testing.T) {
	stats := &GameStats{GamesPlayed: 4, TotalPlies: 10}
	if got := stats.AveragePlies(); got != 2.5 {
		t.Errorf("unexpected average: got=%v want=2.5", got)
	}
	if got := (&GameStats{}).AveragePlies(); got != 0 {
		t.Errorf("empty stats average: got=%v", got)
	}
}

func TestAccounts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	rec := AccountRecord{Username: "alice", Email: "alice@example.com", PasswordHash: []byte("hash"), CreatedAt: time.Now()}

	if err := s.CreateAccount(ctx, rec); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := s.CreateAccount(ctx, rec); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}

	got, err := s.LoadAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if got.Email != rec.Email || string(got.PasswordHash) != "hash" {
		t.Errorf("unexpected account: %+v", got)
	}

	if _, err := s.LoadAccount(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.SaveGame(ctx, playedRecord(t, time.Now())); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec := playedRecord(t, time.Now(), "d2d4")
	if err := s.SaveGame(context.Background(), rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadGame(context.Background(), rec.ID); err != nil {
		t.Errorf("record lost across reopen: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}
	t.Logf("Data directory: %s", dataDir)
}
