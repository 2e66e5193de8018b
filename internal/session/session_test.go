package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Storage) {
	t.Helper()
	st, err := storage.OpenInMemory(nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewManager(st, board.PseudoLegal, nil), st
}

func mv(t *testing.T, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreateAndMove(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()

	snap, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	m := mv(t, "g1f3")
	snap, err = mgr.Move(ctx, snap.ID, m.From, m.To)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if snap.Turn != board.Black || snap.Plies != 1 {
		t.Errorf("unexpected snapshot: turn=%s plies=%d", snap.Turn, snap.Plies)
	}

	rec, err := st.LoadGame(ctx, snap.ID)
	if err != nil {
		t.Fatalf("game not archived: %v", err)
	}
	if len(rec.Plies) != 1 || rec.Plies[0] != "g1f3" {
		t.Errorf("unexpected archived plies: %v", rec.Plies)
	}
}

func TestUnknownSession(t *testing.T) {
	mgr, _ := newTestManager(t)
	id := uuid.New()

	if _, err := mgr.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get: expected ErrSessionNotFound, got %v", err)
	}
	m := mv(t, "e2e4")
	if _, err := mgr.Move(context.Background(), id, m.From, m.To); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Move: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := mgr.Load(context.Background(), id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load: expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := mgr.Subscribe(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Subscribe: expected ErrSessionNotFound, got %v", err)
	}
}

func TestRejectedMoveIsNotArchived(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	snap, _ := mgr.Create(ctx)

	m := mv(t, "e2e5")
	if _, err := mgr.Move(ctx, snap.ID, m.From, m.To); !errors.Is(err, board.ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
	rec, err := st.LoadGame(ctx, snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Plies) != 0 {
		t.Errorf("rejected move archived: %v", rec.Plies)
	}
}

func TestConcurrentMovesSerialised(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	snap, _ := mgr.Create(ctx)
	m := mv(t, "e2e4")

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mgr.Move(ctx, snap.ID, m.From, m.To); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("the same move was accepted %d times", accepted)
	}
	got, _ := mgr.Get(snap.ID)
	if got.Plies != 1 {
		t.Errorf("unexpected ply count: %d", got.Plies)
	}
}

func TestIndependentGamesInParallel(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	line := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"}

	ids := make([]uuid.UUID, 8)
	for i := range ids {
		snap, _ := mgr.Create(ctx)
		ids[i] = snap.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			for _, s := range line {
				m, _ := board.ParseMove(s)
				if _, err := mgr.Move(ctx, id, m.From, m.To); err != nil {
					errs <- err
					return
				}
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("move failed: %v", err)
	}

	for _, snap := range mgr.List() {
		if snap.Plies != len(line) {
			t.Errorf("game %s has %d plies", snap.ID, snap.Plies)
		}
	}
}

func TestSubscribe(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()
	snap, _ := mgr.Create(ctx)

	ch, cancel, err := mgr.Subscribe(snap.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	first := <-ch
	if first.Plies != 0 {
		t.Errorf("first snapshot should be the current state: plies=%d", first.Plies)
	}

	m := mv(t, "d2d4")
	if _, err := mgr.Move(ctx, snap.ID, m.From, m.To); err != nil {
		t.Fatal(err)
	}
	if got := <-ch; got.LastMove == nil || got.LastMove.String() != "d2d4" {
		t.Errorf("unexpected update: %+v", got.LastMove)
	}

	if _, err := mgr.Finish(ctx, snap.ID, game.Draw); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if got := <-ch; got.Result != game.Draw {
		t.Errorf("unexpected final result: %s", got.Result)
	}
	if _, open := <-ch; open {
		t.Error("channel should be closed after the game finishes")
	}
}

func TestFinishThenResume(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()
	snap, _ := mgr.Create(ctx)

	for _, s := range []string{"e2e4", "c7c5"} {
		m := mv(t, s)
		if _, err := mgr.Move(ctx, snap.ID, m.From, m.To); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mgr.Finish(ctx, snap.ID, game.WhiteWins); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, err := mgr.Finish(ctx, snap.ID, game.Draw); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}

	// A fresh manager over the same store resumes from the archive.
	other := NewManager(st, board.PseudoLegal, nil)
	resumed, err := other.Load(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resumed.Plies != 2 || resumed.Result != game.WhiteWins {
		t.Errorf("unexpected resumed game: plies=%d result=%s", resumed.Plies, resumed.Result)
	}
	want, _ := mgr.Get(snap.ID)
	if resumed.FEN != want.FEN {
		t.Errorf("resumed position differs:\n got=%s\nwant=%s", resumed.FEN, want.FEN)
	}
}

func TestMemoryOnlyManager(t *testing.T) {
	mgr := NewManager(nil, board.Rules{CheckFilter: true}, nil)
	ctx := context.Background()

	snap, err := mgr.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Moves) != 20 {
		t.Errorf("unexpected move count: %d", len(snap.Moves))
	}
	if _, err := mgr.Load(ctx, uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLaggingSubscriberSeesResult(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	snap, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ch, cancel, err := mgr.Subscribe(snap.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	// Overflow the subscriber buffer without reading.
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 3*subscriberBuffer; i++ {
		m := mv(t, shuffle[i%len(shuffle)])
		if _, err := mgr.Move(ctx, snap.ID, m.From, m.To); err != nil {
			t.Fatalf("Move %d: %v", i, err)
		}
	}
	if _, err := mgr.Finish(ctx, snap.ID, game.Draw); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	var last game.Snapshot
	for s := range ch {
		last = s
	}
	if last.Result != game.Draw {
		t.Errorf("final snapshot lost: got result=%s want=%s", last.Result, game.Draw)
	}
}

func TestRemove(t *testing.T) {
	mgr, st := newTestManager(t)
	ctx := context.Background()

	snap, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ch, cancel, err := mgr.Subscribe(snap.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if !mgr.Remove(snap.ID) {
		t.Fatal("Remove: expected the game to be live")
	}
	for range ch {
	}
	if _, err := mgr.Get(snap.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Remove: got=%v want=%v", err, ErrSessionNotFound)
	}
	if mgr.Remove(snap.ID) {
		t.Error("second Remove reported a live game")
	}
	if _, err := st.LoadGame(ctx, snap.ID); err != nil {
		t.Errorf("Remove must leave the archive alone: %v", err)
	}
}
