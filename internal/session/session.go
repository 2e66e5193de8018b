// Package session keeps the registry of live games. Each game has its own
// lock, so moves in one game never wait on another.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

// ErrSessionNotFound is returned for an ID with no live or archived game.
var ErrSessionNotFound = errors.New("session not found")

// subscriberBuffer is the number of snapshots a slow subscriber may lag
// behind before updates are dropped for it.
const subscriberBuffer = 8

// Store archives game records. storage.Storage implements it.
type Store interface {
	SaveGame(ctx context.Context, rec game.Record) error
	LoadGame(ctx context.Context, id uuid.UUID) (game.Record, error)
}

// Session is one live game and its subscribers.
type Session struct {
	mu   sync.Mutex
	game *game.Game
	subs map[chan game.Snapshot]struct{}
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	store  Store
	rules  board.Rules
	now    func() time.Time
	logger *zap.Logger
}

// NewManager creates a manager. store may be nil, in which case games are
// kept in memory only.
func NewManager(store Store, rules board.Rules, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		store:    store,
		rules:    rules,
		now:      time.Now,
		logger:   logger.Named("session"),
	}
}

// Create starts a new game under the manager's rules. opts are applied after
// the defaults, so they may override the rules.
func (m *Manager) Create(ctx context.Context, opts ...game.Option) (game.Snapshot, error) {
	opts = append([]game.Option{
		game.WithRules(m.rules),
		game.WithLogger(m.logger),
	}, opts...)
	g := game.New(m.now().UTC(), opts...)

	s := &Session{game: g, subs: make(map[chan game.Snapshot]struct{})}
	m.mu.Lock()
	m.sessions[g.ID()] = s
	m.mu.Unlock()

	m.save(ctx, g)
	m.logger.Info("game created", zap.Stringer("game", g.ID()), zap.String("fen", g.FEN()))
	return g.Snapshot(), nil
}

func (m *Manager) session(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Get returns a snapshot of a live game.
func (m *Manager) Get(id uuid.UUID) (game.Snapshot, error) {
	s, ok := m.session(id)
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot(), nil
}

// List returns snapshots of every live game, most recently started first.
func (m *Manager) List() []game.Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	snaps := make([]game.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		snaps = append(snaps, s.game.Snapshot())
		s.mu.Unlock()
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].StartedAt.After(snaps[j].StartedAt)
	})
	return snaps
}

// History returns the plies of a live game.
func (m *Manager) History(id uuid.UUID) ([]game.Ply, error) {
	var h []game.Ply
	err := m.with(id, func(g *game.Game) error {
		h = g.History()
		return nil
	})
	return h, err
}

// with runs fn under the session lock. fn must not retain g.
func (m *Manager) with(id uuid.UUID, fn func(g *game.Game) error) error {
	s, ok := m.session(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.game)
}

// update runs a mutation under the session lock, then archives the game and
// notifies subscribers.
func (m *Manager) update(ctx context.Context, id uuid.UUID, fn func(g *game.Game) error) (game.Snapshot, error) {
	s, ok := m.session(id)
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.game); err != nil {
		return game.Snapshot{}, err
	}
	m.save(ctx, s.game)

	snap := s.game.Snapshot()
	s.broadcast(snap)
	if snap.Result.IsOver() {
		s.closeSubscribers()
	}
	return snap, nil
}

// Move applies from -> to in game id.
func (m *Manager) Move(ctx context.Context, id uuid.UUID, from, to board.Position) (game.Snapshot, error) {
	return m.update(ctx, id, func(g *game.Game) error {
		return g.ApplyMove(from, to)
	})
}

// Promote promotes the pawn on pos in game id.
func (m *Manager) Promote(ctx context.Context, id uuid.UUID, pos board.Position, kind board.Kind) (game.Snapshot, error) {
	return m.update(ctx, id, func(g *game.Game) error {
		return g.Promote(pos, kind)
	})
}

// Undo takes back the last ply of game id.
func (m *Manager) Undo(ctx context.Context, id uuid.UUID) (game.Snapshot, error) {
	return m.update(ctx, id, func(g *game.Game) error {
		return g.Undo()
	})
}

// Finish ends game id with result and archives it. Subscribers receive the
// final snapshot and are then closed.
func (m *Manager) Finish(ctx context.Context, id uuid.UUID, result game.Result) (game.Snapshot, error) {
	snap, err := m.update(ctx, id, func(g *game.Game) error {
		return g.End(result, m.now().UTC())
	})
	if err != nil {
		return snap, err
	}
	m.logger.Info("game finished", zap.Stringer("game", id), zap.Stringer("result", result))
	return snap, nil
}

// Load returns game id, resuming it from the archive when it is not live.
func (m *Manager) Load(ctx context.Context, id uuid.UUID) (game.Snapshot, error) {
	if snap, err := m.Get(id); err == nil {
		return snap, nil
	}
	if m.store == nil {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	rec, err := m.store.LoadGame(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return game.Snapshot{}, err
	}

	g, err := game.FromRecord(rec, m.logger)
	if err != nil {
		return game.Snapshot{}, err
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		// another caller may have resumed it meanwhile
		s = &Session{game: g, subs: make(map[chan game.Snapshot]struct{})}
		m.sessions[id] = s
	}
	m.mu.Unlock()

	m.logger.Info("game resumed", zap.Stringer("game", id), zap.Int("plies", len(rec.Plies)))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot(), nil
}

// Subscribe returns a channel receiving a snapshot after every change of
// game id, starting with the current one. The channel is closed when the game
// finishes or cancel is called.
func (m *Manager) Subscribe(id uuid.UUID) (<-chan game.Snapshot, func(), error) {
	s, ok := m.session(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	ch := make(chan game.Snapshot, subscriberBuffer)

	s.mu.Lock()
	snap := s.game.Snapshot()
	ch <- snap
	if snap.Result.IsOver() {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}, nil
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// Remove drops game id from the live registry and closes its subscribers.
// It reports whether the game was live. The archive is not touched.
func (m *Manager) Remove(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}

	s.mu.Lock()
	s.closeSubscribers()
	s.mu.Unlock()
	m.logger.Info("game removed", zap.Stringer("game", id))
	return true
}

// Close closes every subscriber channel.
func (m *Manager) Close() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.mu.Lock()
		s.closeSubscribers()
		s.mu.Unlock()
	}
}

func (m *Manager) save(ctx context.Context, g *game.Game) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveGame(ctx, g.Record()); err != nil {
		m.logger.Error("archive game", zap.Stringer("game", g.ID()), zap.Error(err))
	}
}

// broadcast must be called with s.mu held. A subscriber that is behind
// misses intermediate snapshots, but the final snapshot of a finished game
// replaces its oldest pending one so the result is always delivered.
func (s *Session) broadcast(snap game.Snapshot) {
	final := snap.Result.IsOver()
	for ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		if !final {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
