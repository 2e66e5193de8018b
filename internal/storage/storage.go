package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/logging"
)

var (
	// ErrNotFound is returned when a key is absent.
	ErrNotFound = errors.New("storage: not found")

	// ErrExists is returned when creating a record whose key is taken.
	ErrExists = errors.New("storage: already exists")
)

// Storage keys
const (
	prefixGame    = "game/"
	prefixAccount = "account/"
	keyStats      = "stats"
)

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens the database in dir, or in the platform data directory when dir
// is empty.
func Open(dir string, logger *zap.Logger) (*Storage, error) {
	if dir == "" {
		var err error
		dir, err = GetDatabaseDir()
		if err != nil {
			return nil, err
		}
	}
	logger = logging.OrNop(logger)
	logger.Info("opening database", zap.String("dir", dir))

	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(logger *zap.Logger) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logging.OrNop(logger))
}

func open(opts badger.Options, logger *zap.Logger) (*Storage, error) {
	opts.Logger = logging.Badger(logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id uuid.UUID) []byte {
	return []byte(prefixGame + id.String())
}

func accountKey(username string) []byte {
	return []byte(prefixAccount + username)
}

// getJSON decodes the value at key into v, ErrNotFound when absent.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// SaveGame stores rec, replacing any earlier version. The first save of a
// finished game also updates the statistics.
func (s *Storage) SaveGame(ctx context.Context, rec game.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var prev game.Record
		err := getJSON(txn, gameKey(rec.ID), &prev)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		wasOver := err == nil && prev.Result.IsOver()

		if rec.Result.IsOver() && !wasOver {
			if err := recordResult(txn, rec); err != nil {
				return err
			}
		}
		return setJSON(txn, gameKey(rec.ID), rec)
	})
	if err != nil {
		return fmt.Errorf("storage: save game %s: %w", rec.ID, err)
	}

	s.logger.Debug("game saved",
		zap.Stringer("game", rec.ID),
		zap.Int("plies", len(rec.Plies)),
		zap.Stringer("result", rec.Result))
	return nil
}

// LoadGame returns the record stored for id.
func (s *Storage) LoadGame(ctx context.Context, id uuid.UUID) (game.Record, error) {
	var rec game.Record
	if err := ctx.Err(); err != nil {
		return rec, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, gameKey(id), &rec)
	})
	if err != nil {
		return game.Record{}, fmt.Errorf("storage: load game %s: %w", id, err)
	}
	return rec, nil
}

// ListGames returns every stored game, most recently started first.
func (s *Storage) ListGames(ctx context.Context) ([]game.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recs []game.Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec game.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list games: %w", err)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].StartedAt.After(recs[j].StartedAt)
	})
	return recs, nil
}

// DeleteGame removes the record for id.
func (s *Storage) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
	if err != nil {
		return fmt.Errorf("storage: delete game %s: %w", id, err)
	}
	return nil
}

// AccountRecord is the stored form of a player account.
type AccountRecord struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateAccount stores rec unless the username is already taken.
func (s *Storage) CreateAccount(ctx context.Context, rec AccountRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(accountKey(rec.Username))
		if err == nil {
			return ErrExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setJSON(txn, accountKey(rec.Username), rec)
	})
	if err != nil {
		return fmt.Errorf("storage: create account %q: %w", rec.Username, err)
	}
	return nil
}

// LoadAccount returns the account stored for username.
func (s *Storage) LoadAccount(ctx context.Context, username string) (AccountRecord, error) {
	var rec AccountRecord
	if err := ctx.Err(); err != nil {
		return rec, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, accountKey(username), &rec)
	})
	if err != nil {
		return AccountRecord{}, fmt.Errorf("storage: load account %q: %w", username, err)
	}
	return rec, nil
}
