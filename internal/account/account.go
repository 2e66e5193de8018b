// Package account creates and verifies player accounts. It knows nothing
// about games.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hailam/chessrules/internal/storage"
)

var (
	ErrAccountExists  = errors.New("account already exists")
	ErrInvalidAccount = errors.New("invalid account details")
)

// Store persists account records. storage.Storage implements it.
type Store interface {
	CreateAccount(ctx context.Context, rec storage.AccountRecord) error
	LoadAccount(ctx context.Context, username string) (storage.AccountRecord, error)
}

// Credentials are the fields validated on account creation.
type Credentials struct {
	Username string `validate:"required,alphanum,min=3,max=32"`
	Password string `validate:"required,min=8,max=72"`
	Email    string `validate:"required,email"`
}

// Service implements account creation and verification.
type Service struct {
	store    Store
	validate *validator.Validate
	cost     int
	now      func() time.Time
	logger   *zap.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService creates a service backed by store.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		logger:   logger.Named("account"),
	}
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) check(c Credentials) error {
	if err := s.validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidAccount, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	return nil
}

// CreateAccount hashes the password and stores a new account.
func (s *Service) CreateAccount(ctx context.Context, username, password, email string) error {
	c := Credentials{Username: username, Password: password, Email: email}
	if err := s.check(c); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("account: hash password: %w", err)
	}

	err = s.store.CreateAccount(ctx, storage.AccountRecord{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, storage.ErrExists) {
		return fmt.Errorf("%w: %s", ErrAccountExists, username)
	}
	if err != nil {
		return err
	}

	s.logger.Info("account created", zap.String("username", username))
	return nil
}

// VerifyAccount reports whether password (and email, when given) match the
// stored account. A mismatch is not an error, and an unknown username is
// reported the same way as a wrong password.
func (s *Service) VerifyAccount(ctx context.Context, username, password, email string) (bool, error) {
	rec, err := s.store.LoadAccount(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		// spend the same hashing time as a real comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.logger.Debug("unknown account", zap.String("username", username))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if email != "" && !strings.EqualFold(email, rec.Email) {
		s.logger.Debug("email mismatch", zap.String("username", username))
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		s.logger.Debug("password mismatch", zap.String("username", username))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("account: compare hash: %w", err)
	}
	return true, nil
}

// dummy returns a hash of the service's cost that matches no password.
func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no account"), s.cost)
	})
	return s.dummyHash
}
