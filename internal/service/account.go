package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/metrics"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/repository"
)

// Account service errors.
var (
	ErrFieldsRequired = errors.New("username, email and password are required")
	ErrEmailExists    = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so a caller cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountStore is the persistence contract the service needs.
// *repository.Repository satisfies it; tests substitute a fake.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
}

// AccountService handles registration and login.
type AccountService struct {
	store        AccountStore
	tokens       *auth.TokenIssuer
	metrics      metrics.Recorder
	storeTimeout time.Duration

	// dummyHash is verified against on unknown emails so login timing
	// does not reveal whether an account exists.
	dummyHash string
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, tokens *auth.TokenIssuer, recorder metrics.Recorder, storeTimeout time.Duration) (*AccountService, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	dummyHash, err := auth.HashPassword(ulid.Make().String())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AccountService{
		store:        store,
		tokens:       tokens,
		metrics:      recorder,
		storeTimeout: storeTimeout,
		dummyHash:    dummyHash,
	}, nil
}

func (s *AccountService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Register creates a new account. The email must not already be
// registered; the database uniqueness constraint is the arbiter.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" || email == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.store.CreateAccount(opCtx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.metrics.IncAccountRegistered()
	return account, nil
}

// Login verifies the credentials and returns a signed session token
// together with the account.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *model.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.store.GetAccountByEmail(opCtx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Burn a verify so unknown emails cost the same as wrong
			// passwords.
			_, _ = auth.VerifyPassword(password, s.dummyHash)
			s.metrics.IncLogin("failed")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("look up account: %w", err)
	}

	match, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin("failed")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin("success")
	return token, account, nil
}
