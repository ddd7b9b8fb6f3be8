package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskpad/taskpad/internal/model"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")
)

// CreateAccount inserts a new account into the database.
// The UNIQUE constraint on email is the duplicate signal; there is no
// separate existence check, so concurrent registrations cannot race.
func (r *Repository) CreateAccount(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccountByEmail retrieves an account by its email address.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`

	var account model.Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM accounts
		WHERE id = $1
	`

	var account model.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return &account, nil
}
