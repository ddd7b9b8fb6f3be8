// Package testutil provides helpers for unit and integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 540540

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetAccountsSchema drops and recreates the accounts schema for tests.
func ResetAccountsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigrationPair(ctx, pool, "000001_accounts")
}

// ResetTodosSchema drops and recreates the todos schema for tests.
func ResetTodosSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigrationPair(ctx, pool, "000002_todos")
}

func applyMigrationPair(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", name+".down.sql")
	upPath := filepath.Join(root, "migrations", name+".up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ProjectRoot locates the repository root from this source file.
func ProjectRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("unable to determine caller location")
	}
	// internal/testutil/testutil.go -> repo root is two levels up
	return filepath.Abs(filepath.Join(filepath.Dir(file), "..", ".."))
}

var emailSeq uint64

// UniqueEmail returns an email address unique within the test run.
func UniqueEmail(prefix string) string {
	n := atomic.AddUint64(&emailSeq, 1)
	return strings.ToLower(fmt.Sprintf("%s-%d-%s@test.local", prefix, n, ulid.Make().String()[:8]))
}
