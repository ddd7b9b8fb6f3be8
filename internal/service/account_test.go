package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/metrics"
	"github.com/taskpad/taskpad/internal/testutil"
)

func newAccountService(t *testing.T, store *testutil.FakeAccountStore, rec metrics.Recorder) *AccountService {
	t.Helper()
	tokens := auth.NewTokenIssuer("test-secret-at-least-32-chars-long", time.Hour)
	svc, err := NewAccountService(store, tokens, rec, time.Second)
	if err != nil {
		t.Fatalf("NewAccountService failed: %v", err)
	}
	return svc
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t, testutil.NewFakeAccountStore(), nil)

	account, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if account.Email != "alice@example.com" {
		t.Errorf("email should be lowercased, got %q", account.Email)
	}
	if account.Username != "alice" {
		t.Errorf("Username = %q, want alice", account.Username)
	}
	if account.PasswordHash == "" || account.PasswordHash == "hunter2hunter2" {
		t.Error("password must be stored hashed")
	}
	if account.ID == "" {
		t.Error("ID should be assigned")
	}
}

func TestRegister_FieldsRequired(t *testing.T) {
	t.Parallel()

	svc := newAccountService(t, testutil.NewFakeAccountStore(), nil)
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"missing username", "", "a@b.com", "pw"},
		{"missing email", "alice", "", "pw"},
		{"missing password", "alice", "a@b.com", ""},
		{"whitespace username", "   ", "a@b.com", "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			if !errors.Is(err, ErrFieldsRequired) {
				t.Errorf("got %v, want ErrFieldsRequired", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	store := testutil.NewFakeAccountStore()
	svc := newAccountService(t, store, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "alice@example.com", "original-password")
	if err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err = svc.Register(ctx, "mallory", "alice@example.com", "other-password")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate Register: got %v, want ErrEmailExists", err)
	}

	// Case only differs: still the same email.
	_, err = svc.Register(ctx, "mallory", "ALICE@example.com", "other-password")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("case-variant duplicate: got %v, want ErrEmailExists", err)
	}

	// The original account and its credentials survive.
	token, account, err := svc.Login(ctx, "alice@example.com", "original-password")
	if err != nil {
		t.Fatalf("Login after duplicate attempt failed: %v", err)
	}
	if token == "" {
		t.Error("Login should return a token")
	}
	if account.ID != first.ID || account.Username != "alice" {
		t.Errorf("first registration should be intact, got %+v", account)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	svc := newAccountService(t, testutil.NewFakeAccountStore(), rec)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "bob", "bob@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, account, err := svc.Login(ctx, "Bob@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if account.ID != registered.ID {
		t.Errorf("account ID = %q, want %q", account.ID, registered.ID)
	}

	// The token must verify and carry the account identity.
	tokens := auth.NewTokenIssuer("test-secret-at-least-32-chars-long", time.Hour)
	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token should verify: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Errorf("token subject = %q, want %q", claims.Subject, registered.ID)
	}
	if claims.Email != "bob@example.com" {
		t.Errorf("token email = %q, want bob@example.com", claims.Email)
	}

	if snap := rec.Snapshot(); snap.LoginsSucceeded != 1 {
		t.Errorf("successful logins = %d, want 1", snap.LoginsSucceeded)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	svc := newAccountService(t, testutil.NewFakeAccountStore(), rec)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "correct horse"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, wrongPW := svc.Login(ctx, "bob@example.com", "wrong")
	_, _, unknown := svc.Login(ctx, "nobody@example.com", "wrong")

	if !errors.Is(wrongPW, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", wrongPW)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", unknown)
	}
	if wrongPW.Error() != unknown.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPW, unknown)
	}

	if snap := rec.Snapshot(); snap.LoginsFailed != 2 {
		t.Errorf("failed logins = %d, want 2", snap.LoginsFailed)
	}
}
