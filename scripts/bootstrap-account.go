package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/repository"
)

type output struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "admin", "Account username")
		email       = flag.String("email", "admin@taskpad.local", "Account email")
		password    = flag.String("password", "", "Account password (required)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	passwordHash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	account := &model.Account{
		ID:           ulid.Make().String(),
		Username:     strings.TrimSpace(*username),
		Email:        strings.TrimSpace(strings.ToLower(*email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			fmt.Fprintln(os.Stderr, "email already registered:", account.Email)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "create account:", err)
		os.Exit(1)
	}

	out := output{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.AccountID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
