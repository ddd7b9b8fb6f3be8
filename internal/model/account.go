// Package model defines domain entities for the application.
package model

import "time"

// Account represents a registered user able to authenticate and own todos.
// PasswordHash holds the argon2id PHC string and is never serialized.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified caller attached to a request context
// by the auth middleware.
type Identity struct {
	AccountID string
	Email     string
}
