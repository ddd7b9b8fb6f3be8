// Package model defines domain entities for the application.
package model

import "time"

// Todo represents a single task item.
// OwnerID is empty for todos created without authentication.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the todo is visible to the given owner filter.
// An empty filter matches everything.
func (t *Todo) OwnedBy(ownerID string) bool {
	return ownerID == "" || t.OwnerID == ownerID
}
