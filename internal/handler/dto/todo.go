// Package dto defines request and response shapes for the HTTP API.
package dto

import "github.com/taskpad/taskpad/internal/model"

// TodoRequest is the body for creating or replacing a todo.
// Completed defaults to false when omitted.
type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TodoEnvelope wraps a todo write result with a confirmation message.
type TodoEnvelope struct {
	Message string      `json:"message"`
	Todo    *model.Todo `json:"todo"`
}

// BulkUpdateResponse summarizes an unscoped bulk update.
type BulkUpdateResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// BulkDeleteResponse summarizes an unscoped bulk delete.
type BulkDeleteResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
