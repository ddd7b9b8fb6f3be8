package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/handler/dto"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /todo.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	todo, err := h.svc.CreateTodo(r.Context(), input, auth.AccountIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"owned", todo.OwnerID != "",
	)

	writeJSON(w, http.StatusOK, dto.TodoEnvelope{
		Message: "Todo created!",
		Todo:    todo,
	})
}

// List handles GET /todo.
// Returns the bare collection, scoped to the caller when authenticated.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context(), auth.AccountIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if todos == nil {
		todos = []*model.Todo{}
	}

	writeJSON(w, http.StatusOK, todos)
}

// Get handles GET /todo/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := h.svc.GetTodo(r.Context(), id, auth.AccountIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// Update handles PUT /todo/{id}.
// Performs a full replace of title, description and completed.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	todo, err := h.svc.UpdateTodo(r.Context(), id, input, auth.AccountIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_updated", "todo_id", todo.ID)

	writeJSON(w, http.StatusOK, dto.TodoEnvelope{
		Message: "Todo updated!",
		Todo:    todo,
	})
}

// Delete handles DELETE /todo/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteTodo(r.Context(), id, auth.AccountIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_deleted", "todo_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Todo deleted!"})
}

// UpdateAll handles PUT /todo. Open variant only: replaces the mutable
// fields of every todo, unscoped.
func (h *TodoHandler) UpdateAll(w http.ResponseWriter, r *http.Request) {
	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	count, err := h.svc.UpdateAllTodos(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todos_bulk_updated", "count", count)

	writeJSON(w, http.StatusOK, dto.BulkUpdateResponse{
		Message: "All todos updated!",
		Updated: count,
	})
}

// DeleteAll handles DELETE /todo. Open variant only.
func (h *TodoHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.DeleteAllTodos(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todos_bulk_deleted", "count", count)

	writeJSON(w, http.StatusOK, dto.BulkDeleteResponse{
		Message: "All todos deleted!",
		Deleted: count,
	})
}

// handleServiceError maps service errors to HTTP responses.
// No error propagates past here: everything becomes a JSON body.
func (h *TodoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		h.writeError(w, http.StatusBadRequest, "title is required")
	case errors.Is(err, service.ErrInvalidTodoID):
		h.writeError(w, http.StatusBadRequest, "invalid todo id")
	case errors.Is(err, service.ErrTodoNotFound):
		h.writeError(w, http.StatusNotFound, "todo not found")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "an internal error occurred")
	}
}

// writeError writes an error response.
func (h *TodoHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
