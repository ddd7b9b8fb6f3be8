package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/handler/dto"
	"github.com/taskpad/taskpad/internal/service"
)

// AccountHandler handles registration, login and profile requests.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("account_registered", "account_id", account.ID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Account registered!"})
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, account, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("login_succeeded", "account_id", account.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Login successful!",
		Token:   token,
	})
}

// Profile handles GET /profile. Requires the auth middleware.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		h.writeError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Hello, %s!", identity.Email),
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *AccountHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFieldsRequired):
		h.writeError(w, http.StatusBadRequest, "username, email and password are required")
	case errors.Is(err, service.ErrEmailExists):
		h.writeError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "invalid email or password")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "an internal error occurred")
	}
}

// writeError writes an error response.
func (h *AccountHandler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
