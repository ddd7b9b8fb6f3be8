package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/model"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenIssuer
}

// Auth returns a middleware that authenticates requests.
// It extracts the bearer token from the Authorization header, verifies
// it, and injects the caller identity into the request context. The
// gate is a pure function of the headers: no store access, no side
// effects, and every failure produces the same 401 body.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				// Expired vs invalid matters only for diagnostics; the
				// response is identical.
				reason := "invalid_token"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			identity := &model.Identity{
				AccountID: claims.Subject,
				Email:     claims.Email,
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid or missing token"}`))
}
