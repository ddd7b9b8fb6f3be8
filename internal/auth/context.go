package auth

import (
	"context"

	"github.com/taskpad/taskpad/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for storing the caller Identity.
	identityContextKey contextKey = "identity"
)

// ContextWithIdentity adds the verified Identity to the context.
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// AccountIDFromContext is a convenience function to get the caller's
// account ID. Returns empty string if not authenticated.
func AccountIDFromContext(ctx context.Context) string {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return ""
	}
	return identity.AccountID
}
