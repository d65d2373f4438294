package auth

import (
	"context"

	"github.com/epiqdine/epiqdine/internal/identity"
)

type contextKey struct{}

// WithIdentity returns a context carrying the verified caller.
func WithIdentity(ctx context.Context, ident identity.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// FromContext extracts the verified caller, if any.
func FromContext(ctx context.Context) (identity.Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(identity.Identity)
	return ident, ok
}

// Email returns the verified caller's email, or "" on an unauthenticated
// request.
func Email(ctx context.Context) string {
	ident, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ident.Email
}
