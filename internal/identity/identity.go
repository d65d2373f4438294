// Package identity wraps the external identity provider: verifying bearer
// tokens it issued, and minting the short-lived session tokens the frontend
// stores in a cookie.
package identity

import "context"

// Identity is a verified caller. Email is the string recorded on resources
// at creation time and compared on owner-scoped routes.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Verifier validates a bearer token against the identity provider. A token
// that is expired, malformed, revoked, or badly signed yields an error;
// verification is never retried.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
