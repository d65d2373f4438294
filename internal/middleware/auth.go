package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/epiqdine/epiqdine/internal/auth"
	"github.com/epiqdine/epiqdine/internal/identity"
)

// RequireAuth extracts the bearer token from the Authorization header,
// verifies it, and populates the request context with the caller's identity.
// A missing or malformed header fails immediately without contacting the
// verifier.
func RequireAuth(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			ident, err := verifier.Verify(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), *ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwnEmail checks that the {email} path segment matches the verified
// caller's email exactly. It must run after RequireAuth; a mismatch means
// the caller is known but not permitted.
func RequireOwnEmail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.FromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if r.PathValue("email") != ident.Email {
			forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "Unauthorized Access")
}

func forbidden(w http.ResponseWriter) {
	writeMessage(w, http.StatusForbidden, "Forbidden Access")
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
