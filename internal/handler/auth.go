package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epiqdine/epiqdine/internal/identity"
)

const sessionCookieName = "token"

type AuthHandler struct {
	issuer *identity.Issuer
	secure bool
	logger *slog.Logger
}

// NewAuthHandler creates the handler that mints session tokens. secure
// controls the cookie's Secure flag and should be on whenever the server is
// reached over HTTPS.
func NewAuthHandler(issuer *identity.Issuer, secure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{issuer: issuer, secure: secure, logger: logger}
}

// IssueToken signs the posted user info as a one hour session token and sets
// it as an httpOnly cookie.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var userInfo map[string]any
	if err := json.NewDecoder(r.Body).Decode(&userInfo); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	token, err := h.issuer.Issue(userInfo)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to issue token"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
