package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// Handle returns an HTTP handler that upgrades connections to WebSocket and
// runs them as Hub clients. Only the configured frontend origins may
// connect.
func Handle(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn)
		client.Run(r.Context())
	}
}
