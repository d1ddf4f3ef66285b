// Package server exposes the HTTP handlers of the relay: the WebSocket
// upgrade endpoint and the health check.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ServeWS handles WebSocket upgrade requests. It validates the method and
// origin, upgrades the connection, mints a connection ID, and registers the
// client with the hub, which launches the pump goroutines. Joining a room is
// a separate application event sent over the established connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}

	client := newClient(uuid.NewString(), conn, h, r.RemoteAddr)
	h.register <- client
}

// HealthHandler provides a simple health check endpoint that reports server
// status as plain text.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "CodeSync relay is running!")
}
