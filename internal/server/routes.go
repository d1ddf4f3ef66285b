// Package server wires HTTP handlers into a ServeMux for the relay.
package server

import (
	"net/http"

	"github.com/rs/cors"

	"codesync-relay/pkg/metrics"
)

// SetupRoutes configures and returns the relay's routes: health check,
// WebSocket endpoint, and Prometheus metrics.
func SetupRoutes(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HealthHandler)
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// WithMiddleware wraps the mux with the CORS policy from configuration.
// WebSocket upgrades carry their own origin check; this covers the plain
// HTTP surface.
func WithMiddleware(cfg Config, handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllow,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(handler)
}
