// Package server wires structured logging for the relay.
package server

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger shaped by the environment: JSON at INFO
// level in prod, text at DEBUG level everywhere else.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}
