package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"codesync-relay/internal/server"
)

func main() {
	// Load local .env (dev only).
	_ = godotenv.Load()

	cfg, err := server.LoadConfig()
	if err != nil {
		// No logger yet; nothing better than stderr here.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := server.NewLogger(cfg.Env)

	hub := server.NewHub(cfg, logger)
	go hub.Run()

	mux := server.SetupRoutes(hub)
	srv := server.CreateServer(cfg.Addr, server.WithMiddleware(cfg, mux))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server crashed", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown started")

	if err := server.ShutdownServer(srv, cfg.ShutdownTimeout); err != nil {
		logger.Error("HTTP server shutdown", "err", err)
	}
	if err := hub.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Error("hub shutdown", "err", err)
	}

	logger.Info("shutdown complete")
}
