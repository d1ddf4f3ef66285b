// Package server provides configuration loading for the relay, with
// environment-driven settings and sanitized defaults.
package server

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the relay's runtime settings. Values come from the
// environment; every field has a usable default for local development.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`

	// AllowedOrigins gates WebSocket upgrades; "*" allows any origin.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	// CORSAllow is the allowlist for the plain HTTP surface (health, metrics).
	CORSAllow []string `envconfig:"CORS_ALLOW" default:"*"`

	// MaxMessageSize caps a single inbound frame. Drawing snapshots can be
	// large, so the ceiling matches the original client contract (100 MiB).
	MaxMessageSize int64 `envconfig:"MAX_MESSAGE_SIZE" default:"104857600"`

	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"120"`
	RateLimitRefill time.Duration `envconfig:"RATE_LIMIT_REFILL" default:"1s"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads configuration from the environment and applies defaults
// for anything unset or out of range.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return sanitizeConfig(cfg), nil
}

// NewConfig returns the default configuration, ignoring the environment.
// Useful for tests that need a known baseline.
func NewConfig() Config {
	return sanitizeConfig(Config{})
}

func sanitizeConfig(cfg Config) Config {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:8080"}
	}
	if len(cfg.CORSAllow) == 0 {
		cfg.CORSAllow = []string{"*"}
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 104857600
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 120
	}
	if cfg.RateLimitRefill <= 0 {
		cfg.RateLimitRefill = time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}
