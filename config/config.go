// Package config loads runtime settings from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs at startup. Signing material and
// the CORS allow-list live here rather than in compiled-in constants.
type Config struct {
	ListenAddr  string        `env:"TASKTRACK_LISTEN_ADDR" envDefault:":8080"`
	DBPath      string        `env:"TASKTRACK_DB_PATH" envDefault:"tasks.db"`
	JWTSecret   string        `env:"TASKTRACK_JWT_SECRET"`
	TokenTTL    time.Duration `env:"TASKTRACK_TOKEN_TTL"`
	CORSOrigins []string      `env:"TASKTRACK_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	RedisAddr   string        `env:"TASKTRACK_REDIS_ADDR"`
	CacheTTL    time.Duration `env:"TASKTRACK_CACHE_TTL" envDefault:"5m"`
	Debug       bool          `env:"DEBUG"`
}

// Load parses configuration from the environment and validates it. A zero
// TokenTTL issues tokens without an expiry claim.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("TASKTRACK_JWT_SECRET is required")
	}
	if cfg.TokenTTL < 0 {
		return Config{}, fmt.Errorf("TASKTRACK_TOKEN_TTL must not be negative")
	}
	if cfg.CacheTTL < 0 {
		return Config{}, fmt.Errorf("TASKTRACK_CACHE_TTL must not be negative")
	}
	return cfg, nil
}
