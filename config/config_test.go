package config

import (
	"os"
	"testing"
	"time"
)

// setRequired gives every test a clean environment with only the signing
// secret present. t.Setenv registers the restore; os.Unsetenv makes the
// variable truly absent so envDefault values apply.
func setRequired(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TASKTRACK_LISTEN_ADDR",
		"TASKTRACK_DB_PATH",
		"TASKTRACK_TOKEN_TTL",
		"TASKTRACK_CORS_ORIGINS",
		"TASKTRACK_REDIS_ADDR",
		"TASKTRACK_CACHE_TTL",
		"DEBUG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("TASKTRACK_JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "tasks.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 0 {
		t.Fatalf("token ttl = %v, want 0", cfg.TokenTTL)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.CacheTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("TASKTRACK_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without signing secret")
	}
}

func TestLoadRejectsNegativeTokenTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("TASKTRACK_TOKEN_TTL", "-1h")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative token ttl")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TASKTRACK_LISTEN_ADDR", ":9090")
	t.Setenv("TASKTRACK_TOKEN_TTL", "30m")
	t.Setenv("TASKTRACK_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("token ttl = %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}
