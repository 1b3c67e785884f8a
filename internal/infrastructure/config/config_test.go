package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cofundable/cofundable/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_ENABLED", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.RateLimitRPS != 100 || cfg.RateLimitBurst != 200 {
		t.Fatalf("unexpected rate limit defaults: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	if cfg.CacheTTL != 5*time.Minute || cfg.JWTTTL != 24*time.Hour || cfg.OutboxPollInterval != time.Second {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}

	if cfg.TreasuryAccountID != config.DefaultTreasuryAccountID || !cfg.OutboxEnabled || cfg.AuthEnabled {
		t.Fatalf("unexpected ledger defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("TREASURY_ACCOUNT_ID", "01HTREASURY")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.TreasuryAccountID != "01HTREASURY" {
		t.Fatalf("expected treasury override, got %s", cfg.TreasuryAccountID)
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "HTTP_PORT=7070\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("LOG_LEVEL", "warn")
	// godotenv sets HTTP_PORT for the process; restore it afterwards.
	t.Setenv("HTTP_PORT", "")
	if err := os.Unsetenv("HTTP_PORT"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.HTTPPort != "7070" {
		t.Fatalf("expected HTTP port from .env, got %s", cfg.HTTPPort)
	}

	if cfg.LogLevel != "warn" {
		t.Fatalf("expected environment to win over .env, got %s", cfg.LogLevel)
	}
}

func TestLoadRequiresSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if !errors.Is(err, config.ErrJWTSecretRequired) {
		t.Fatalf("expected ErrJWTSecretRequired, got %v", err)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
