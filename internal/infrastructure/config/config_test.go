package config_test

import (
	"testing"
	"time"

	"github.com/iho/gowallet/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.StoreBackend != config.StoreBackendPostgres || cfg.LockBackend != config.LockBackendLocal {
		t.Fatalf("unexpected backends %s/%s", cfg.StoreBackend, cfg.LockBackend)
	}

	if cfg.LockTimeout != 5*time.Second {
		t.Fatalf("expected default lock timeout 5s, got %s", cfg.LockTimeout)
	}

	if cfg.BonusEnabled {
		t.Fatalf("expected bonus disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("BONUS_ENABLED", "true")
	t.Setenv("BONUS_AMOUNT", "10.00")
	t.Setenv("BONUS_DETAIL", "Welcome credit")

	cfg, err := config.Load()
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

	if cfg.StoreBackend != config.StoreBackendMemory || cfg.LockBackend != config.LockBackendRedis {
		t.Fatalf("expected backend overrides, got %s/%s", cfg.StoreBackend, cfg.LockBackend)
	}

	if cfg.LockTimeout != 250*time.Millisecond {
		t.Fatalf("expected lock timeout override, got %s", cfg.LockTimeout)
	}

	amount, err := cfg.BonusAmountDecimal()
	if err != nil {
		t.Fatalf("unexpected bonus amount error: %v", err)
	}
	if !cfg.BonusEnabled || amount.String() != "10" || cfg.BonusDetail != "Welcome credit" {
		t.Fatalf("unexpected bonus settings: enabled=%v amount=%s detail=%q", cfg.BonusEnabled, amount, cfg.BonusDetail)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store backend", env: map[string]string{"STORE_BACKEND": "sqlite"}},
		{name: "redis lock without redis", env: map[string]string{"LOCK_BACKEND": "redis", "REDIS_URL": ""}},
		{name: "negative bonus", env: map[string]string{"BONUS_AMOUNT": "-1"}},
		{name: "malformed bonus", env: map[string]string{"BONUS_AMOUNT": "ten"}},
		{name: "zero lock timeout", env: map[string]string{"LOCK_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
