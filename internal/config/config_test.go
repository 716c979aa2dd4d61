package config_test

import (
	"errors"
	"testing"
	"time"

	"replate-backend/internal/config"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("HTTP_PORT", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort: got %q, want 8080", cfg.HTTPPort)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Errorf("CacheTTL: got %v, want 60s", cfg.CacheTTL)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL: got %v, want 24h", cfg.TokenTTL)
	}
	if cfg.ExpirySweepInterval != 5*time.Minute {
		t.Errorf("ExpirySweepInterval: got %v, want 5m", cfg.ExpirySweepInterval)
	}
	if cfg.AnalyticsRollupInterval != time.Hour {
		t.Errorf("AnalyticsRollupInterval: got %v, want 1h", cfg.AnalyticsRollupInterval)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL: got %q, want empty", cfg.RedisURL)
	}
	if len(cfg.Warnings) != 2 {
		t.Errorf("Warnings: got %v, want 2 entries", cfg.Warnings)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_TTL", "15")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("DATABASE_DSN", "host=db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://replate.example")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort: got %q", cfg.HTTPPort)
	}
	if cfg.CacheTTL != 15*time.Second {
		t.Errorf("CacheTTL: got %v", cfg.CacheTTL)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL: got %v", cfg.TokenTTL)
	}
	if cfg.ExpirySweepInterval != 5*time.Minute {
		t.Errorf("bad duration should fall back, got %v", cfg.ExpirySweepInterval)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings: got %v, want none", cfg.Warnings)
	}
}

func TestLoad_NonPositiveCacheTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	for _, v := range []string{"0", "-5"} {
		t.Setenv("CACHE_TTL", v)
		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		// redis treats a zero ttl as no expiry
		if cfg.CacheTTL != 60*time.Second {
			t.Errorf("CACHE_TTL=%s: got %v, want 60s", v, cfg.CacheTTL)
		}
	}
}

func TestLoad_SecretValidation(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   error
	}{
		{"missing", "", config.ErrMissingJWTSecret},
		{"short", "too-short", config.ErrShortJWTSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			_, err := config.Load()
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
