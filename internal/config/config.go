package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=replate port=5432 sslmode=disable"

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins string
	RedisURL    string // empty disables the dashboard cache
	CacheTTL    time.Duration
	LogLevel    string
	Env         string

	ExpirySweepInterval     time.Duration
	AnalyticsRollupInterval time.Duration

	// Warnings collects production-unsafe defaults for the caller to log.
	Warnings []string
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")
	ErrShortJWTSecret   = errors.New("JWT_SECRET must be at least 32 characters")
)

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:         getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		RedisURL:            getEnv("REDIS_URL", ""),
		CacheTTL:            time.Duration(getEnvAsPositiveInt("CACHE_TTL", 60)) * time.Second,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Env:                 getEnv("APP_ENV", "production"),
		ExpirySweepInterval: getEnvAsDuration("EXPIRY_SWEEP_INTERVAL", 5*time.Minute),

		AnalyticsRollupInterval: getEnvAsDuration("ANALYTICS_ROLLUP_INTERVAL", time.Hour),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, ErrShortJWTSecret
	}
	if cfg.DatabaseDSN == defaultDSN {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_DSN uses the local default")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		cfg.Warnings = append(cfg.Warnings, "CORS_ALLOWED_ORIGINS uses the local default")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvAsPositiveInt treats zero and negative values as unset.
func getEnvAsPositiveInt(key string, def int) int {
	if n := getEnvAsInt(key, def); n > 0 {
		return n
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
