// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs access and refresh tokens. Required.
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// RedisURL enables the itinerary cache. Empty means no cache.
	RedisURL string
	CacheTTL time.Duration

	AI AIConfig

	// RequestTimeout bounds every request end to end. The server write
	// timeout is derived from it.
	RequestTimeout time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// PaymentSigningSecret, when set, makes the mock gateway check the
	// HMAC signature on payment verification.
	PaymentSigningSecret string
}

// AIConfig selects the itinerary generator and tunes the guard around it.
type AIConfig struct {
	// Provider is one of template, openai, ollama, gemini. Defaults to "template".
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	Timeout          time.Duration
	ConcurrencyLimit int64
	AcquireTimeout   time.Duration
	BreakerFailures  uint32
	BreakerCooldown  time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or any
// value that cannot be parsed.
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AccessTokenTTL:       p.duration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL:      p.duration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		RedisURL:             os.Getenv("REDIS_URL"),
		CacheTTL:             p.duration("CACHE_TTL", time.Hour),
		RequestTimeout:       p.duration("REQUEST_TIMEOUT", 120*time.Second),
		MaxBodyBytes:         p.int("MAX_BODY_BYTES", 1<<20),
		PaymentSigningSecret: os.Getenv("PAYMENT_SIGNING_SECRET"),
		AI: AIConfig{
			Provider:         strings.ToLower(getEnv("AI_PROVIDER", "template")),
			APIKey:           os.Getenv("AI_API_KEY"),
			Model:            os.Getenv("AI_MODEL"),
			BaseURL:          os.Getenv("AI_BASE_URL"),
			Timeout:          p.duration("AI_TIMEOUT", 90*time.Second),
			ConcurrencyLimit: p.int("AI_CONCURRENCY_LIMIT", 10),
			AcquireTimeout:   p.duration("AI_ACQUIRE_TIMEOUT", 10*time.Second),
			BreakerFailures:  uint32(p.int("AI_BREAKER_FAILURES", 5)),
			BreakerCooldown:  p.duration("AI_BREAKER_COOLDOWN", 60*time.Second),
		},
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// parser collects every malformed value so Load can report them together.
type parser struct {
	errs []error
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: expected a positive duration, got %q", key, v))
		return fallback
	}
	return d
}

func (p *parser) int(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: expected a positive integer, got %q", key, v))
		return fallback
	}
	return n
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
