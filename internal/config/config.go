// Package config loads process configuration from the environment, with an
// optional .env file for development. Values are read once at startup and are
// immutable for the process lifetime.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API process needs at startup.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// DatabaseURL is the PostgreSQL DSN.
	DatabaseURL string

	// AuthSecret signs access tokens. Required; there is no default.
	AuthSecret string

	// AccessTokenTTL bounds bearer token validity.
	AccessTokenTTL time.Duration

	// AllowedOrigins configures CORS. "*" allows any origin.
	AllowedOrigins []string

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64

	// RateLimitRPS and RateLimitBurst configure the per-IP limiter.
	RateLimitRPS   int
	RateLimitBurst int
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("TASKORA_ADDR", ":8080"),
		DatabaseURL:    getEnv("TASKORA_PG_DSN", ""),
		AuthSecret:     getEnv("TASKORA_AUTH_SECRET", ""),
		AccessTokenTTL: getEnvAsDuration("TASKORA_ACCESS_TOKEN_TTL", 30*time.Minute),
		AllowedOrigins: getEnvAsSlice("TASKORA_CORS_ORIGINS", []string{"*"}),
		MaxBodyBytes:   getEnvAsInt64("TASKORA_MAX_BODY_BYTES", 1<<20),
		RateLimitRPS:   getEnvAsInt("TASKORA_RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvAsInt("TASKORA_RATE_LIMIT_BURST", 100),
	}

	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return nil, errors.New("config: TASKORA_AUTH_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, errors.New("config: TASKORA_ACCESS_TOKEN_TTL must be positive")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvAsInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvAsSlice(key string, def []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
