// Package config loads process configuration from the environment, with a
// .env file as a convenience for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/uvg/wellness-backend/internal/auth"
)

// Config is everything the process needs, resolved once at startup and
// read-only afterwards.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens. Required; there is no safe default.
	JWTSecret string
	// JWTTTL is the session token lifetime.
	JWTTTL time.Duration
	// BcryptCost is the password hashing work factor.
	BcryptCost int

	// AllowGlobalHistory permits GET /history without a userId filter to
	// return every user's results. On by default to match the original
	// product; set ALLOW_GLOBAL_HISTORY=false to scope unfiltered
	// requests to the authenticated caller instead.
	AllowGlobalHistory bool

	LogLevel slog.Level
}

// Load reads configuration from the environment. A missing .env file is
// fine — deployments set real environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               8080,
		DBPath:             "data/wellness.db",
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             24 * time.Hour,
		BcryptCost:         auth.DefaultBcryptCost,
		AllowGlobalHistory: true,
		LogLevel:           slog.LevelInfo,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required (e.g. JWT_SECRET=$(openssl rand -hex 32))")
	}

	if v := os.Getenv("JWT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid JWT_TTL %q: %w", v, err)
		}
		cfg.JWTTTL = ttl
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid BCRYPT_COST %q: %w", v, err)
		}
		cfg.BcryptCost = cost
	}

	if v := os.Getenv("ALLOW_GLOBAL_HISTORY"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid ALLOW_GLOBAL_HISTORY %q: %w", v, err)
		}
		cfg.AllowGlobalHistory = allow
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", v, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}
