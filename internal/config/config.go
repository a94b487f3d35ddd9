// Package config loads server settings from environment variables.
//
// Every setting has a default, so `go run ./cmd/server` works with no
// environment at all. Invalid values are reported together by Load.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port int

	// Storage selects the user/post repositories: "memory" or "sqlite".
	Storage string
	// DBPath is the SQLite DSN used when Storage is "sqlite".
	DBPath string

	// Seed loads the admin account and starter posts at startup.
	Seed bool

	// TokenSecret switches session tokens to signed JWTs when non-empty.
	TokenSecret string
	// TokenTTL bounds JWT lifetime; zero means tokens live until logout.
	TokenTTL time.Duration

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string

	LogLevel slog.Level
}

// Default returns the settings used when no environment is set.
func Default() Config {
	return Config{
		Port:        5000,
		Storage:     StorageMemory,
		DBPath:      ":memory:",
		Seed:        true,
		CORSOrigins: []string{"*"},
		LogLevel:    slog.LevelInfo,
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the signature of
// os.LookupEnv. Tests pass a map-backed function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("PORT: invalid port %q", v))
		} else {
			cfg.Port = port
		}
	}

	if v, ok := get("BLOG_STORAGE"); ok {
		switch strings.ToLower(v) {
		case StorageMemory, StorageSQLite:
			cfg.Storage = strings.ToLower(v)
		default:
			errs = append(errs, fmt.Errorf("BLOG_STORAGE: want %q or %q, got %q", StorageMemory, StorageSQLite, v))
		}
	}

	if v, ok := get("DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := get("BLOG_SEED"); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BLOG_SEED: %w", err))
		} else {
			cfg.Seed = seed
		}
	}

	if v, ok := get("BLOG_TOKEN_SECRET"); ok {
		if len(v) < 16 {
			errs = append(errs, errors.New("BLOG_TOKEN_SECRET: must be at least 16 characters"))
		} else {
			cfg.TokenSecret = v
		}
	}

	if v, ok := get("BLOG_TOKEN_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			errs = append(errs, fmt.Errorf("BLOG_TOKEN_TTL: invalid duration %q", v))
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if v, ok := get("CORS_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	if v, ok := get("LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
