// Package config reads server settings from command-line flags with
// environment fallbacks. CLI flags take precedence over environment variables.
//
//	PORT               -p            listen port (default 8080)
//	DATABASE_TYPE      -t            sqlite or postgres (default sqlite)
//	DATABASE_URL       -d            SQLite path or PostgreSQL DSN
//	REDIS_ADDR         -redis        item cache address; empty disables the cache
//	CATALOG_CACHE_TTL  -cache-ttl    item cache TTL (default 10m)
//	JWT_SECRET         -jwt-secret   token signing key (required)
//	LOG_LEVEL          -log-level    debug, info, warn, error
//	LOG_FORMAT         -log-format   text or json
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	defaultPort       = 8080
	defaultSQLitePath = "./data/krisefikser.db"
	defaultCacheTTL   = 10 * time.Minute
)

// Config holds the server settings.
type Config struct {
	Port            int
	DatabaseType    string
	DatabaseURL     string
	RedisAddr       string
	CatalogCacheTTL time.Duration
	JWTSecret       string
	LogLevel        string
	LogFormat       string
}

// ParseFlags parses args (without the program name) and fills the gaps
// from the environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var cacheTTL string

	fs := flag.NewFlagSet("krisefikser", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite path")
	fs.StringVar(&cfg.RedisAddr, "redis", "", "Redis address for the item cache")
	fs.StringVar(&cacheTTL, "cache-ttl", "", "Item cache TTL (e.g. 10m)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	fallback(&cfg.DatabaseType, "DATABASE_TYPE", DatabaseSQLite)
	switch cfg.DatabaseType {
	case DatabaseSQLite:
		fallback(&cfg.DatabaseURL, "DATABASE_URL", defaultSQLitePath)
	case DatabasePostgres:
		fallback(&cfg.DatabaseURL, "DATABASE_URL", "")
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	fallback(&cfg.RedisAddr, "REDIS_ADDR", "")

	fallback(&cacheTTL, "CATALOG_CACHE_TTL", "")
	cfg.CatalogCacheTTL = defaultCacheTTL
	if cacheTTL != "" {
		ttl, err := time.ParseDuration(cacheTTL)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid catalog cache TTL %q", cacheTTL)
		}
		cfg.CatalogCacheTTL = ttl
	}

	fallback(&cfg.JWTSecret, "JWT_SECRET", "")
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	fallback(&cfg.LogLevel, "LOG_LEVEL", "info")
	fallback(&cfg.LogFormat, "LOG_FORMAT", "text")

	return cfg, nil
}

// fallback fills *v from the environment, then def, when it is empty.
func fallback(v *string, env, def string) {
	if *v != "" {
		return
	}
	if *v = os.Getenv(env); *v == "" {
		*v = def
	}
}
