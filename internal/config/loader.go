package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies STOCKTRACK_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known STOCKTRACK_* environment variables
// and overwrites the corresponding Config fields when a variable is set.
// This lets operators inject secrets at deploy time without touching the
// TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "STOCKTRACK_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "STOCKTRACK_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "STOCKTRACK_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMinute, "STOCKTRACK_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "STOCKTRACK_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "STOCKTRACK_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "STOCKTRACK_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "STOCKTRACK_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "STOCKTRACK_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "STOCKTRACK_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "STOCKTRACK_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "STOCKTRACK_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "STOCKTRACK_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "STOCKTRACK_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "STOCKTRACK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "STOCKTRACK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "STOCKTRACK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "STOCKTRACK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "STOCKTRACK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "STOCKTRACK_REDIS_TLS_ENABLED")

	// ── Quote ──
	setStr(&cfg.Quote.BaseURL, "STOCKTRACK_QUOTE_BASE_URL")
	setStr(&cfg.Quote.APIKey, "STOCKTRACK_QUOTE_API_KEY")
	setDuration(&cfg.Quote.Timeout, "STOCKTRACK_QUOTE_TIMEOUT")
	setDuration(&cfg.Quote.CacheTTL, "STOCKTRACK_QUOTE_CACHE_TTL")
	setInt(&cfg.Quote.MaxConcurrent, "STOCKTRACK_QUOTE_MAX_CONCURRENT")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "STOCKTRACK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
