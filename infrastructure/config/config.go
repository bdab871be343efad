package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "ODIN"

// Environment variable names.
const (
	EnvAppAddr         = "ODIN_APP_ADDR"
	EnvLogLevel        = "ODIN_LOG_LEVEL"
	EnvShutdownTimeout = "ODIN_SHUTDOWN_TIMEOUT"
	EnvSQLitePath      = "ODIN_SQLITE_PATH"
	EnvMigrationsDir   = "ODIN_MIGRATIONS_DIR"
	EnvKVBackend       = "ODIN_KV_BACKEND"
	EnvRedisURL        = "ODIN_REDIS_URL"
	EnvRedisPrefix     = "ODIN_REDIS_PREFIX"
	EnvSeedOnStart     = "ODIN_SEED_ON_START"
)

// Key-value backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	App    AppConfig
	SQLite SQLiteConfig
	KV     KVConfig
	Redis  RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Addr            string        `envconfig:"ODIN_APP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"ODIN_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"ODIN_SHUTDOWN_TIMEOUT" default:"2s"`
	SeedOnStart     bool          `envconfig:"ODIN_SEED_ON_START" default:"true"`
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type SQLiteConfig struct {
	Path string `envconfig:"ODIN_SQLITE_PATH" default:"odinpos.db"`
	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir string `envconfig:"ODIN_MIGRATIONS_DIR"`
}

type KVConfig struct {
	Backend string `envconfig:"ODIN_KV_BACKEND" default:"sqlite"`
}

type RedisConfig struct {
	URL    string `envconfig:"ODIN_REDIS_URL"`
	Prefix string `envconfig:"ODIN_REDIS_PREFIX" default:"odin"`
}

func (c *Config) validate() error {
	c.KV.Backend = strings.ToLower(strings.TrimSpace(c.KV.Backend))
	switch c.KV.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(c.Redis.URL) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvRedisURL, EnvKVBackend, BackendRedis)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvKVBackend, c.KV.Backend)
	}
	if c.App.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvShutdownTimeout)
	}
	return nil
}
