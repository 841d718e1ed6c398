// Package config loads runtime configuration from DDT_-prefixed
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration.
type Config struct {
	Env      string `env:"DDT_ENV" envDefault:"development"`
	LogLevel string `env:"DDT_LOG_LEVEL" envDefault:"info"`

	DBPath string `env:"DDT_DB_PATH" envDefault:"dbtranslate.db"`

	ServerHost string `env:"DDT_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"DDT_SERVER_PORT" envDefault:"8080"`

	DefaultLocale string `env:"DDT_DEFAULT_LOCALE" envDefault:"en-US"`
	DoSeed        bool   `env:"DDT_DO_SEED" envDefault:"false"`

	RedisURL string        `env:"DDT_REDIS_URL"`
	CacheTTL time.Duration `env:"DDT_CACHE_TTL" envDefault:"5m"`

	RateLimitRPS   float64 `env:"DDT_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"DDT_RATE_LIMIT_BURST" envDefault:"40"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the host:port the HTTP server binds to.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache reports whether a Redis URL is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SlogLevel maps the configured log level to a slog.Level, defaulting to
// info on unknown values.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
