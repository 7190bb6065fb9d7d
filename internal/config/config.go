package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
)

// Config holds all environment-driven settings.
type Config struct {
	Port string `env:"PORT,default=8080"`

	// MockDelay is the artificial latency of each mock hotel/flight call.
	MockDelay time.Duration `env:"MOCK_DELAY,default=1500ms"`

	// Optional backing services. Empty disables the feature.
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`
	AdminToken    string `env:"ADMIN_TOKEN"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE,default=60"`
	GuardTTL           time.Duration `env:"GUARD_TTL,default=30s"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT,default=30m"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=30s"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// validate rejects unusable values and clamps the rest into safe ranges.
func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT must not be empty")
	}

	if cfg.MockDelay < 0 {
		cfg.MockDelay = 0
	}
	if cfg.MockDelay > 30*time.Second {
		cfg.MockDelay = 30 * time.Second
	}

	if cfg.RateLimitPerMinute < 1 {
		cfg.RateLimitPerMinute = 1
	}

	// The guard must outlive a normal search or a second submit could slip in.
	if cfg.GuardTTL < 2*cfg.MockDelay {
		cfg.GuardTTL = 2 * cfg.MockDelay
	}
	if cfg.GuardTTL < time.Second {
		cfg.GuardTTL = time.Second
	}

	// Shutdown must leave in-flight searches time to finish.
	if cfg.ShutdownTimeout < 2*cfg.MockDelay {
		cfg.ShutdownTimeout = 2 * cfg.MockDelay
	}
	if cfg.ShutdownTimeout < time.Second {
		cfg.ShutdownTimeout = time.Second
	}

	if cfg.SessionIdleTimeout < time.Minute {
		cfg.SessionIdleTimeout = time.Minute
	}

	return nil
}
