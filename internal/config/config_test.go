package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-search/internal/config"
)

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MOCK_DELAY", "DATABASE_URL", "REDIS_URL", "ADMIN_TOKEN", "RATE_LIMIT_PER_MINUTE", "GUARD_TTL", "SHUTDOWN_TIMEOUT"} {
		unsetEnv(t, k)
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.MockDelay)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 30*time.Second, cfg.GuardTTL)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MOCK_DELAY", "250ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.MockDelay)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "secret", cfg.AdminToken)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoad_ClampsValues(t *testing.T) {
	t.Setenv("MOCK_DELAY", "10s")
	t.Setenv("GUARD_TTL", "1s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.GuardTTL, "guard outlives two mock delays")
	assert.Equal(t, 1, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Minute, cfg.SessionIdleTimeout)
}

func TestLoad_ClampsShutdownTimeout(t *testing.T) {
	t.Setenv("MOCK_DELAY", "1500ms")
	t.Setenv("SHUTDOWN_TIMEOUT", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_ZeroDelay(t *testing.T) {
	t.Setenv("MOCK_DELAY", "0s")
	unsetEnv(t, "GUARD_TTL")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.MockDelay)
	assert.GreaterOrEqual(t, cfg.GuardTTL, time.Second)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("MOCK_DELAY", "soon")

	_, err := config.Load()
	require.Error(t, err)
}
