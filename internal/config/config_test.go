package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/helpdesk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ai-helpdesk", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 15, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, 300, cfg.Classifier.MaxOutputTokens)
	assert.InDelta(t, 0.7, cfg.Classifier.Temperature, 0.001)
	assert.Equal(t, 587, cfg.Notification.SMTPPort)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/helpdesk")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window())
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "s3cret", cfg.Auth.AdminJWTSecret)
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/helpdesk")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.RateLimit.Limit)
}
