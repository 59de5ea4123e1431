package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.UserID)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.False(t, cfg.RespectBusyFlag)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/weekplan")
	t.Setenv("OUTBOX_POLL_INTERVAL", "2s")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")
	t.Setenv("WEEKPLAN_RESPECT_BUSY_FLAG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://localhost:5432/weekplan", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.True(t, cfg.RespectBusyFlag)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OUTBOX_POLL_INTERVAL", "not-a-duration")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")
	t.Setenv("WEEKPLAN_RESPECT_BUSY_FLAG", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.False(t, cfg.RespectBusyFlag)
}
