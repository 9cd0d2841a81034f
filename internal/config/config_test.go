package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("STORAGE_MAX_UPLOAD_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 6*time.Hour, cfg.Reminder.Interval)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REMINDER_INTERVAL", "15m")
	t.Setenv("NOTIFY_REMINDER_RECIPIENTS", "ops@example.com, , fleet@example.com")
	t.Setenv("CACHE_STATS_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Reminder.Interval)
	assert.Equal(t, []string{"ops@example.com", "fleet@example.com"}, cfg.SMTP.ReminderRecipients)
	assert.Equal(t, time.Minute, cfg.Cache.StatsTTL)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}
