package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	// The package directory has no config/config.yml, so only defaults apply.
	// Empty variables count as unset.
	for _, key := range []string{"PORT", "DATABASE_URL", "REDIS_ADDRESS", "REDIS_RATE_LIMIT_QPS"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "file://migrations", cfg.Database.MigrationsPath)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, 10, cfg.Redis.RateLimitQPS)
	assert.Equal(t, 24*time.Hour, cfg.Store.SessionTTL)
	assert.Equal(t, time.Hour, cfg.Store.SweepInterval)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, `
port: 9090
redis:
  address: localhost:6379
  rate_limit_qps: 3
telegram:
  clinician_chat_id: 12345
store:
  session_ttl: 2h
report:
  font_paths: [/tmp/a.ttf, /tmp/b.ttf]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 3, cfg.Redis.RateLimitQPS)
	assert.Equal(t, int64(12345), cfg.Telegram.ClinicianChatID)
	assert.Equal(t, 2*time.Hour, cfg.Store.SessionTTL)
	assert.Equal(t, time.Hour, cfg.Store.SweepInterval)
	assert.Equal(t, []string{"/tmp/a.ttf", "/tmp/b.ttf"}, cfg.Report.FontPaths)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "port: 9090\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/sc?sslmode=disable")
	t.Setenv("TELEGRAM_BOT_TOKEN", "abc")
	t.Setenv("STORE_SESSION_TTL", "30m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/sc?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "abc", cfg.Telegram.BotToken)
	assert.Equal(t, 30*time.Minute, cfg.Store.SessionTTL)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port", "port: 0\n"},
		{"ttl", "store:\n  session_ttl: 0s\n"},
		{"sweep", "store:\n  sweep_interval: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}
