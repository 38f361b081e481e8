package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "maintenance.db", cfg.Database.DSN)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 60*time.Second, cfg.Reminders.PollInterval)
	assert.Equal(t, "Maintenance reminder", cfg.Reminders.Title)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
}

func TestLoad_ReadsFileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  timezone: Europe/Berlin
database:
  driver: postgres
  dsn: host=localhost dbname=maint
reminders:
  poll_interval_seconds: 15
  title: Service due
worker_pool:
  size: 3
demo:
  seed_on_start: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Server.Timezone)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=maint", cfg.Database.DSN)
	assert.Equal(t, 15*time.Second, cfg.Reminders.PollInterval)
	assert.Equal(t, "Service due", cfg.Reminders.Title)
	assert.Equal(t, 3, cfg.WorkerPool.Size)
	assert.True(t, cfg.Demo.SeedOnStart)
}

func TestLoad_NegativeCacheTTLDisablesCache(t *testing.T) {
	path := writeConfig(t, "server:\n  cache_ttl_seconds: -1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Server.CacheTTLSeconds)

	path = writeConfig(t, "server:\n  port: 9000\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Server.CacheTTLSeconds)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  dsn: file.db\nserver:\n  port: 9000\n")
	t.Setenv("MAINT_DATABASE_DSN", "override.db")
	t.Setenv("MAINT_SERVER_PORT", "7070")
	t.Setenv("MAINT_VAPID_PUBLIC_KEY", "pub")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override.db", cfg.Database.DSN)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "pub", cfg.Push.PublicKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
