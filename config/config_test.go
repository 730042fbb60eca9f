package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "0 2 * * *", cfg.Scheduler.Spec)
	assert.Equal(t, 3, cfg.Scheduler.Retries)
	assert.Equal(t, 60, cfg.Scheduler.RetryDelaySecs)
	assert.Equal(t, 24, cfg.Auth.TokenExpireHours)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
database:
  host: db.internal
  name: registry_test
scheduler:
  spec: "30 1 * * *"
  retries: 5
smtp:
  host: mail.internal
  dry_run: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "30 1 * * *", cfg.Scheduler.Spec)
	assert.Equal(t, 5, cfg.Scheduler.Retries)
	assert.True(t, cfg.SMTP.DryRun)
	assert.Contains(t, cfg.Database.DSN(), "dbname=registry_test")
	// Unset sections still get defaults.
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
}
