package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "phone", cfg.Sync.IdentityField)
	assert.Equal(t, 30, cfg.Sync.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "lead-snapshots", cfg.Storage.Bucket)
	assert.Equal(t, "lead-sync", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.Enabled())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_IDENTITY_FIELD", "email")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "email", cfg.Sync.IdentityField)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SYNC_TIMEOUT_SECONDS=5\nSERVER_WEBHOOK_SECRET=s3cret\n"), 0o600)
	require.NoError(t, err)

	// godotenv writes straight into the process env; register cleanup.
	t.Setenv("SYNC_TIMEOUT_SECONDS", "")
	t.Setenv("SERVER_WEBHOOK_SECRET", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sync.TimeoutSeconds)
	assert.Equal(t, "s3cret", cfg.Server.WebhookSecret)
}
