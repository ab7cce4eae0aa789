package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfigFile(t, `
bot:
  token: "123:abc"
  owner_id: 42
  admin_ids: [7, 8]
database:
  driver: sqlite
  path: appeals.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, int64(42), cfg.Bot.OwnerID)
	assert.Equal(t, []int64{7, 8}, cfg.Bot.AdminIDs)
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	// Defaults fill in what the file omits.
	assert.Equal(t, "8443", cfg.Bot.Webhook.ListenPort)
	assert.Equal(t, "logs", cfg.Logger.Directory)
	assert.Equal(t, "INFO", cfg.Logger.Level)
	assert.Equal(t, 10, cfg.Logger.Rotation.MaxSize)
}

func TestLoadAdminIDsOnly(t *testing.T) {
	path := writeConfigFile(t, `
bot:
  token: "123:abc"
  admin_ids: [7]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Bot.OwnerID)
}

func TestLoadMissingToken(t *testing.T) {
	path := writeConfigFile(t, `
bot:
  owner_id: 42
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestLoadNoAdministrators(t *testing.T) {
	path := writeConfigFile(t, `
bot:
  token: "123:abc"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "administrator")
}

func TestLoadUnsupportedDriver(t *testing.T) {
	path := writeConfigFile(t, `
bot:
  token: "123:abc"
  owner_id: 42
database:
  driver: mongodb
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
