package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadDefaults(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: test-secret
admin:
  emails: ["Root@Example.com"]
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, 5005, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 720, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 300, c.Redis.TrackTTLSec)
	assert.Equal(t, "local", c.Storage.Driver)
	assert.True(t, c.IsAdminEmail("root@example.com"))
	assert.False(t, c.IsAdminEmail("user@example.com"))
}

func TestReadEnvOverride(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: test-secret
db:
  driver: mysql
`)
	t.Setenv("APP_DB_DRIVER", "postgres")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestReadRequiresSecret(t *testing.T) {
	p := writeConfig(t, "app:\n  name: x\n")
	_, err := Read(p)
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
