package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, 5000, v.GetInt("server.port"))
	assert.Equal(t, "fieldhq.db", v.GetString("database.path"))
	assert.Equal(t, "24h", v.GetString("auth.token_expiry"))
	assert.Equal(t, 10, v.GetInt("upload.max_size_mb"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fieldhq.toml")
	content := `
[server]
port = 8080

[database]
path = "/tmp/test.db"

[upload]
max_size_mb = 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Upload.MaxSizeMB)
	// Unspecified values fall back to defaults
	assert.Equal(t, "24h", cfg.Auth.TokenExpiry)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
