package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultGraphBaseURL, cfg.WhatsApp.GraphBaseURL)
	assert.Equal(t, DefaultGraphVersion, cfg.WhatsApp.GraphVersion)
	assert.Equal(t, DefaultStorageBackend, cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Ingest.StoreAttempts)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[whatsapp]
verify_token = "vt"
access_token = "at"
graph_version = "v22.0"

[storage]
backend = "s3"

[storage.s3]
endpoint = "minio.local:9000"
bucket = "wa-media"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "v22.0", cfg.WhatsApp.GraphVersion)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "wa-media", cfg.Storage.S3.Bucket)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultPGHost, cfg.Postgres.Host)
	require.NoError(t, cfg.Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	// Tokens are required and have no defaults.
	assert.Error(t, cfg.Validate())

	cfg.WhatsApp.VerifyToken = "vt"
	cfg.WhatsApp.AccessToken = "at"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Backend = "ftp"
	assert.Error(t, cfg.Validate())
}
