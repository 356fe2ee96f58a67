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
	path := filepath.Join(t.TempDir(), "configuration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// clearEnv unsets every override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "STORAGE_TYPE", "LOCAL_STORAGE_PATH", "DATA_SOURCE_NAME",
		"BOLT_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "S3_BUCKET_NAME", "S3_REGION",
		"LOG_LEVEL", "LOG_FORMAT", "CONTENT_MAX_GRAPHEMES",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "127.0.0.1:8000", cfg.Address())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
application:
  host: 0.0.0.0
  port: 9000
  content_max_graphemes: 256
storage:
  type: sqlite
  data_source_name: /tmp/x.db
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
	assert.Equal(t, 256, cfg.Application.ContentMaxGraphemes)
	assert.Equal(t, int64(256*1024), cfg.Application.MaxBodyBytes, "unset keys keep defaults")
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.DataSourceName)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "storage:\n  type: sqlite\n")
	t.Setenv("STORAGE_TYPE", "filesystem")
	t.Setenv("LOCAL_STORAGE_PATH", "/srv/pastes")
	t.Setenv("APP_PORT", "3002")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageFilesystem, cfg.Storage.Type)
	assert.Equal(t, "/srv/pastes", cfg.Storage.LocalStoragePath)
	assert.Equal(t, 3002, cfg.Application.Port)
}

func TestEmptyStorageTypeMeansMemory(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_TYPE", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)

	cfg, err = Load(writeConfig(t, "storage:\n  type: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "malformed yaml", body: "application: [\n"},
		{name: "unknown storage", body: "storage:\n  type: tape\n"},
		{name: "s3 without bucket", body: "storage:\n  type: s3\n"},
		{name: "bad port", body: "application:\n  port: 70000\n"},
		{name: "negative cap", body: "application:\n  content_max_graphemes: -1\n"},
		{name: "bad log format", body: "logging:\n  format: xml\n"},
		{name: "non numeric env", env: map[string]string{"APP_PORT": "eighty"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}
