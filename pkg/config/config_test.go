package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flowbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
port: 8088
engine:
  base_url: http://engine.local:5678/api/v1
  api_key: file-key
  timeout: 10s
tracing:
  enabled: true
  service_name: adapter
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8088, cfg.Port)
	assert.Equal(t, "http://engine.local:5678/api/v1", cfg.Engine.BaseURL)
	assert.Equal(t, "file-key", cfg.Engine.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Engine.Timeout)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "adapter", cfg.Tracing.ServiceName)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
engine:
  base_url: http://engine.local:5678/api/v1
  api_key: k
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "flowbridge", cfg.Tracing.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  base_url: http://from-file/api/v1
  api_key: file-key
`)

	t.Setenv("N8N_API_URL", "http://from-env/api/v1")
	t.Setenv("N8N_API_KEY", "env-key")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env/api/v1", cfg.Engine.BaseURL)
	assert.Equal(t, "env-key", cfg.Engine.APIKey)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_LegacyAliases(t *testing.T) {
	path := writeConfig(t, `{}`)

	t.Setenv("ACTIVEPIECES_API_URL", "http://legacy/api/v1")
	t.Setenv("ACTIVEPIECES_API_KEY", "legacy-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://legacy/api/v1", cfg.Engine.BaseURL)
	assert.Equal(t, "legacy-key", cfg.Engine.APIKey)
}

func TestLoad_PrimaryNameWinsOverAlias(t *testing.T) {
	path := writeConfig(t, `{}`)

	t.Setenv("N8N_API_URL", "http://primary/api/v1")
	t.Setenv("ACTIVEPIECES_API_URL", "http://legacy/api/v1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://primary/api/v1", cfg.Engine.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("N8N_API_URL", "http://env-only/api/v1")
	t.Setenv("N8N_API_KEY", "env-key")

	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, "http://env-only/api/v1", cfg.Engine.BaseURL)
	assert.Equal(t, 9080, cfg.Port)
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.Validate())

	cfg.Engine.BaseURL = "http://engine.local/api/v1"
	assert.Error(t, cfg.Validate())

	cfg.Engine.APIKey = "k"
	assert.NoError(t, cfg.Validate())
}
