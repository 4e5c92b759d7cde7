package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, "https://api.cohere.ai/v1/generate", cfg.Generation.Endpoint)
	assert.Equal(t, "2022-12-06", cfg.Generation.APIVersion)
	assert.Equal(t, 2048, cfg.Generation.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, StoreMemory, cfg.Workspace.Store)
	assert.Equal(t, 2*time.Minute, cfg.GenerationTimeout())
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[app]
port = 9090

[generation]
model = "command-light"

[workspace]
store = "redis"
ttl_minutes = 30
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7070")
	t.Setenv("COHERE_API_KEY", "server-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "command-light", cfg.Generation.Model)
	assert.Equal(t, StoreRedis, cfg.Workspace.Store)
	assert.Equal(t, 30*time.Minute, cfg.WorkspaceTTL())
	assert.Equal(t, "server-key", cfg.Generation.APIKey)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("WORKSPACE_STORE", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	assert.Equal(t, 3, getEnvAsInt("REDIS_DB", 3))
}

func TestLoadRejectsDefaultSecretOutsideDev(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session secret")

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SESSION_SECRET", DefaultSessionSecret)
	_, err = Load()
	assert.NoError(t, err)
}
