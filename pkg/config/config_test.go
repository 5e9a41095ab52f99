package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("spec.yaml")
	require.NoError(t, err)
	assert.Equal(t, "spec.yaml", cfg.SpecPath)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.NotNil(t, cfg.Headers)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "base_url: https://api.example.com\ntimeout_seconds: 10\nheaders:\n  X-Custom: abc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 10, cfg.TimeoutSeconds)

	v, ok := cfg.GetHeader("X-Custom")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("{not yaml"), 0o644))
	chdir(t, dir)

	_, err := Load("")
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("base_url: https://from-file\n"), 0o644))
	chdir(t, dir)
	t.Setenv("BASE_URL", "https://from-env")
	t.Setenv("TIMEOUT_SECONDS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.BaseURL)
	assert.Equal(t, 7, cfg.TimeoutSeconds)
}

func TestInvalidTimeoutKeepsDefault(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TIMEOUT_SECONDS", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
}

func TestLegacyHeadersEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENAPI_MCP_HEADERS", `{"Authorization":"Bearer abc"}`)

	cfg, err := Load("")
	require.NoError(t, err)
	v, ok := cfg.GetHeader("Authorization")
	assert.True(t, ok)
	assert.Equal(t, "Bearer abc", v)
}
