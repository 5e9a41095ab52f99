package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig([]string{"--http", ":9090", "--summary", "a.yaml", "b.yaml"})
	require.NoError(t, err)
	assert.False(t, cfg.DatabaseMode)
	assert.True(t, cfg.HTTPMode)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Summary)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.SpecFiles)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDatabaseMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/specs")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.True(t, cfg.DatabaseMode)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigHTTPWithoutAddr(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := LoadConfig([]string{"--http"})
	assert.Error(t, err)
}

func TestValidateRequiresSpecsInFileMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
