package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.Filter.MinTokens)
	assert.Equal(t, 80.0, cfg.Filter.MaxDays)
	assert.Equal(t, "en", cfg.Filter.Language)
	assert.Equal(t, 2, cfg.Frame.SpanBeforeDays)
	assert.Equal(t, 2, cfg.Frame.SpanAfterDays)
	assert.Equal(t, 1800, cfg.Frame.PrecisionSeconds)
	assert.Equal(t, "~/.config/memeframe", cfg.Storage.Path)
	assert.Equal(t, "memeframe.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Zero(t, cfg.Workers)
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
filter:
  min_tokens: 3
  max_days: 30.5
  language: "de"
frame:
  precision_seconds: 600
logging:
  level: "debug"
workers: 4
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 3, cfg.Filter.MinTokens)
	assert.Equal(t, 30.5, cfg.Filter.MaxDays)
	assert.Equal(t, "de", cfg.Filter.Language)
	assert.Equal(t, 600, cfg.Frame.PrecisionSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Workers)

	// Non-overridden values remain defaults
	assert.Equal(t, 2, cfg.Frame.SpanBeforeDays)
	assert.Equal(t, 2, cfg.Frame.SpanAfterDays)
	assert.Equal(t, "~/.config/memeframe", cfg.Storage.Path)
	assert.Equal(t, "memeframe.db", cfg.Storage.SQLiteFile)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load("/tmp/nonexistent_path_12345/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, 5, cfg.Filter.MinTokens)
	assert.Equal(t, "en", cfg.Filter.Language)
	assert.Equal(t, 1800, cfg.Frame.PrecisionSeconds)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Filter.MinTokens, cfg2.Filter.MinTokens)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
workers: 7
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	// Other fields remain defaults
	assert.Equal(t, 5, cfg.Filter.MinTokens)
}

func TestLoadPartialYAMLMergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	// Only override one nested field
	yamlContent := `
filter:
  language: "es"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "es", cfg.Filter.Language)
	// Other filter fields remain default
	assert.Equal(t, 5, cfg.Filter.MinTokens)
	assert.Equal(t, 80.0, cfg.Filter.MaxDays)
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/memeframe"
	cfg.Storage.SQLiteFile = "data.db"

	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/lib/memeframe", "data.db"), path)
}

func TestDatabasePathExpandsHome(t *testing.T) {
	cfg := DefaultConfig()

	path, err := cfg.DatabasePath()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "memeframe", "memeframe.db"), path)
}
