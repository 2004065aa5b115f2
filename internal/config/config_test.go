package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("POLYGON_API_KEY")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1, cfg.Verbosity)
	assert.Equal(t, "synthetic", cfg.Data.Provider)
	assert.Equal(t, 100.0, cfg.Defaults.CurrentPrice)
	assert.Equal(t, 100, cfg.Defaults.Steps)

	require.NoError(t, cfg.Defaults.Request().Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
verbosity: 2
report_dir: /tmp/reports
data:
  provider: csv
  dir: ./bars
defaults:
  current_price: 150
  strike: 140
  time_to_maturity: 0.5
  volatility: 0.3
  interest_rate: 0.04
  steps: 200
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, "/tmp/reports", cfg.ReportDir)
	assert.Equal(t, "csv", cfg.Data.Provider)
	assert.Equal(t, "./bars", cfg.Data.Dir)
	assert.Equal(t, 150.0, cfg.Defaults.CurrentPrice)
	assert.Equal(t, 200, cfg.Defaults.Steps)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("POLYGON_API_KEY", "test-key")
	t.Setenv("VERBOSITY", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "test-key", cfg.PolygonAPIKey)
	assert.Equal(t, 3, cfg.Verbosity)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "synthetic", cfg.Data.Provider)
}
