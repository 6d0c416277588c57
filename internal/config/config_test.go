package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-config/core/pricing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Catalog.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, pricing.CurrencyGBP, cfg.Pricing.Currency)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bike-config.yaml")
	content := `
catalog:
  backend: sqlite
  path: /var/lib/bike-config/catalog.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("BIKECONF_SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Catalog.Backend)
	assert.Equal(t, "/var/lib/bike-config/catalog.db", cfg.Catalog.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Pricing.Currency = "usd"
	cfg.Catalog.Backend = "postgres"
	cfg.Catalog.Path = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported currency "usd"`)
	assert.Contains(t, err.Error(), `unknown catalog backend "postgres"`)
	assert.Contains(t, err.Error(), "catalog.path is required")
}
