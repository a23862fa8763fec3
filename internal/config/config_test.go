package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "./products", cfg.Products)
	require.Equal(t, filepath.Join("./products", "yaml"), cfg.RecordsDir())
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce.Std())
	require.True(t, cfg.History.Enabled)
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
products: /tmp/dm-products
history:
  enabled: true
watch:
  interval: 30m
  metrics_addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/dm-products", cfg.Products)
	require.Equal(t, filepath.Join("/tmp/dm-products", "history.db"), cfg.History.Path)
	require.Equal(t, 30*time.Minute, cfg.Watch.Interval.Std())
	require.Equal(t, ":9090", cfg.Watch.MetricsAddr)
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce.Std())
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DM_TEST_PRODUCTS", "/data/products")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: $DM_TEST_PRODUCTS\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data/products", cfg.Products)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./products", cfg.Products)
}
