package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("GOALFUND_PLAN", "")
	t.Setenv("GOALFUND_CURRENCY", "")
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)
	assert.False(t, Exists())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.InDelta(t, 8.0, cfg.Defaults.InflationPct, 1e-9)
	assert.Equal(t, "INR", cfg.Display.Currency)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.General.PlanFile = "/tmp/goals.yaml"
	cfg.Defaults.NewROIPct = 12
	cfg.Display.Currency = "USD"
	cfg.Display.IndianGrouping = false
	cfg.Server.Addr = "127.0.0.1:9999"
	require.NoError(t, Save(cfg))

	assert.True(t, Exists())
	assert.FileExists(t, filepath.Join(dir, "goalfund", "config.toml"))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "goalfund"), 0o750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[display]\ncurrency = \"EUR\"\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Display.Currency)
	assert.Equal(t, "127.0.0.1:8788", cfg.Server.Addr)
	assert.InDelta(t, 10.0, cfg.Defaults.NewROIPct, 1e-9)
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "goalfund"), 0o750))
	require.NoError(t, os.WriteFile(ConfigPath(), []byte("[display\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GOALFUND_PLAN", "/srv/plan.json")
	t.Setenv("GOALFUND_CURRENCY", "usd")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/plan.json", PlanPath(cfg))
	assert.Equal(t, "USD", cfg.Display.Currency)
}

func TestPaths(t *testing.T) {
	dir := isolate(t)
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join(dir, "data", "goalfund", "plan.json"), PlanPath(cfg))
	assert.Equal(t, filepath.Join(dir, "data", "goalfund", "snapshots.db"), SnapshotDBPath(cfg))

	cfg.General.DataDir = "/var/lib/goalfund"
	assert.Equal(t, "/var/lib/goalfund/snapshots.db", SnapshotDBPath(cfg))
	assert.Equal(t, "/var/lib/goalfund/plan.json", PlanPath(cfg))
}

func TestModelDefaults(t *testing.T) {
	d := DefaultConfig().ModelDefaults()
	assert.InDelta(t, 8.0, d.InflationPct, 1e-9)
	assert.InDelta(t, 10.0, d.NewROIPct, 1e-9)
	assert.InDelta(t, 8.0, d.SourceROI, 1e-9)
}
