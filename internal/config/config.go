package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/goalfund/internal/model"
)

// Config holds all goalfund configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Defaults DefaultsConfig `toml:"defaults"`
	Display  DisplayConfig  `toml:"display"`
	Server   ServerConfig   `toml:"server"`
}

// GeneralConfig holds file locations.
type GeneralConfig struct {
	PlanFile string `toml:"plan_file,omitempty"`
	DataDir  string `toml:"data_dir,omitempty"`
}

// DefaultsConfig holds the values given to new goals and sources.
type DefaultsConfig struct {
	InflationPct float64 `toml:"inflation_pct"`
	NewROIPct    float64 `toml:"new_roi_pct"`
	SourceROIPct float64 `toml:"source_roi_pct"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	Currency       string `toml:"currency"`
	IndianGrouping bool   `toml:"indian_grouping"`
	Theme          string `toml:"theme"`
}

// ServerConfig holds settings for the local HTTP service.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	d := model.DefaultDefaults()
	return Config{
		Defaults: DefaultsConfig{
			InflationPct: d.InflationPct,
			NewROIPct:    d.NewROIPct,
			SourceROIPct: d.SourceROI,
		},
		Display: DisplayConfig{
			Currency:       "INR",
			IndianGrouping: true,
			Theme:          "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalfund")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "goalfund")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied in both cases.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GOALFUND_PLAN"); v != "" {
		cfg.General.PlanFile = v
	}
	if v := os.Getenv("GOALFUND_CURRENCY"); v != "" {
		cfg.Display.Currency = strings.ToUpper(v)
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// PlanPath resolves the plan file: the configured path, or plan.json in
// the data directory.
func PlanPath(cfg Config) string {
	if cfg.General.PlanFile != "" {
		return expandHome(cfg.General.PlanFile)
	}
	return filepath.Join(DataDir(cfg), "plan.json")
}

// DataDir returns the directory holding the plan and snapshot database.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return expandHome(cfg.General.DataDir)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalfund")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "goalfund")
}

// SnapshotDBPath returns the SQLite snapshot database path.
func SnapshotDBPath(cfg Config) string {
	return filepath.Join(DataDir(cfg), "snapshots.db")
}

// ModelDefaults converts the [defaults] section for the schema layer.
func (c Config) ModelDefaults() model.Defaults {
	return model.Defaults{
		InflationPct: c.Defaults.InflationPct,
		NewROIPct:    c.Defaults.NewROIPct,
		SourceROI:    c.Defaults.SourceROIPct,
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
