package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration.
type Config struct {
	// DataDir holds the database, logs and telemetry spool.
	// Empty means ~/.bobfriend.
	DataDir string `json:"data_dir,omitempty"`

	// CatalogOverlay is an optional YAML file merged over the builtin
	// catalog. Empty means <DataDir>/catalog.yaml (loaded if present).
	CatalogOverlay string `json:"catalog_overlay,omitempty"`

	Telemetry TelemetryConfig `json:"telemetry"`
	Player    PlayerConfig    `json:"player"`
}

// TelemetryConfig controls the analytics sink.
type TelemetryConfig struct {
	Enabled      bool   `json:"enabled"`
	CollectorURL string `json:"collector_url,omitempty"`
}

// PlayerConfig holds the behavioral flags handed to the embedded player.
type PlayerConfig struct {
	Autoplay        bool `json:"autoplay"`
	Inline          bool `json:"inline"`
	NoRelated       bool `json:"no_related"`
	MinimalBranding bool `json:"minimal_branding"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Telemetry: TelemetryConfig{Enabled: true},
		Player: PlayerConfig{
			Autoplay:        true,
			Inline:          true,
			NoRelated:       true,
			MinimalBranding: true,
		},
	}
}

// Path returns the path to the config file.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bobfriend", "config.json")
}

// Load reads config from disk, or returns defaults, then applies
// environment overrides (a .env file in the working directory is honored).
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err == nil {
		if uerr := json.Unmarshal(data, cfg); uerr != nil {
			cfg = DefaultConfig()
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("BOBFRIEND_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("BOBFRIEND_CATALOG"); v != "" {
		c.CatalogOverlay = v
	}
	if v := os.Getenv("BOBFRIEND_COLLECTOR_URL"); v != "" {
		c.Telemetry.CollectorURL = v
	}
	if v := os.Getenv("BOBFRIEND_TELEMETRY"); v != "" {
		c.Telemetry.Enabled = v != "0" && v != "false" && v != "off"
	}
}

// ResolveDataDir returns the effective data directory, creating it.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".bobfriend")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ResolveCatalogOverlay returns the overlay path to try, given the
// effective data directory. The file does not have to exist.
func (c *Config) ResolveCatalogOverlay(dataDir string) string {
	if c.CatalogOverlay != "" {
		return c.CatalogOverlay
	}
	return filepath.Join(dataDir, "catalog.yaml")
}
