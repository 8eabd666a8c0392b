// Package config loads podkeep's TOML configuration. Every setting has
// a built-in default, so podkeep runs without any configuration file at
// all; command-line flags and PODKEEP_* variables override whatever the
// file says.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries the operator-tunable settings.
type Config struct {
	// Database is the SQLite file holding the catalog.
	Database string `toml:"database"`
	// OPMLTitle heads OPML exports.
	OPMLTitle string `toml:"opml_title"`
	// DefaultCategory is applied to podcasts created without one.
	DefaultCategory string `toml:"default_category"`
	// DefaultLanguage is applied to podcasts created without one.
	DefaultLanguage string `toml:"default_language"`
	// Import tunes feed imports.
	Import Import `toml:"import"`
}

// Import holds the knobs for fetching remote feeds.
type Import struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
	MaxRetries     int    `toml:"max_retries"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:        defaultDatabasePath(),
		OPMLTitle:       "Podcast Subscriptions",
		DefaultCategory: "Technology",
		DefaultLanguage: "en",
		Import: Import{
			TimeoutSeconds: 30,
			UserAgent:      "podkeep/1.0",
			MaxRetries:     3,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing
// file is not an error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if cfg.Import.MaxRetries < 0 {
		return Config{}, fmt.Errorf("config file %s: import.max_retries must not be negative", path)
	}

	return cfg, nil
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "podkeep", "config.toml")
	}
	return "config.toml"
}

// ImportTimeout returns the import HTTP timeout as a duration.
func (c Config) ImportTimeout() time.Duration {
	return time.Duration(c.Import.TimeoutSeconds) * time.Second
}

func defaultDatabasePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".podkeep", "podkeep.db")
	}
	return "podkeep.db"
}
