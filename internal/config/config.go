// Package config loads runtime settings: defaults, then an optional YAML
// file, then COPYDESK_* environment overrides, each layer winning over the
// previous one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	DBPath string `yaml:"db_path"`

	Autosave AutosaveConfig `yaml:"autosave"`

	// LogPath receives structured service logs; empty disables them.
	LogPath string `yaml:"log_path"`
}

// AutosaveConfig tunes the review autosave loop. The debounce window is a
// tuning parameter, not a correctness property.
type AutosaveConfig struct {
	DebounceMs     int `yaml:"debounce_ms"`
	SavedDisplayMs int `yaml:"saved_display_ms"`
	MaxRetries     int `yaml:"max_retries"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		DBPath: defaultDBPath(),
		Autosave: AutosaveConfig{
			DebounceMs:     3000,
			SavedDisplayMs: 2000,
			MaxRetries:     2,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "copydesk.db"
	}
	return home + "/.copydesk/copydesk.db"
}

// Load builds the effective configuration. path may be empty; a missing
// file at an explicit path is an error, a missing default file is not.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Autosave.DebounceMs <= 0 || cfg.Autosave.SavedDisplayMs <= 0 {
		return Config{}, fmt.Errorf("autosave intervals must be positive")
	}
	if cfg.Autosave.MaxRetries < 0 {
		return Config{}, fmt.Errorf("autosave.max_retries must not be negative")
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "copydesk.yaml"
	}
	return home + "/.copydesk/config.yaml"
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COPYDESK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COPYDESK_LOG"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("COPYDESK_AUTOSAVE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Autosave.DebounceMs = n
		}
	}
	if v := os.Getenv("COPYDESK_AUTOSAVE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Autosave.MaxRetries = n
		}
	}
}

// Debounce returns the autosave debounce window as a duration.
func (a AutosaveConfig) Debounce() time.Duration {
	return time.Duration(a.DebounceMs) * time.Millisecond
}

// SavedDisplay returns how long the saved indicator stays up.
func (a AutosaveConfig) SavedDisplay() time.Duration {
	return time.Duration(a.SavedDisplayMs) * time.Millisecond
}
