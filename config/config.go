// Package config persists the sensor selection and runtime tunables as JSON
// under the user config directory, with OLEDTOP_* environment overrides for
// the knobs that matter in scripts.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds user-configurable defaults and integrations.
type Config struct {
	IntervalSec int               `json:"interval_sec"`
	Sensors     map[string]uint32 `json:"sensors"`
	Smoothing   SmoothingConfig   `json:"smoothing"`
	Prometheus  PrometheusConfig  `json:"prometheus"`
	GameSense   GameSenseConfig   `json:"gamesense"`
}

// SmoothingConfig mirrors engine.SmoothingConfig for persistence.
type SmoothingConfig struct {
	WindowSize    int `json:"window_size"`
	DropThreshold int `json:"drop_threshold"`
}

type PrometheusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// GameSenseConfig optionally pins the display endpoint instead of relying on
// coreProps.json discovery.
type GameSenseConfig struct {
	Addr string `json:"addr,omitempty"`
}

// envOverrides are applied on top of the file when set.
type envOverrides struct {
	IntervalSec   int `envconfig:"INTERVAL_SEC"`
	WindowSize    int `envconfig:"SMOOTH_WINDOW"`
	DropThreshold int `envconfig:"SMOOTH_DROP"`
}

// Default returns a config with sensible defaults and no sensors selected.
func Default() Config {
	return Config{
		IntervalSec: 3,
		Sensors:     map[string]uint32{},
		Smoothing:   SmoothingConfig{WindowSize: 5, DropThreshold: 3},
		Prometheus: PrometheusConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9287",
		},
	}
}

// Path returns ~/.config/oledtop/config.json (or XDG_CONFIG_HOME).
// Returns empty string if home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "oledtop", "config.json")
}

// Load reads the config at path (Path() when empty) and applies environment
// overrides; returns defaults on a missing or unparsable file.
func Load(path string) Config {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(data, &cfg); err != nil {
				log.Printf("oledtop: warning: config parse error: %v", err)
			}
		}
	}
	if cfg.Sensors == nil {
		cfg.Sensors = map[string]uint32{}
	}

	var env envOverrides
	if err := envconfig.Process("oledtop", &env); err == nil {
		if env.IntervalSec > 0 {
			cfg.IntervalSec = env.IntervalSec
		}
		if env.WindowSize > 0 {
			cfg.Smoothing.WindowSize = env.WindowSize
		}
		if env.DropThreshold > 0 {
			cfg.Smoothing.DropThreshold = env.DropThreshold
		}
	}
	return cfg
}

// Save writes the config to path (Path() when empty).
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Selected reports whether any sensor slot has been chosen yet; a fully
// empty selection sends first-run users into the wizard.
func (c Config) Selected() bool {
	for _, id := range c.Sensors {
		if id != 0 {
			return true
		}
	}
	return false
}
