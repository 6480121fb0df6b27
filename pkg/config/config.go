// Package config handles loading and saving grn configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/grn/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/regulomics/grnscope/pkg/model"
)

// LimitsConfig caps the size of a render before a confirmation is required.
type LimitsConfig struct {
	MaxNodes int `yaml:"max_nodes,omitempty"`
	MaxEdges int `yaml:"max_edges,omitempty"`
}

// SliderConfig controls the confidence-threshold slider.
type SliderConfig struct {
	Minimum    float64 `yaml:"minimum,omitempty"`     // lower bound of the slider range
	Step       float64 `yaml:"step,omitempty"`        // per-keypress increment
	DebounceMS int     `yaml:"debounce_ms,omitempty"` // quiescence window before re-evaluating
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme string `yaml:"theme,omitempty"` // "dark" (default) or "light"
}

// Config is the top-level configuration for grn.
type Config struct {
	DataPath   string            `yaml:"data_path,omitempty"` // default edge file location
	Limits     LimitsConfig      `yaml:"limits,omitempty"`
	Slider     SliderConfig      `yaml:"slider,omitempty"`
	UI         UIConfig          `yaml:"ui,omitempty"`
	SpecialTFs []model.SpecialTF `yaml:"special_tfs,omitempty"` // edge-less TFs shown disabled
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Limits: LimitsConfig{MaxNodes: 250, MaxEdges: 800},
		Slider: SliderConfig{Minimum: 0.14, Step: 0.01, DebounceMS: 300},
		UI:     UIConfig{Theme: "dark"},
	}
}

// Debounce returns the slider quiescence window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Slider.DebounceMS) * time.Millisecond
}

// ConfigDir returns the XDG config directory for grn.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "grn")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "grn")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing file is not an error;
// fields absent from the file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to the XDG config path, creating directories.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// normalize pulls zero or nonsensical values back to the defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Limits.MaxNodes <= 0 {
		c.Limits.MaxNodes = def.Limits.MaxNodes
	}
	if c.Limits.MaxEdges <= 0 {
		c.Limits.MaxEdges = def.Limits.MaxEdges
	}
	if c.Slider.Minimum < 0 || c.Slider.Minimum >= 1 {
		c.Slider.Minimum = def.Slider.Minimum
	}
	if c.Slider.Step <= 0 {
		c.Slider.Step = def.Slider.Step
	}
	if c.Slider.DebounceMS <= 0 {
		c.Slider.DebounceMS = def.Slider.DebounceMS
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		c.UI.Theme = def.UI.Theme
	}
}
