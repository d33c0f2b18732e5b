// Package config handles loading and saving lx configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/layerlens/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSensitivity is the wheel-delta multiplier applied when the
// config file omits one (or sets it to zero).
const DefaultSensitivity = 0.15

// Config is the top-level configuration for lx.
type Config struct {
	// AtlasPath is the atlas YAML to open on startup. Empty means the
	// embedded demo atlas.
	AtlasPath string `yaml:"atlas_path,omitempty"`

	// Sensitivity scales wheel deltas into zoom progress. Zero or
	// negative values fall back to DefaultSensitivity.
	Sensitivity float64 `yaml:"sensitivity,omitempty"`

	// ReducedMotion runs layer swaps and lock releases with zero delay.
	ReducedMotion bool `yaml:"reduced_motion,omitempty"`

	// MouseEnabled controls whether the TUI requests mouse events.
	MouseEnabled bool `yaml:"mouse_enabled"`

	// Theme selects the color theme: auto, dark, or light.
	Theme string `yaml:"theme,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Sensitivity:  DefaultSensitivity,
		MouseEnabled: true,
		Theme:        "auto",
	}
}

// ConfigDir returns the XDG config directory for lx.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "layerlens")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "layerlens")
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

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = DefaultSensitivity
	}
	cfg.Theme = normalizeTheme(cfg.Theme)
	cfg.AtlasPath = expandHome(cfg.AtlasPath)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// normalizeTheme maps unknown theme names to "auto".
func normalizeTheme(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		return "auto"
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
