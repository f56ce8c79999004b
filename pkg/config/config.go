// Package config handles loading and saving fsglow configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/fsglow/config.yaml
//   - State:   ~/.local/state/fsglow/ (UI preferences cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ChimeConfig controls the audio notification batching policy.
// The batch size and windows are empirically chosen defaults carried over
// from long use; they are knobs, not invariants.
type ChimeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Sound   string `yaml:"sound,omitempty"` // Path to the sound file; auto-resolved if empty

	BatchSize     int     `yaml:"batch_size,omitempty"`     // Fire once per this many events in a burst (default 10)
	CooldownSec   float64 `yaml:"cooldown_sec,omitempty"`   // Minimum seconds between chimes (default 1.0)
	IsolatedSec   float64 `yaml:"isolated_sec,omitempty"`   // Quiet period after which a lone event chimes (default 3.0)
	MaxConcurrent int     `yaml:"max_concurrent,omitempty"` // Playback processes allowed at once (default 2)
}

// UIConfig holds display preference settings.
type UIConfig struct {
	TickMS     int `yaml:"tick_ms,omitempty"`     // Render tick period in milliseconds (default 500)
	MaxDepth   int `yaml:"max_depth,omitempty"`   // Tree traversal depth bound (default 10)
	ScrollStep int `yaml:"scroll_step,omitempty"` // Rows moved per scroll keypress (default 5)
}

// Config is the top-level configuration for fsglow.
type Config struct {
	Root  string      `yaml:"root,omitempty"` // Default directory to monitor
	Chime ChimeConfig `yaml:"chime,omitempty"`
	UI    UIConfig    `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Chime: ChimeConfig{
			Enabled:       false,
			BatchSize:     10,
			CooldownSec:   1.0,
			IsolatedSec:   3.0,
			MaxConcurrent: 2,
		},
		UI: UIConfig{
			TickMS:     500,
			MaxDepth:   10,
			ScrollStep: 5,
		},
	}
}

// TickInterval returns the render tick period as a duration.
func (c Config) TickInterval() time.Duration {
	if c.UI.TickMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.UI.TickMS) * time.Millisecond
}

// Cooldown returns the chime cooldown as a duration.
func (c ChimeConfig) Cooldown() time.Duration {
	if c.CooldownSec <= 0 {
		return time.Second
	}
	return time.Duration(c.CooldownSec * float64(time.Second))
}

// IsolatedWindow returns the isolated-change window as a duration.
func (c ChimeConfig) IsolatedWindow() time.Duration {
	if c.IsolatedSec <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.IsolatedSec * float64(time.Second))
}

// ConfigDir returns the XDG config directory for fsglow.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fsglow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fsglow")
}

// StateDir returns the XDG state directory for fsglow.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fsglow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "fsglow")
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

	cfg.Root = ExpandHome(cfg.Root)
	cfg.Chime.Sound = ExpandHome(cfg.Chime.Sound)

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

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
