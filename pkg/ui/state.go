package ui

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/fsglow/pkg/config"
	"github.com/vanderheijden86/fsglow/pkg/debug"
)

// Prefs is the small set of UI choices remembered across sessions.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "chime_enabled": true,
//	  "last_root": "/home/user/project"
//	}
//
// A missing or corrupted file means first run: defaults are used silently.
type Prefs struct {
	Version      int    `json:"version"`
	ChimeEnabled bool   `json:"chime_enabled"`
	LastRoot     string `json:"last_root"`
}

// PrefsVersion is the current schema version.
const PrefsVersion = 1

const prefsFileName = "prefs.json"

// DefaultPrefs returns first-run preferences.
func DefaultPrefs() Prefs {
	return Prefs{Version: PrefsVersion, ChimeEnabled: true}
}

// PrefsPath returns the preference file location under the XDG state dir,
// or "" when no home directory can be determined.
func PrefsPath() string {
	dir := config.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, prefsFileName)
}

// LoadPrefs reads the saved preferences. Any failure, including a corrupt
// file, yields defaults; preferences are never worth failing startup over.
func LoadPrefs() Prefs {
	path := PrefsPath()
	if path == "" {
		return DefaultPrefs()
	}
	return loadPrefsFrom(path)
}

func loadPrefsFrom(path string) Prefs {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPrefs()
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		debug.Log("prefs: invalid file %s, using defaults: %v", path, err)
		return DefaultPrefs()
	}
	if p.Version != PrefsVersion {
		debug.Log("prefs: unknown schema version %d, using defaults", p.Version)
		return DefaultPrefs()
	}
	return p
}

// SavePrefs writes the preferences. Errors are logged, never surfaced: a
// failed save costs one session of memory, nothing more.
func SavePrefs(p Prefs) {
	path := PrefsPath()
	if path == "" {
		debug.Log("prefs: no state dir")
		return
	}
	savePrefsTo(path, p)
}

func savePrefsTo(path string, p Prefs) {
	p.Version = PrefsVersion
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		debug.Log("prefs: marshal failed: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		debug.Log("prefs: cannot create state dir: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		debug.Log("prefs: write failed: %v", err)
	}
}
