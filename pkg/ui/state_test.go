package ui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrefs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	savePrefsTo(path, Prefs{ChimeEnabled: true, LastRoot: "/home/me/project"})
	got := loadPrefsFrom(path)

	if !got.ChimeEnabled || got.LastRoot != "/home/me/project" {
		t.Errorf("prefs did not round-trip: %+v", got)
	}
	if got.Version != PrefsVersion {
		t.Errorf("saved version should be current, got %d", got.Version)
	}
}

func TestPrefs_MissingFileYieldsDefaults(t *testing.T) {
	got := loadPrefsFrom(filepath.Join(t.TempDir(), "absent.json"))
	if got != DefaultPrefs() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestPrefs_CorruptFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := loadPrefsFrom(path); got != DefaultPrefs() {
		t.Errorf("corrupt file should yield defaults, got %+v", got)
	}
}

func TestPrefs_UnknownVersionYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "chime_enabled": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := loadPrefsFrom(path); got != DefaultPrefs() {
		t.Errorf("unknown schema should yield defaults, got %+v", got)
	}
}

func TestPrefs_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.json")
	savePrefsTo(path, Prefs{LastRoot: "/x"})
	if got := loadPrefsFrom(path); got.LastRoot != "/x" {
		t.Errorf("save into a missing directory failed: %+v", got)
	}
}

func TestPrefsPath_UsesStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := PrefsPath()
	if path == "" || filepath.Base(path) != "prefs.json" {
		t.Errorf("unexpected prefs path %q", path)
	}
}
