package monitor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/fsglow/pkg/config"
	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

func startTestSession(t *testing.T, root string) *Session {
	t.Helper()
	s, err := NewSession(root, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Stop)
	return s
}

// waitFor polls until cond holds or the deadline passes. Filesystem events
// arrive asynchronously, so assertions on them need a grace period.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestNewSession_RejectsMissingRoot(t *testing.T) {
	_, err := NewSession(filepath.Join(t.TempDir(), "nope"), config.DefaultConfig(), nil)
	if err != watcher.ErrRootNotExist {
		t.Errorf("expected ErrRootNotExist, got %v", err)
	}
}

func TestNewSession_RejectsFileRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewSession(file, config.DefaultConfig(), nil)
	if err != watcher.ErrNotDirectory {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestSession_InitialScanSetsBaselines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello\n")
	writeFile(t, filepath.Join(dir, "b.go"), "package b\n")

	s := startTestSession(t, dir)
	if s.Store().Len() != 2 {
		t.Errorf("expected 2 scanned files, got %d", s.Store().Len())
	}
	if s.State() != StateMonitoring {
		t.Errorf("expected monitoring state, got %v", s.State())
	}
}

func TestSession_CreateThenModifyDiffsFromInitialContent(t *testing.T) {
	dir := t.TempDir()
	s := startTestSession(t, dir)

	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, "x\n")

	if !waitFor(t, 3*time.Second, func() bool {
		_, ok := s.Ledger().LatestKind(path)
		return ok && s.Store().Len() == 1
	}) {
		t.Fatal("creation was never observed")
	}

	writeFile(t, path, "x\ny\n")

	if !waitFor(t, 3*time.Second, func() bool { return s.Store().HasDiff(path) }) {
		t.Fatal("modification never produced a diff")
	}

	for _, l := range s.Store().Diff(path) {
		if l.Kind == DiffDelete {
			t.Errorf("unexpected deletion in diff: %q", l.Text)
		}
		if l.Kind == DiffInsert && !strings.Contains(l.Text, "y") {
			t.Errorf("unexpected insertion: %q", l.Text)
		}
	}
}

func TestSession_DeleteLeavesTombstone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	writeFile(t, path, "bye\n")

	s := startTestSession(t, dir)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool {
		return s.Ledger().DeletedRecently(path, time.Now())
	}) {
		t.Fatal("deletion was never observed")
	}

	children := s.Ledger().DeletedChildren(dir, time.Now())
	if len(children) != 1 || children[0] != path {
		t.Errorf("expected one tombstone for %s, got %v", path, children)
	}
}

func TestSession_ChangeRootClearsHistory(t *testing.T) {
	dirA := t.TempDir()
	writeFile(t, filepath.Join(dirA, "a.txt"), "a\n")
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirB, "b.txt"), "b\n")

	s := startTestSession(t, dirA)
	pathA := filepath.Join(dirA, "a.txt")
	writeFile(t, pathA, "a2\n")
	waitFor(t, 3*time.Second, func() bool { return s.Store().HasDiff(pathA) })

	if err := s.ChangeRoot(dirB); err != nil {
		t.Fatal(err)
	}

	if s.Root() != dirB {
		t.Errorf("root should be %s, got %s", dirB, s.Root())
	}
	if s.Store().HasDiff(pathA) {
		t.Error("old root history should be cleared")
	}
	if s.Store().Len() != 1 {
		t.Errorf("new root should be scanned, got %d records", s.Store().Len())
	}
}

func TestSession_ChangeRootToMissingKeepsOldState(t *testing.T) {
	dir := t.TempDir()
	s := startTestSession(t, dir)

	err := s.ChangeRoot(filepath.Join(dir, "missing"))
	if err != watcher.ErrRootNotExist {
		t.Fatalf("expected ErrRootNotExist, got %v", err)
	}
	if s.Root() != dir {
		t.Errorf("failed switch should keep the old root, got %s", s.Root())
	}
	if s.State() != StateMonitoring {
		t.Errorf("failed switch should keep monitoring, got %v", s.State())
	}
}

func TestSession_SuspendAndResume(t *testing.T) {
	dir := t.TempDir()
	s := startTestSession(t, dir)

	s.Suspend()
	if s.State() != StateSuspended {
		t.Fatalf("expected suspended, got %v", s.State())
	}

	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateMonitoring {
		t.Fatalf("expected monitoring after resume, got %v", s.State())
	}

	// Events flow again after resume.
	path := filepath.Join(dir, "after.txt")
	writeFile(t, path, "hi\n")
	if !waitFor(t, 3*time.Second, func() bool {
		_, ok := s.Ledger().LatestKind(path)
		return ok
	}) {
		t.Error("no events observed after resume")
	}
}

func TestSession_StopIsTerminalAndIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := startTestSession(t, dir)

	s.Stop()
	s.Stop()
	if s.State() != StateStopped {
		t.Errorf("expected stopped, got %v", s.State())
	}
}

func TestSession_ToggleChime(t *testing.T) {
	dir := t.TempDir()
	s := startTestSession(t, dir)

	initial := s.ChimeEnabled()
	if s.ToggleChime() == initial {
		t.Error("toggle should flip the chime setting")
	}
	if s.ChimeEnabled() == initial {
		t.Error("flipped setting should persist")
	}
}

func TestSession_ChimeFiresOnBurst(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Chime.Enabled = true
	cfg.Chime.CooldownSec = 0.05

	played := make(chan struct{}, 16)
	s, err := NewSession(dir, cfg, func() { played <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	// Let the cooldown clock age past the shortened cooldown, then push
	// enough distinct creations to clear the batch threshold.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 15; i++ {
		writeFile(t, filepath.Join(dir, "f"+string(rune('a'+i))+".txt"), "x\n")
	}

	select {
	case <-played:
	case <-time.After(5 * time.Second):
		t.Error("burst of creations never chimed")
	}
}
