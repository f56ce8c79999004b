// Package monitor implements the change-tracking core of fsglow: per-path
// event and content history, recency classification, chime batching, and the
// session state machine that ties them to a directory watcher.
package monitor

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vanderheijden86/fsglow/pkg/config"
	"github.com/vanderheijden86/fsglow/pkg/debug"
	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

// State is the session lifecycle phase.
type State int

const (
	StateScanning State = iota
	StateMonitoring
	StateSuspended
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateMonitoring:
		return "monitoring"
	case StateSuspended:
		return "suspended"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Session owns all per-path state for one monitored directory. It consumes
// watcher events on a background goroutine; the UI reads the ledger and
// store concurrently through their own locks. Torn down and rebuilt wholesale
// on directory switch, never garbage-collected piecemeal.
type Session struct {
	mu    sync.Mutex
	root  string
	cfg   config.Config
	state State

	ledger *EventLedger
	store  *ContentStore
	gate   *ChimeGate

	w         *watcher.Watcher
	applyDone chan struct{}

	// chimeOn is atomic: the apply goroutine reads it while Suspend holds
	// the session lock waiting for that same goroutine to drain.
	chimeOn atomic.Bool
	play    func() // fire-and-forget playback, already rate-limited by the gate
}

// NewSession creates a session for the given root. The root must exist; a
// missing root is the one configuration error that propagates rather than
// degrading. play may be nil when audio is unavailable.
func NewSession(root string, cfg config.Config, play func()) (*Session, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, watcher.ErrRootNotExist
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, watcher.ErrNotDirectory
	}

	s := &Session{
		root:   abs,
		cfg:    cfg,
		state:  StateScanning,
		ledger: NewEventLedger(),
		store:  NewContentStore(),
		gate:   NewChimeGate(cfg.Chime.BatchSize, cfg.Chime.Cooldown(), cfg.Chime.IsolatedWindow()),
		play:   play,
	}
	s.chimeOn.Store(cfg.Chime.Enabled)
	return s, nil
}

// Start performs the initial content scan and begins monitoring.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateScanning
	s.scanLocked()
	return s.startWatcherLocked()
}

// scanLocked snapshots every trackable file under the root so later diffs
// have a baseline. Unreadable entries are skipped.
func (s *Session) scanLocked() {
	defer debug.LogEnterExit("session.scan")()

	count := 0
	_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsTrackable(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		s.store.Seen(path, string(data))
		count++
		return nil
	})
	debug.Log("session: scanned %d trackable files under %s", count, s.root)
}

// startWatcherLocked creates and starts the watcher and the apply goroutine.
func (s *Session) startWatcherLocked() error {
	w, err := watcher.New(s.root)
	if err != nil {
		return err
	}
	events, err := w.Start()
	if err != nil {
		return err
	}

	s.w = w
	s.applyDone = make(chan struct{})
	s.state = StateMonitoring

	go s.applyLoop(events, s.applyDone)
	return nil
}

// applyLoop drains watcher events into the ledger and store. Delivery order
// is preserved per path because a single goroutine applies all mutations.
func (s *Session) applyLoop(events <-chan watcher.Event, done chan struct{}) {
	defer close(done)
	for ev := range events {
		s.apply(ev)
	}
}

func (s *Session) apply(ev watcher.Event) {
	s.ledger.Record(ev.Path, ev.Op, ev.Time)

	if ev.Op == watcher.OpCreated || ev.Op == watcher.OpModified {
		if info, err := os.Stat(ev.Path); err == nil && !info.IsDir() {
			s.store.Update(ev.Path)
		}
	}

	if s.gate.Observe(ev.Time) && s.ChimeEnabled() && s.play != nil {
		s.play()
	}
}

// Suspend tears down the watcher and parks the session so the user can run
// menu actions. In-memory state stays intact.
func (s *Session) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateMonitoring {
		return
	}
	s.stopWatcherLocked()
	s.state = StateSuspended
}

// Resume restarts monitoring after a suspend. History is kept; files changed
// while suspended simply surface on the next events.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuspended {
		return nil
	}
	return s.startWatcherLocked()
}

// ChangeRoot switches the monitored directory: tears down the watcher,
// clears all per-path state, rescans the new root, and restarts. The old
// state survives only if the new root fails validation.
func (s *Session) ChangeRoot(newRoot string) error {
	abs, err := filepath.Abs(newRoot)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return watcher.ErrRootNotExist
		}
		return err
	}
	if !info.IsDir() {
		return watcher.ErrNotDirectory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopWatcherLocked()

	s.ledger.Clear()
	s.store.Clear()
	s.gate.Reset(time.Now())
	s.root = abs

	s.state = StateScanning
	s.scanLocked()
	return s.startWatcherLocked()
}

// Stop is terminal: the watcher is torn down and no further events are
// accepted. In-flight chime playback is left to finish on its own.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return
	}
	s.stopWatcherLocked()
	s.state = StateStopped
}

// stopWatcherLocked stops the watcher and waits for the apply goroutine to
// drain the closed event channel.
func (s *Session) stopWatcherLocked() {
	if s.w == nil {
		return
	}
	s.w.Stop()
	select {
	case <-s.applyDone:
	case <-time.After(watcher.DefaultStopTimeout):
		debug.Log("session: apply loop did not drain in time")
	}
	s.w = nil
	s.applyDone = nil
}

// Root returns the monitored directory.
func (s *Session) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// RootExists reports whether the monitored directory is still present.
// Checked periodically; a vanished root degrades the display but does not
// stop the watcher.
func (s *Session) RootExists() bool {
	info, err := os.Stat(s.Root())
	return err == nil && info.IsDir()
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ledger exposes the event ledger for rendering.
func (s *Session) Ledger() *EventLedger {
	return s.ledger
}

// Store exposes the content store for rendering and diff views.
func (s *Session) Store() *ContentStore {
	return s.store
}

// ChimeEnabled reports whether audio notification is on.
func (s *Session) ChimeEnabled() bool {
	return s.chimeOn.Load()
}

// ToggleChime flips audio notification and returns the new value.
func (s *Session) ToggleChime() bool {
	next := !s.chimeOn.Load()
	s.chimeOn.Store(next)
	return next
}
