// Package watcher provides recursive directory monitoring for fsglow.
// It wraps fsnotify and emits per-path create/modify/delete events, adding
// newly created subdirectories to the watch set as they appear.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/fsglow/pkg/debug"
)

// DefaultStopTimeout bounds how long Stop waits for the event loop to drain.
const DefaultStopTimeout = 2 * time.Second

// Common errors.
var (
	ErrRootNotExist   = errors.New("watched directory does not exist")
	ErrNotDirectory   = errors.New("watched path is not a directory")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Op is the kind of filesystem change observed.
type Op int

const (
	OpCreated Op = iota
	OpModified
	OpDeleted
)

// String returns a human-readable name for the operation.
func (op Op) String() string {
	switch op {
	case OpCreated:
		return "created"
	case OpModified:
		return "modified"
	case OpDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is a single observed filesystem change.
type Event struct {
	Path string // absolute path
	Op   Op
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithStopTimeout sets the bound on how long Stop waits for the loop to exit.
func WithStopTimeout(d time.Duration) Option {
	return func(w *Watcher) {
		w.stopTimeout = d
	}
}

// WithBuffer sets the event channel buffer size.
func WithBuffer(n int) Option {
	return func(w *Watcher) {
		w.buffer = n
	}
}

// Watcher monitors a directory tree for changes.
type Watcher struct {
	root        string
	stopTimeout time.Duration
	buffer      int

	fsw     *fsnotify.Watcher
	eventCh chan Event

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	mu      sync.Mutex
}

// New creates a watcher for the given root directory.
// The root must exist and be a directory.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRootNotExist
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	w := &Watcher{
		root:        abs,
		stopTimeout: DefaultStopTimeout,
		buffer:      256,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Start begins watching and returns the event channel. The channel is closed
// when the watcher stops. Events for dot-prefixed entries are still emitted;
// filtering is a presentation concern.
func (w *Watcher) Start() (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil, ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fsw, w.root); err != nil {
		fsw.Close()
		return nil, err
	}

	w.fsw = fsw
	w.eventCh = make(chan Event, w.buffer)
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.done = make(chan struct{})
	w.started = true

	go w.loop()

	return w.eventCh, nil
}

// Stop signals the event loop to exit and waits for it with a bounded
// timeout. Safe to call when not started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	cancel := w.cancel
	done := w.done
	timeout := w.stopTimeout
	w.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(timeout):
		debug.Log("watcher: stop timed out after %v", timeout)
	}
}

// addRecursive adds dir and every subdirectory beneath it to the fsnotify
// watch set. Unreadable subtrees are skipped rather than failing the start.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err // root itself unreadable
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			debug.Log("watcher: cannot watch %s: %v", path, err)
		}
		return nil
	})
}

// loop reads fsnotify events, maps them to Events, and keeps the recursive
// watch set up to date. Runs until the context is cancelled.
func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.eventCh)
	defer w.fsw.Close()

	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Log("watcher: fsnotify error: %v", err)
		}
	}
}

// handle converts one fsnotify event and forwards it. Directory creations
// extend the watch set so nested changes keep arriving.
func (w *Watcher) handle(ev fsnotify.Event) {
	now := time.Now()

	switch {
	case ev.Op.Has(fsnotify.Create):
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = addRecursive(w.fsw, ev.Name)
		}
		w.emit(Event{Path: ev.Name, Op: OpCreated, Time: now})

	case ev.Op.Has(fsnotify.Write):
		w.emit(Event{Path: ev.Name, Op: OpModified, Time: now})

	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		// A rename away from the tree is indistinguishable from deletion
		// for display purposes.
		w.emit(Event{Path: ev.Name, Op: OpDeleted, Time: now})
	}
}

// emit performs a non-blocking send; under a change storm it is better to
// drop an event than to stall the fsnotify reader.
func (w *Watcher) emit(e Event) {
	select {
	case w.eventCh <- e:
	default:
		debug.Log("watcher: dropping event for %s (channel full)", e.Path)
	}
}
