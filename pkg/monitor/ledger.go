package monitor

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

// Display windows for the recency badges. Creation and deletion marks live
// in their own maps so a later event for the same path cannot erase them
// before the badge expires.
const (
	CreatedWindow = 10 * time.Second
	DeletedWindow = 30 * time.Second
)

// changeRecord is the latest observed event for a path.
type changeRecord struct {
	op   watcher.Op
	seen time.Time
}

// EventLedger records, per path, the most recent event plus longer-lived
// creation and deletion marks. Mutated by the event goroutine, read by the
// render tick; all access goes through the lock.
type EventLedger struct {
	mu      sync.RWMutex
	latest  map[string]changeRecord
	created map[string]time.Time
	deleted map[string]time.Time

	recentPath string
	recentTime time.Time
}

// NewEventLedger returns an empty ledger.
func NewEventLedger() *EventLedger {
	return &EventLedger{
		latest:  make(map[string]changeRecord),
		created: make(map[string]time.Time),
		deleted: make(map[string]time.Time),
	}
}

// Record overwrites the path's latest event and upserts the creation or
// deletion mark when applicable.
func (l *EventLedger) Record(path string, op watcher.Op, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.latest[path] = changeRecord{op: op, seen: now}
	l.recentPath = path
	l.recentTime = now

	switch op {
	case watcher.OpCreated:
		l.created[path] = now
	case watcher.OpDeleted:
		l.deleted[path] = now
	}
}

// LatestKind returns the most recent event kind for the path.
func (l *EventLedger) LatestKind(path string) (watcher.Op, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.latest[path]
	return rec.op, ok
}

// IsRecent reports whether the path's latest event happened strictly less
// than `within` before now.
func (l *EventLedger) IsRecent(path string, within time.Duration, now time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.latest[path]
	return ok && now.Sub(rec.seen) < within
}

// CreatedRecently reports whether the path was created within the creation
// window. Checks the creation mark as well as the latest record, so a
// create-then-modify in quick succession still reads as new.
func (l *EventLedger) CreatedRecently(path string, now time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if rec, ok := l.latest[path]; ok && rec.op == watcher.OpCreated && now.Sub(rec.seen) < CreatedWindow {
		return true
	}
	if t, ok := l.created[path]; ok && now.Sub(t) < CreatedWindow {
		return true
	}
	return false
}

// DeletedRecently reports whether a deletion mark exists within the deletion
// window.
func (l *EventLedger) DeletedRecently(path string, now time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.deleted[path]
	return ok && now.Sub(t) < DeletedWindow
}

// DeletedChildren returns paths with a live deletion mark whose parent is
// dir, in no particular order. The tree builder appends these as tombstone
// rows.
func (l *EventLedger) DeletedChildren(dir string, now time.Time) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []string
	for path, t := range l.deleted {
		if now.Sub(t) < DeletedWindow && filepath.Dir(path) == dir {
			out = append(out, path)
		}
	}
	return out
}

// RecentCounts returns how many paths saw a created, modified, or deleted
// event within the last 30 seconds, for the header status line.
func (l *EventLedger) RecentCounts(now time.Time) (created, modified, deleted int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, rec := range l.latest {
		if now.Sub(rec.seen) >= DeletedWindow {
			continue
		}
		switch rec.op {
		case watcher.OpCreated:
			created++
		case watcher.OpModified:
			modified++
		}
	}
	for _, t := range l.deleted {
		if now.Sub(t) < DeletedWindow {
			deleted++
		}
	}
	return created, modified, deleted
}

// MostRecent returns the path and time of the last recorded event.
func (l *EventLedger) MostRecent() (string, time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.recentPath == "" {
		return "", time.Time{}, false
	}
	return l.recentPath, l.recentTime, true
}

// Clear drops all records and marks. Called when the monitored root changes.
func (l *EventLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest = make(map[string]changeRecord)
	l.created = make(map[string]time.Time)
	l.deleted = make(map[string]time.Time)
	l.recentPath = ""
	l.recentTime = time.Time{}
}
