package monitor

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vanderheijden86/fsglow/pkg/debug"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// DiffLineKind tags a rendered diff line.
type DiffLineKind int

const (
	DiffHeader DiffLineKind = iota // --- / +++ file headers
	DiffHunk                       // @@ ... @@
	DiffInsert
	DiffDelete
	DiffContext
)

// DiffLine is one line of a computed diff, pre-classified so rendering never
// has to re-parse prefixes.
type DiffLine struct {
	Kind DiffLineKind
	Text string // includes the +/-/space prefix
}

// snapshot holds the two content versions kept per path. baseline is set
// once and never overwritten; current is replaced on every modification.
type snapshot struct {
	baseline string
	current  string
}

// ContentStore keeps per-path content snapshots and computes diffs between
// the baseline and the latest content. It is safe for concurrent use: the
// event goroutine mutates it while the render tick reads it.
type ContentStore struct {
	mu    sync.RWMutex
	files map[string]*snapshot
}

// NewContentStore returns an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{files: make(map[string]*snapshot)}
}

// Seen records the content of a pre-existing file during the initial scan.
// Both baseline and current are set so the file starts with no pending diff.
// No-op if the path already has a record.
func (s *ContentStore) Seen(path, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; ok {
		return
	}
	s.files[path] = &snapshot{baseline: text, current: text}
}

// Update re-reads the file after a create/modify event and stores the result
// as the current content. The first observation of a path fixes its baseline:
// a file first seen at creation diffs from its initial content, so the diff
// shows only what changed after it appeared. Read failures leave the store
// unchanged.
func (s *ContentStore) Update(path string) {
	if !IsTrackable(path) {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		debug.Log("contents: skipping %s: %v", path, err)
		return
	}
	text := string(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.files[path]; ok {
		snap.current = text
		return
	}
	s.files[path] = &snapshot{baseline: text, current: text}
}

// HasDiff reports whether the path has a record with pending changes.
// Cheaper than Diff for the tree builder, which only needs the flag.
func (s *ContentStore) HasDiff(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.files[path]
	return ok && snap.baseline != snap.current
}

// Diff returns the unified diff (context 3) from the path's baseline to its
// current content, or nil when there is no record or nothing changed.
// Calling it twice without an intervening Update yields identical output.
func (s *ContentStore) Diff(path string) []DiffLine {
	s.mu.RLock()
	snap, ok := s.files[path]
	if !ok {
		s.mu.RUnlock()
		return nil
	}
	baseline, current := snap.baseline, snap.current
	s.mu.RUnlock()

	if baseline == current {
		return nil
	}

	name := filepath.Base(path)
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(baseline),
		B:        difflib.SplitLines(current),
		FromFile: name + " (before)",
		ToFile:   name + " (after)",
		Context:  diffContext,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil || text == "" {
		return nil
	}

	return classifyDiff(text)
}

// Forget drops the record for a single path. Used only by tests; normal
// operation keeps records until Clear (a deleted file's last diff stays
// viewable while its tombstone is shown).
func (s *ContentStore) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}

// Clear drops every record. Called when the monitored root changes.
func (s *ContentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]*snapshot)
}

// Len returns the number of tracked paths.
func (s *ContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// classifyDiff splits unified diff text into tagged lines.
func classifyDiff(text string) []DiffLine {
	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]DiffLine, 0, len(raw))
	for _, l := range raw {
		var kind DiffLineKind
		switch {
		case strings.HasPrefix(l, "---") || strings.HasPrefix(l, "+++"):
			kind = DiffHeader
		case strings.HasPrefix(l, "@@"):
			kind = DiffHunk
		case strings.HasPrefix(l, "+"):
			kind = DiffInsert
		case strings.HasPrefix(l, "-"):
			kind = DiffDelete
		default:
			kind = DiffContext
		}
		lines = append(lines, DiffLine{Kind: kind, Text: l})
	}
	return lines
}
