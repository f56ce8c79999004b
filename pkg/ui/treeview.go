package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/fsglow/pkg/monitor"
	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

// DefaultMaxDepth bounds traversal depth against symlink cycles and
// pathological trees.
const DefaultMaxDepth = 10

// Row is one display line of the tree.
type Row struct {
	Path      string
	Name      string
	Depth     int
	IsDir     bool
	Tombstone bool   // recently-deleted entry still shown
	ErrText   string // non-empty for inline traversal error rows

	Size    int64
	HasSize bool // false when the path no longer exists

	Style     monitor.Style
	DiffIndex int // 1-based index into the diff table, 0 = no pending diff
	IsNew     bool
	IsEdited  bool
}

// Document is the visible slice of the tree plus the context the renderer
// and the navigation commands need.
type Document struct {
	Rows      []Row
	Total     int
	Start     int // 0-based index of the first visible row
	End       int // exclusive
	AtEnd     bool
	HeaderTag string         // "line 3-32 of 120"
	DiffPaths map[int]string // diff index -> path, rebuilt fresh every call
}

// TreeView builds ordered row lists from the live filesystem plus the
// remembered deleted paths.
type TreeView struct {
	MaxDepth int
}

// NewTreeView returns a builder with the given depth bound; values below 1
// fall back to the default.
func NewTreeView(maxDepth int) TreeView {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return TreeView{MaxDepth: maxDepth}
}

// Collect walks root depth-first, files before directories at each level,
// names compared case-insensitively, dot-entries skipped. Recently deleted
// children are appended at each level as tombstone rows. Diff indices are
// assigned 1-based in traversal order and are only valid for this build.
// Traversal errors become inline rows; Collect itself never fails.
func (tv TreeView) Collect(root string, ledger *monitor.EventLedger, store *monitor.ContentStore, now time.Time) ([]Row, map[int]string) {
	var rows []Row
	diffPaths := make(map[int]string)
	nextIdx := 1
	tv.collect(root, 0, ledger, store, now, &rows, diffPaths, &nextIdx)
	return rows, diffPaths
}

func (tv TreeView) collect(dir string, depth int, ledger *monitor.EventLedger, store *monitor.ContentStore, now time.Time, rows *[]Row, diffPaths map[int]string, nextIdx *int) {
	if depth >= tv.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		*rows = append(*rows, Row{
			Path:    dir,
			Depth:   depth,
			ErrText: readDirError(err),
		})
		return
	}

	type item struct {
		name  string
		isDir bool
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		items = append(items, item{name: e.Name(), isDir: e.IsDir()})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return !items[i].isDir // files first
		}
		return strings.ToLower(items[i].name) < strings.ToLower(items[j].name)
	})

	emit := func(path, name string, isDir, tombstone bool) {
		row := Row{
			Path:      path,
			Name:      name,
			Depth:     depth,
			IsDir:     isDir,
			Tombstone: tombstone,
			Style:     monitor.Classify(path, ledger, now),
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			row.Size = info.Size()
			row.HasSize = true
		}
		if !isDir {
			if !tombstone {
				row.IsNew = ledger.CreatedRecently(path, now)
				if !row.IsNew {
					if op, ok := ledger.LatestKind(path); ok && op == watcher.OpModified {
						row.IsEdited = ledger.IsRecent(path, monitor.DeletedWindow, now)
					}
				}
			}
			if !tombstone && store.HasDiff(path) {
				row.DiffIndex = *nextIdx
				diffPaths[*nextIdx] = path
				*nextIdx++
			}
		} else if ledger.CreatedRecently(path, now) {
			row.IsNew = true
		}
		*rows = append(*rows, row)
	}

	for _, it := range items {
		path := filepath.Join(dir, it.name)
		// Entries can vanish between the readdir and the stat; re-check
		// rather than trusting the dirent.
		isDir := it.isDir
		if info, err := os.Stat(path); err == nil {
			isDir = info.IsDir()
		} else {
			isDir = false
		}
		emit(path, it.name, isDir, false)
		if isDir {
			tv.collect(path, depth+1, ledger, store, now, rows, diffPaths, nextIdx)
		}
	}

	// Tombstones: deleted children stay visible until their window expires.
	deleted := ledger.DeletedChildren(dir, now)
	sort.Strings(deleted)
	for _, path := range deleted {
		emit(path, filepath.Base(path), false, true)
	}
}

// Paginate clamps the scroll offset against the row count, slices the
// visible window, and fills in the header tag. The clamp happens on every
// call because the tree can shrink between renders.
func Paginate(rows []Row, diffPaths map[int]string, scrollOffset, visible int) Document {
	total := len(rows)
	if visible < 1 {
		visible = 1
	}

	maxOffset := total - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	end := scrollOffset + visible
	if end > total {
		end = total
	}

	return Document{
		Rows:      rows[scrollOffset:end],
		Total:     total,
		Start:     scrollOffset,
		End:       end,
		AtEnd:     end >= total,
		HeaderTag: fmt.Sprintf("line %d-%d of %d", scrollOffset+1, end, total),
		DiffPaths: diffPaths,
	}
}

// ClampOffset returns offset limited to [0, max(0, total-visible)].
// Navigation commands use it so a shrunken tree cannot leave the viewport
// past the end.
func ClampOffset(offset, total, visible int) int {
	maxOffset := total - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// readDirError condenses a traversal failure for the inline error row.
func readDirError(err error) string {
	if os.IsPermission(err) {
		return "permission denied"
	}
	if os.IsNotExist(err) {
		return "directory vanished"
	}
	return "unreadable: " + err.Error()
}
