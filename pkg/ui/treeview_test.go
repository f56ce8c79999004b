package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/fsglow/pkg/monitor"
	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

func mkTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// Layout exercising ordering: files before dirs, case-insensitive names,
	// hidden entries skipped.
	for _, f := range []string{"zeta.txt", "Alpha.txt", ".hidden.txt"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, d := range []string{"beta", ".git"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "beta", "inner.md"), []byte("y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCollect_OrderingAndFiltering(t *testing.T) {
	dir := mkTree(t)
	tv := NewTreeView(10)
	rows, _ := tv.Collect(dir, monitor.NewEventLedger(), monitor.NewContentStore(), time.Now())

	var names []string
	for _, r := range rows {
		names = append(names, r.Name)
	}
	want := []string{"Alpha.txt", "zeta.txt", "beta", "inner.md"}
	if len(names) != len(want) {
		t.Fatalf("got rows %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, names[i], want[i])
		}
	}

	if !rows[2].IsDir {
		t.Error("beta should be a directory row")
	}
	if rows[3].Depth != 1 {
		t.Errorf("inner.md should be depth 1, got %d", rows[3].Depth)
	}
	if !rows[0].HasSize || rows[0].Size != 2 {
		t.Errorf("Alpha.txt size not captured: %+v", rows[0])
	}
}

func TestCollect_DepthBound(t *testing.T) {
	dir := t.TempDir()
	deep := dir
	for i := 0; i < 5; i++ {
		deep = filepath.Join(deep, "d")
		if err := os.Mkdir(deep, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	tv := NewTreeView(3)
	rows, _ := tv.Collect(dir, monitor.NewEventLedger(), monitor.NewContentStore(), time.Now())
	for _, r := range rows {
		if r.Depth >= 3 {
			t.Errorf("row %s at depth %d exceeds the bound", r.Path, r.Depth)
		}
	}
}

func TestCollect_TombstonesAppended(t *testing.T) {
	dir := mkTree(t)
	ledger := monitor.NewEventLedger()
	gone := filepath.Join(dir, "vanished.txt")
	ledger.Record(gone, watcher.OpDeleted, time.Now())

	tv := NewTreeView(10)
	rows, _ := tv.Collect(dir, ledger, monitor.NewContentStore(), time.Now())

	last := rows[len(rows)-1]
	if !last.Tombstone || last.Path != gone {
		t.Errorf("expected trailing tombstone for %s, got %+v", gone, last)
	}
	if !last.Style.Strike {
		t.Error("tombstone should render struck through")
	}
	if last.HasSize {
		t.Error("a deleted file has no size to show")
	}
}

func TestCollect_DiffIndicesAssignedInOrder(t *testing.T) {
	dir := mkTree(t)
	store := monitor.NewContentStore()

	alpha := filepath.Join(dir, "Alpha.txt")
	inner := filepath.Join(dir, "beta", "inner.md")
	store.Seen(alpha, "old\n")
	store.Seen(inner, "old\n")
	if err := os.WriteFile(alpha, []byte("new\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(inner, []byte("new\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store.Update(alpha)
	store.Update(inner)

	tv := NewTreeView(10)
	rows, diffPaths := tv.Collect(dir, monitor.NewEventLedger(), store, time.Now())

	if diffPaths[1] != alpha || diffPaths[2] != inner {
		t.Errorf("diff indices out of traversal order: %v", diffPaths)
	}
	for _, r := range rows {
		switch r.Path {
		case alpha:
			if r.DiffIndex != 1 {
				t.Errorf("Alpha.txt should carry diff index 1, got %d", r.DiffIndex)
			}
		case inner:
			if r.DiffIndex != 2 {
				t.Errorf("inner.md should carry diff index 2, got %d", r.DiffIndex)
			}
		}
	}
}

func TestCollect_UnreadableRootYieldsErrorRow(t *testing.T) {
	tv := NewTreeView(10)
	rows, _ := tv.Collect(filepath.Join(t.TempDir(), "gone"), monitor.NewEventLedger(), monitor.NewContentStore(), time.Now())
	if len(rows) != 1 || rows[0].ErrText == "" {
		t.Fatalf("expected a single error row, got %+v", rows)
	}
}

func TestPaginate_ClampsOffsetPastEnd(t *testing.T) {
	rows := make([]Row, 100)
	doc := Paginate(rows, nil, 85, 30)

	if doc.Start != 70 || doc.End != 100 {
		t.Errorf("expected window 70-100, got %d-%d", doc.Start, doc.End)
	}
	if len(doc.Rows) != 30 {
		t.Errorf("expected 30 visible rows, got %d", len(doc.Rows))
	}
	if !doc.AtEnd {
		t.Error("window reaching the last row should report AtEnd")
	}
	if doc.HeaderTag != "line 71-100 of 100" {
		t.Errorf("unexpected header tag %q", doc.HeaderTag)
	}
}

func TestPaginate_FewerRowsThanViewport(t *testing.T) {
	rows := make([]Row, 5)
	doc := Paginate(rows, nil, 3, 30)

	if doc.Start != 0 || doc.End != 5 || len(doc.Rows) != 5 {
		t.Errorf("small tree should show everything from the top, got %+v", doc)
	}
}

func TestPaginate_EmptyTree(t *testing.T) {
	doc := Paginate(nil, nil, 10, 30)
	if doc.Total != 0 || len(doc.Rows) != 0 || !doc.AtEnd {
		t.Errorf("unexpected document for empty tree: %+v", doc)
	}
}

// Property: ClampOffset always lands inside [0, max(0, total-visible)] and
// never moves an already-valid offset.
func TestClampOffset_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 1000).Draw(t, "total")
		visible := rapid.IntRange(1, 100).Draw(t, "visible")
		offset := rapid.IntRange(-50, 1100).Draw(t, "offset")

		got := ClampOffset(offset, total, visible)

		maxOffset := total - visible
		if maxOffset < 0 {
			maxOffset = 0
		}
		if got < 0 || got > maxOffset {
			t.Fatalf("clamped offset %d outside [0,%d]", got, maxOffset)
		}
		if offset >= 0 && offset <= maxOffset && got != offset {
			t.Fatalf("valid offset %d moved to %d", offset, got)
		}
	})
}
