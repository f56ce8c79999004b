package ui

import (
	"strings"

	"github.com/vanderheijden86/fsglow/pkg/monitor"
)

// RenderDiff colorizes pre-classified diff lines for the diff pane. Returns
// plain text joined with newlines; the caller wraps it in a viewport.
func RenderDiff(t Theme, lines []monitor.DiffLine) string {
	if len(lines) == 0 {
		return t.Muted.Render("no changes recorded")
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		var style = t.DiffContext
		switch l.Kind {
		case monitor.DiffHeader:
			style = t.DiffHeader
		case monitor.DiffHunk:
			style = t.DiffHunk
		case monitor.DiffInsert:
			style = t.DiffInsert
		case monitor.DiffDelete:
			style = t.DiffDelete
		}
		out = append(out, style.Render(l.Text))
	}
	return strings.Join(out, "\n")
}

// PlainDiff flattens diff lines back to unified diff text, for the clipboard.
func PlainDiff(lines []monitor.DiffLine) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return strings.Join(out, "\n") + "\n"
}
