package ui

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatSize renders a byte count the way the size annotation shows it:
// bytes under 1KB, one decimal of KB under 1MB, one decimal of MB beyond.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}

// HumanAge renders an elapsed duration as "12s ago", "3m ago", or "2h ago".
func HumanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// Truncate shortens s to at most width display cells, appending an ellipsis
// when anything was cut. Width is measured in terminal cells, not runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
