package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# fsglow

Live view of a directory: files light up as they change and cool off as
the change ages out.

## Colors

| Color | Meaning |
|-------|---------|
| bright green | created under 2s ago |
| green | created under 5s ago |
| dark green | created under 10s ago |
| bright red | modified under 2s ago |
| red | modified under 5s ago |
| yellow | modified under 10s ago |
| orange | modified under 30s ago |
| ~~dim red~~ | deleted under 30s ago |

## Keys

| Key | Action |
|-----|--------|
| w / up | scroll up |
| s / down | scroll down |
| pgup / pgdn | scroll a full page |
| f | jump to the most recent change |
| 1-9 | open the numbered diff |
| q / esc | close the diff, or quit |
| y | copy the open diff to the clipboard |
| c | toggle the chime |
| ? | toggle this help |
| ctrl+c | open the menu |
`

// RenderHelp renders the help overlay as styled markdown. Falls back to the
// raw markdown when the terminal renderer cannot be built.
func RenderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	if width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
