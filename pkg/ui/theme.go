package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/fsglow/pkg/monitor"
)

// Theme holds every style the dashboard renders with. Styles are created
// once at startup instead of per-frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Recency palette, one style per tier. This is the visual language of
	// the whole dashboard: created files cool from bright green to dark
	// green, modified files from bright red through yellow to orange, and
	// deleted files are dim red struck through.
	Tiers map[monitor.Tier]lipgloss.Style

	// Chrome
	HeaderPanel lipgloss.Style
	TreePanel   lipgloss.Style
	DiffPanel   lipgloss.Style
	FooterPanel lipgloss.Style
	DangerPanel lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Accent      lipgloss.Style
	Warning     lipgloss.Style
	Danger      lipgloss.Style
	Success     lipgloss.Style
	BadgeNew    lipgloss.Style
	BadgeEdited lipgloss.Style
	DiffButton  lipgloss.Style
	SizeNote    lipgloss.Style
	ErrorRow    lipgloss.Style
	EndMarker   lipgloss.Style

	// Diff pane
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffInsert  lipgloss.Style
	DiffDelete  lipgloss.Style
	DiffContext lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{Renderer: r}

	t.Tiers = map[monitor.Tier]lipgloss.Style{
		monitor.TierPlain: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}),
		monitor.TierDeleted: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AA4444", Dark: "#885555"}).
			Strikethrough(true).Faint(true),
		monitor.TierCreatedFresh: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#5AF78E"}).Bold(true),
		monitor.TierCreatedRecent: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}),
		monitor.TierCreatedFading: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#005500", Dark: "#2E8B57"}),
		monitor.TierModifiedFresh: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#EE0000", Dark: "#FF6E67"}).Bold(true),
		monitor.TierModifiedRecent: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}),
		monitor.TierModifiedFading: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}),
		monitor.TierModifiedStale: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}),
	}

	border := lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	green := lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	blue := lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}
	red := lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	t.HeaderPanel = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(green).Padding(0, 1)
	t.TreePanel = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(blue).Padding(0, 1)
	t.DiffPanel = r.NewStyle().Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#F1FA8C"}).Padding(0, 1)
	t.FooterPanel = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	t.DangerPanel = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(red).Padding(0, 1)

	t.Title = r.NewStyle().Foreground(blue).Bold(true)
	t.Muted = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"})
	t.Accent = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"})
	t.Warning = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"})
	t.Danger = r.NewStyle().Foreground(red).Bold(true)
	t.Success = r.NewStyle().Foreground(green)

	t.BadgeNew = r.NewStyle().Foreground(green).Bold(true)
	t.BadgeEdited = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}).Bold(true)
	t.DiffButton = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}).Bold(true)
	t.SizeNote = t.Muted
	t.ErrorRow = r.NewStyle().Foreground(red).Faint(true)
	t.EndMarker = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}).Faint(true)

	t.DiffHeader = r.NewStyle().Foreground(blue).Bold(true)
	t.DiffHunk = t.Accent.Bold(true)
	t.DiffInsert = r.NewStyle().Foreground(green)
	t.DiffDelete = r.NewStyle().Foreground(red)
	t.DiffContext = t.Muted

	return t
}

// TierStyle returns the style for a computed recency decision.
func (t Theme) TierStyle(s monitor.Style) lipgloss.Style {
	if st, ok := t.Tiers[s.Tier]; ok {
		return st
	}
	return t.Tiers[monitor.TierPlain]
}
