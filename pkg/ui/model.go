package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/fsglow/pkg/config"
	"github.com/vanderheijden86/fsglow/pkg/debug"
	"github.com/vanderheijden86/fsglow/pkg/monitor"
)

// focus represents which UI element has keyboard focus.
type focus int

const (
	focusTree focus = iota
	focusDiff
	focusHelp
	focusMenu
	focusRootInput
)

// tickMsg drives the periodic re-render. The tree is rebuilt on every tick so
// colors cool off even when no new events arrive.
type tickMsg time.Time

// rootCheckInterval is how many ticks pass between existence checks of the
// monitored directory.
const rootCheckInterval = 10

// menu entries for the ctrl+c modal, in display order.
var menuItems = []string{
	"Resume monitoring",
	"Change directory",
	"Toggle chime",
	"Quit",
}

// statusTTL is how long a transient footer status stays visible.
const statusTTL = 3 * time.Second

// Model is the dashboard. One instance drives the whole program; the monitor
// session runs underneath it and the model only reads session state on ticks
// and key presses.
type Model struct {
	session *monitor.Session
	cfg     config.Config
	theme   Theme
	tree    TreeView

	width   int
	height  int
	ready   bool
	tickNum int

	scrollOffset int
	rows         []Row
	diffPaths    map[int]string

	focus     focus
	prevFocus focus // where to return when help closes

	diffPath   string
	diffView   viewport.Model
	diffReturn focus // where closing the diff goes back to

	menuCursor int
	rootInput  textinput.Model
	inputErr   string

	rootMissing bool
	status      string
	statusUntil time.Time

	quitting bool
}

// NewModel builds the dashboard over a started session.
func NewModel(session *monitor.Session, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/directory"
	ti.CharLimit = 512

	return Model{
		session:   session,
		cfg:       cfg,
		theme:     DefaultTheme(lipgloss.DefaultRenderer()),
		tree:      NewTreeView(cfg.UI.MaxDepth),
		rootInput: ti,
	}
}

// Init starts the render tick.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.diffView.Width = m.contentWidth()
		m.diffView.Height = m.diffHeight()
		return m, nil

	case tickMsg:
		m.tickNum++
		if m.tickNum%rootCheckInterval == 0 {
			m.rootMissing = !m.session.RootExists()
		}
		if m.focus == focusTree || m.focus == focusHelp {
			m.rebuildRows()
		}
		if m.status != "" && time.Now().After(m.statusUntil) {
			m.status = ""
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusRootInput {
		var cmd tea.Cmd
		m.rootInput, cmd = m.rootInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) rebuildRows() {
	now := time.Now()
	if m.rootMissing {
		m.rows = nil
		m.diffPaths = nil
		return
	}
	m.rows, m.diffPaths = m.tree.Collect(m.session.Root(), m.session.Ledger(), m.session.Store(), now)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusHelp:
		switch msg.String() {
		case "?", "q", "esc":
			m.focus = m.prevFocus
		}
		return m, nil
	case focusMenu:
		return m.handleMenuKey(msg)
	case focusRootInput:
		return m.handleRootInputKey(msg)
	case focusDiff:
		return m.handleDiffKey(msg)
	default:
		return m.handleTreeKey(msg)
	}
}

func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.cfg.UI.ScrollStep
	if step < 1 {
		step = 1
	}
	visible := m.visibleRows()

	switch key := msg.String(); key {
	case "ctrl+c":
		m.session.Suspend()
		m.focus = focusMenu
		m.menuCursor = 0
		return m, nil

	case "q", "esc":
		return m.quit()

	case "?":
		m.prevFocus = m.focus
		m.focus = focusHelp
		return m, nil

	case "w", "up":
		m.scrollOffset = ClampOffset(m.scrollOffset-step, len(m.rows), visible)
	case "s", "down":
		m.scrollOffset = ClampOffset(m.scrollOffset+step, len(m.rows), visible)
	case "pgup":
		m.scrollOffset = ClampOffset(m.scrollOffset-visible, len(m.rows), visible)
	case "pgdown":
		m.scrollOffset = ClampOffset(m.scrollOffset+visible, len(m.rows), visible)

	case "f":
		m.jumpToRecent(visible)

	case "c":
		if m.session.ToggleChime() {
			m.setStatus("chime on")
		} else {
			m.setStatus("chime off")
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '0')
		if path, ok := m.diffPaths[idx]; ok {
			m.openDiff(path, focusTree)
		}
	}
	return m, nil
}

// jumpToRecent scrolls so the most recently changed path sits a few rows into
// the viewport instead of pinned to the top edge.
func (m *Model) jumpToRecent(visible int) {
	path, _, ok := m.session.Ledger().MostRecent()
	if !ok {
		return
	}
	for i, row := range m.rows {
		if row.Path == path {
			m.scrollOffset = ClampOffset(i-5, len(m.rows), visible)
			return
		}
	}
}

func (m *Model) openDiff(path string, returnTo focus) {
	lines := m.session.Store().Diff(path)
	if lines == nil {
		m.setStatus("no diff for " + path)
		return
	}
	m.diffPath = path
	m.diffReturn = returnTo
	m.diffView = viewport.New(m.contentWidth(), m.diffHeight())
	m.diffView.SetContent(RenderDiff(m.theme, lines))
	m.focus = focusDiff
}

func (m Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.focus = m.diffReturn
		m.diffPath = ""
		return m, nil
	case "?":
		m.prevFocus = m.focus
		m.focus = focusHelp
		return m, nil
	case "y":
		lines := m.session.Store().Diff(m.diffPath)
		if lines != nil {
			if err := clipboard.WriteAll(PlainDiff(lines)); err != nil {
				debug.Log("clipboard: %v", err)
				m.setStatus("copy failed")
			} else {
				m.setStatus("diff copied")
			}
		}
		return m, nil
	case "ctrl+c":
		m.diffPath = ""
		m.session.Suspend()
		m.focus = focusMenu
		m.menuCursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.diffView, cmd = m.diffView.Update(msg)
	return m, cmd
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// Pending diffs stay viewable while suspended.
		idx := int(key[0] - '0')
		if path, ok := m.diffPaths[idx]; ok {
			m.openDiff(path, focusMenu)
		}
	case "w", "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "s", "down", "j":
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
	case "esc":
		return m.resumeFromMenu()
	case "ctrl+c":
		return m.quit()
	case "enter":
		switch m.menuCursor {
		case 0: // resume
			return m.resumeFromMenu()
		case 1: // change directory
			m.rootInput.SetValue("")
			m.inputErr = ""
			m.rootInput.Focus()
			m.focus = focusRootInput
			return m, textinput.Blink
		case 2: // toggle chime
			if m.session.ToggleChime() {
				m.setStatus("chime on")
			} else {
				m.setStatus("chime off")
			}
		case 3: // quit
			return m.quit()
		}
	}
	return m, nil
}

func (m Model) resumeFromMenu() (tea.Model, tea.Cmd) {
	if err := m.session.Resume(); err != nil {
		m.setStatus("resume failed: " + err.Error())
	}
	m.focus = focusTree
	return m, nil
}

func (m Model) handleRootInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rootInput.Blur()
		m.focus = focusMenu
		return m, nil
	case "enter":
		newRoot := strings.TrimSpace(m.rootInput.Value())
		if newRoot == "" {
			m.inputErr = "enter a directory path"
			return m, nil
		}
		if err := m.session.ChangeRoot(config.ExpandHome(newRoot)); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.rootInput.Blur()
		m.scrollOffset = 0
		m.rootMissing = false
		m.rebuildRows()
		m.focus = focusTree
		m.setStatus("now watching " + m.session.Root())
		return m, nil
	}

	var cmd tea.Cmd
	m.rootInput, cmd = m.rootInput.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.session.Stop()
	SavePrefs(Prefs{ChimeEnabled: m.session.ChimeEnabled(), LastRoot: m.session.Root()})
	return m, tea.Quit
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusUntil = time.Now().Add(statusTTL)
}

// Layout arithmetic. Header and footer are fixed-height panels; the tree gets
// everything in between.

func (m Model) contentWidth() int {
	w := m.width - 4 // panel borders and padding
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) visibleRows() int {
	// header panel 5 lines, tree border+padding 2, footer panel 3.
	v := m.height - 10
	if v < 1 {
		v = 1
	}
	return v
}

func (m Model) diffHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting fsglow..."
	}

	switch m.focus {
	case focusHelp:
		return m.theme.TreePanel.Width(m.contentWidth() + 2).Render(RenderHelp(m.contentWidth()))
	case focusMenu:
		return m.viewMenu()
	case focusRootInput:
		return m.viewRootInput()
	case focusDiff:
		return m.viewDiff()
	default:
		return m.viewTree()
	}
}

func (m Model) viewTree() string {
	doc := Paginate(m.rows, m.diffPaths, m.scrollOffset, m.visibleRows())

	var b strings.Builder
	b.WriteString(m.viewHeader(doc))
	b.WriteString("\n")

	lines := make([]string, 0, len(doc.Rows)+1)
	for _, row := range doc.Rows {
		lines = append(lines, m.renderRow(row))
	}
	if doc.AtEnd {
		lines = append(lines, m.theme.EndMarker.Render("· end of tree ·"))
	}
	if m.rootMissing {
		lines = []string{m.theme.Danger.Render("watched directory no longer exists")}
	}
	b.WriteString(m.theme.TreePanel.Width(m.contentWidth() + 2).Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader(doc Document) string {
	now := time.Now()
	created, modified, deleted := m.session.Ledger().RecentCounts(now)

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("fsglow"))
	b.WriteString("  ")
	b.WriteString(m.theme.Accent.Render(Truncate(m.session.Root(), m.contentWidth()-30)))
	b.WriteString("\n")

	state := m.session.State().String()
	if m.rootMissing {
		state = "directory missing"
	}
	b.WriteString(m.theme.Muted.Render(state))
	b.WriteString("   ")
	b.WriteString(m.theme.Success.Render(fmt.Sprintf("+%d", created)))
	b.WriteString(" ")
	b.WriteString(m.theme.Warning.Render(fmt.Sprintf("~%d", modified)))
	b.WriteString(" ")
	b.WriteString(m.theme.Danger.Render(fmt.Sprintf("-%d", deleted)))
	b.WriteString("   ")
	if m.session.ChimeEnabled() {
		b.WriteString(m.theme.Success.Render("chime on"))
	} else {
		b.WriteString(m.theme.Muted.Render("chime off"))
	}
	b.WriteString("   ")
	b.WriteString(m.theme.Muted.Render(doc.HeaderTag))
	b.WriteString("\n")

	if path, t, ok := m.session.Ledger().MostRecent(); ok {
		b.WriteString(m.theme.Muted.Render("last: "))
		b.WriteString(m.theme.Accent.Render(Truncate(path, m.contentWidth()-20)))
		b.WriteString(m.theme.Muted.Render(" " + HumanAge(now.Sub(t))))
	} else {
		b.WriteString(m.theme.Muted.Render("no changes yet"))
	}

	return m.theme.HeaderPanel.Width(m.contentWidth() + 2).Render(b.String())
}

func (m Model) renderRow(row Row) string {
	indent := strings.Repeat("  ", row.Depth)

	if row.ErrText != "" {
		return indent + m.theme.ErrorRow.Render("! "+row.ErrText)
	}

	icon := "📄"
	switch {
	case row.Tombstone:
		icon = "🗑"
	case row.IsDir:
		icon = "📁"
	}
	name := row.Name
	if row.IsDir {
		name += "/"
	}
	line := indent + icon + " " + m.theme.TierStyle(row.Style).Render(name)

	if row.DiffIndex > 0 && row.DiffIndex <= 9 {
		line += " " + m.theme.DiffButton.Render(fmt.Sprintf("[%d]", row.DiffIndex))
	}
	if row.IsNew {
		line += " " + m.theme.BadgeNew.Render("[NEW]")
	} else if row.IsEdited {
		line += " " + m.theme.BadgeEdited.Render("[EDITED]")
	}
	if row.HasSize {
		line += " " + m.theme.SizeNote.Render(FormatSize(row.Size))
	}
	return Truncate(line, m.contentWidth())
}

func (m Model) viewFooter() string {
	hint := "w/s scroll · f recent · 1-9 diff · c chime · ? help · ctrl+c menu · q quit"
	if m.status != "" {
		hint = m.status
	}
	return m.theme.FooterPanel.Width(m.contentWidth() + 2).Render(m.theme.Muted.Render(hint))
}

func (m Model) viewDiff() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("diff: " + m.diffPath))
	b.WriteString("\n")
	b.WriteString(m.theme.DiffPanel.Width(m.contentWidth() + 2).Render(m.diffView.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.FooterPanel.Width(m.contentWidth() + 2).
		Render(m.theme.Muted.Render("up/down scroll · y copy · q/esc back")))
	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("fsglow paused"))
	b.WriteString("\n")
	if m.rootMissing {
		b.WriteString(m.theme.Danger.Render("watched directory no longer exists"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for i, item := range menuItems {
		if i == m.menuCursor {
			b.WriteString(m.theme.Accent.Render("> " + item))
		} else {
			b.WriteString(m.theme.Muted.Render("  " + item))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("enter select · esc resume · ctrl+c quit"))
	return m.theme.DangerPanel.Width(m.contentWidth() + 2).Render(b.String())
}

func (m Model) viewRootInput() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("watch a different directory"))
	b.WriteString("\n\n")
	b.WriteString(m.rootInput.View())
	b.WriteString("\n")
	if m.inputErr != "" {
		b.WriteString(m.theme.Danger.Render(m.inputErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("enter confirm · esc back"))
	return m.theme.TreePanel.Width(m.contentWidth() + 2).Render(b.String())
}
