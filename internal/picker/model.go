// Package picker implements the picker state machine (C4) and its Bubble
// Tea rendering: the query buffer, prompt, cursor, binding table, and the
// list/preview view over a ranker.View.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wrungel/sweep/internal/haystack"
)

// publishedMsg fires whenever the ranker publishes a fresh view.
type publishedMsg struct{}

// Model is the Bubble Tea model that renders a PickerState. It owns no
// ranking state itself; it only translates key events into PickerState
// calls and paints the latest published view.
type Model struct {
	ps *PickerState

	width, height int
	title         string
	border        bool
	altScreen     bool

	quitting  bool
	cancelled bool
}

// NewModel wraps ps for TUI rendering.
func NewModel(ps *PickerState, title string, border bool) *Model {
	return &Model{ps: ps, title: title, border: border}
}

// Selected reports whether the model exited via a selection (as opposed
// to a quit/cancel).
func (m *Model) Selected() bool { return m.quitting && !m.cancelled }

func waitForPublish(ps *PickerState) tea.Cmd {
	return func() tea.Msg {
		<-ps.rk.Published()
		return publishedMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForPublish(m.ps)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ps.SetPageSize(m.listHeight())
		return m, nil

	case publishedMsg:
		return m, waitForPublish(m.ps)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chord := msg.String()
	literal := ""
	switch msg.Type {
	case tea.KeyRunes:
		literal = string(msg.Runes)
	case tea.KeySpace:
		literal = " "
	}

	action, insert := m.ps.HandleChord(chord, literal)
	if insert != "" {
		m.ps.QuerySet(m.ps.QueryGet() + insert)
		return m, nil
	}

	switch action {
	case ActionSelect:
		m.quitting = true
		return m, tea.Quit
	case ActionQuit:
		m.quitting = true
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) listHeight() int {
	chrome := 2 // prompt/query line + status line
	if m.border {
		chrome += 2
	}
	h := m.height - chrome
	if h < 1 {
		h = 20
	}
	return h
}

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	queryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rightStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	previewFrame  = lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Border(lipgloss.NormalBorder())
	emptyMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewQuery())
	b.WriteRune('\n')
	b.WriteString(m.viewList())
	b.WriteRune('\n')
	b.WriteString(m.viewStatus())

	body := b.String()
	if m.ps.PreviewShown() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.viewPreview())
	}
	if m.border {
		return previewFrame.Render(body)
	}
	return body
}

func (m *Model) viewQuery() string {
	text, icon := m.ps.Prompt()
	if text == "" {
		text = m.title
	}
	prefix := text
	if icon != "" {
		prefix = icon + " " + text
	}
	return promptStyle.Render(prefix+"> ") + queryStyle.Render(m.ps.QueryGet())
}

func (m *Model) viewList() string {
	view := m.ps.rk.View()
	if view.Len() == 0 {
		return emptyMsgStyle.Render("no matches")
	}

	cursorID := m.currentCursorID()
	maxRows := m.listHeight()
	rowWidth := m.width - 4
	if rowWidth < 8 {
		rowWidth = 8
	}
	reg := m.ps.Registry()
	var b strings.Builder
	for i := 0; i < view.Len() && i < maxRows; i++ {
		entry, _ := view.Get(i)
		line := renderRow(entry.Item, rowWidth, reg)
		if entry.Item.ID == cursorID {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		if i < maxRows-1 && i < view.Len()-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m *Model) currentCursorID() uint64 {
	item, ok := m.ps.ItemsCurrent()
	if !ok {
		return 0
	}
	return item.ID
}

func renderRow(item haystack.Item, maxWidth int, reg *haystack.Registry) string {
	target := MiddleTruncate(StripANSI(fieldsText(item.Target, reg)), maxWidth)
	right := fieldsText(item.Right, reg)
	if right == "" {
		return target
	}
	return target + "  " + rightStyle.Render(right)
}

// fieldsText renders fields, resolving each one's Ref against reg first so a
// field that only sets Ref (text/glyph/style deduplicated over the wire)
// still inherits its template's attributes.
func fieldsText(fields []haystack.Field, reg *haystack.Registry) string {
	var b strings.Builder
	for _, raw := range fields {
		f := raw.Resolve(reg)
		if !f.Active && f.Text == "" {
			continue
		}
		if f.Glyph != "" {
			b.WriteString(f.Glyph)
			b.WriteRune(' ')
		}
		b.WriteString(PrettyEscapeLiterals(ValidateUTF8(f.Text)))
	}
	return b.String()
}

func (m *Model) viewStatus() string {
	view := m.ps.rk.View()
	return statusStyle.Render(fmt.Sprintf("%d/%d", view.MatchedItems, view.TotalItems))
}

func (m *Model) viewPreview() string {
	item, ok := m.ps.ItemsCurrent()
	if !ok {
		return previewFrame.Render("")
	}
	return previewFrame.Render(fieldsText(item.Preview, m.ps.Registry()))
}
