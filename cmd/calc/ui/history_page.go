package ui

import (
	"strings"

	"calcnerd/internal/engine"
	"calcnerd/internal/history"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HistoryPageModel renders the history list, newest first, in a scrolling
// viewport with a movable selection.
type HistoryPageModel struct {
	viewport viewport.Model
	entries  []history.Entry // newest first
	cursor   int
	focused  bool
	styles   Styles
	width    int
	height   int
}

// NewHistoryPageModel creates an empty history page.
func NewHistoryPageModel(styles Styles) HistoryPageModel {
	vp := viewport.New(HistoryMinWidth, HistoryMinHeight)
	m := HistoryPageModel{viewport: vp, styles: styles, width: HistoryMinWidth, height: HistoryMinHeight}
	m.UpdateContent()
	return m
}

// SetSize updates the size of the viewport.
func (m *HistoryPageModel) SetSize(w, h int) {
	if w < HistoryMinWidth {
		w = HistoryMinWidth
	}
	if h < HistoryMinHeight {
		h = HistoryMinHeight
	}
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 1 // title line
	m.UpdateContent()
}

// SetStyles swaps the styles, e.g. after a theme change.
func (m *HistoryPageModel) SetStyles(s Styles) {
	m.styles = s
	m.UpdateContent()
}

// SetEntries replaces the list. entries are oldest first, as stored.
func (m *HistoryPageModel) SetEntries(entries []history.Entry) {
	m.entries = make([]history.Entry, len(entries))
	for i, e := range entries {
		m.entries[len(entries)-1-i] = e
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.UpdateContent()
}

// Len returns the number of entries shown.
func (m HistoryPageModel) Len() int { return len(m.entries) }

// Focus highlights the selection.
func (m *HistoryPageModel) Focus() {
	m.focused = true
	m.UpdateContent()
}

// Blur hides the selection.
func (m *HistoryPageModel) Blur() {
	m.focused = false
	m.UpdateContent()
}

// Focused reports whether the page has focus.
func (m HistoryPageModel) Focused() bool { return m.focused }

// Selected returns the entry under the cursor.
func (m HistoryPageModel) Selected() (history.Entry, bool) {
	if len(m.entries) == 0 {
		return history.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// MoveUp moves the selection towards newer entries.
func (m *HistoryPageModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.UpdateContent()
	}
}

// MoveDown moves the selection towards older entries.
func (m *HistoryPageModel) MoveDown() {
	if m.cursor < len(m.entries)-1 {
		m.cursor++
		m.UpdateContent()
	}
}

// UpdateContent re-renders the viewport from the entries.
func (m *HistoryPageModel) UpdateContent() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(m.styles.Muted.Render("No history yet"))
		return
	}

	var sb strings.Builder
	for i, e := range m.entries {
		expr := m.styles.Muted.Render(e.Expr + " =")
		result := m.styles.Bold.Render(engine.FormatResult(e.Result))
		line := expr + "\n" + result
		if m.focused && i == m.cursor {
			line = m.styles.Selected.Render(e.Expr+" =") + "\n" + m.styles.Selected.Render(engine.FormatResult(e.Result))
		}
		sb.WriteString(line)
		if i < len(m.entries)-1 {
			sb.WriteString("\n")
		}
	}
	m.viewport.SetContent(sb.String())

	// Keep the selection visible; each entry takes two lines.
	top := m.cursor * 2
	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if bottom := top + 1; bottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}

// Update handles scrolling messages.
func (m HistoryPageModel) Update(msg tea.Msg) (HistoryPageModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m HistoryPageModel) View() string {
	title := m.styles.Title.Render("History")
	return title + "\n" + m.viewport.View()
}
