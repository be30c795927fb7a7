package tui

import (
	"strings"

	"calcnerd/cmd/calc/ui"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	header := m.styles.Header.Render("calcnerd")
	if badge := ui.RenderMemoryBadge(m.styles, m.memory.Recall()); badge != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", badge)
	}

	if m.showHelp {
		width := m.width
		if width == 0 {
			width = 80
		}
		return header + "\n" + ui.RenderHelp(m.styles.Theme, width) + m.footer()
	}

	op, _ := m.engine.Operation()
	calc := lipgloss.JoinVertical(lipgloss.Left,
		ui.RenderDisplay(m.styles, m.engine.Snapshot(), ui.DisplayWidth),
		m.styles.RenderDivider(ui.DisplayWidth),
		ui.RenderKeypad(m.styles, op),
	)
	calc = m.styles.Panel.Render(calc)
	hist := m.styles.Panel.Render(m.history.View())

	var body string
	if ui.SideBySide(m.width) {
		body = lipgloss.JoinHorizontal(lipgloss.Top, calc, " ", hist)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, calc, hist)
	}

	return header + "\n" + body + m.footer()
}

func (m Model) footer() string {
	var sb strings.Builder
	sb.WriteString("\n")
	if m.status != "" {
		style := m.styles.Muted
		if m.isError {
			style = m.styles.Error
		}
		sb.WriteString(m.styles.Footer.Render(style.Render(m.status)))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return sb.String()
}
