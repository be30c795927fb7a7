package ui

import (
	"strings"

	"calcnerd/internal/engine"

	"github.com/charmbracelet/lipgloss"
)

// KeypadLayout lists the on-screen buttons row by row. Labels double as
// the legend for the keyboard bindings.
var KeypadLayout = [][]string{
	{"MC", "MR", "M+", "M-"},
	{"%", "√x", "x²", "1/x"},
	{"C", "⌫", "±", "÷"},
	{"7", "8", "9", "×"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", ".", "=", ""},
}

func isOperatorLabel(label string) bool {
	switch label {
	case "+", "-", "×", "÷", "=":
		return true
	}
	return false
}

// RenderKeypad draws the keypad. The button for the pending operation, if
// any, is highlighted.
func RenderKeypad(s Styles, pending engine.Op) string {
	rows := make([]string, 0, len(KeypadLayout))
	gap := strings.Repeat(" ", KeyGap)
	for _, row := range KeypadLayout {
		cells := make([]string, 0, len(row)*2)
		for i, label := range row {
			if i > 0 {
				cells = append(cells, gap)
			}
			style := s.Key
			switch {
			case pending != "" && label == string(pending):
				style = s.ActiveKey
			case isOperatorLabel(label):
				style = s.OperatorKey
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderDisplay draws the two display lines: the previous operand with its
// operator above the current operand. width is the content width.
func RenderDisplay(s Styles, snap engine.Snapshot, width int) string {
	if width < 1 {
		width = DisplayWidth
	}
	current, previous := snap.Display()

	currentStyle := s.Current
	if snap.Kind == engine.KindError {
		currentStyle = s.ErrorDisplay
	}
	// Keep an empty previous line so the layout does not jump.
	if previous == "" {
		previous = " "
	}
	return lipgloss.JoinVertical(lipgloss.Right,
		s.Previous.Width(width).Render(previous),
		currentStyle.Width(width).Render(current),
	)
}

// RenderMemoryBadge shows "M" when the memory register is non-zero.
func RenderMemoryBadge(s Styles, value float64) string {
	if value == 0 {
		return ""
	}
	return s.Badge.Render("M")
}
