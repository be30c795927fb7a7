// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants
const (
	// Keypad
	KeyWidth   = 7
	KeyGap     = 1
	KeyColumns = 4

	// Panels
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	// Display width covers the keypad row exactly.
	DisplayWidth = KeyColumns*KeyWidth + (KeyColumns-1)*KeyGap

	// History page
	HistoryMinWidth  = 28
	HistoryMinHeight = 6

	// Responsive breakpoints
	SideBySideWidth = 72
)

// PanelContentWidth returns the content width inside a bordered panel
func PanelContentWidth(panelWidth int) int {
	return panelWidth - (PanelBorderWidth * 2) - (PanelPaddingH * 2)
}

// SideBySide reports whether the keypad and history fit next to each other.
func SideBySide(terminalWidth int) bool {
	return terminalWidth >= SideBySideWidth
}
