package ui

import (
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown is the key reference shown by the help overlay and
// `calc --help` long text.
const HelpMarkdown = `# calcnerd

| Key | Action |
|-----|--------|
| 0-9 . | enter digits |
| + - * / | choose operation |
| Enter = | compute |
| Backspace | delete last digit |
| Esc | clear |
| n | negate |
| % | percent |
| r | square root |
| s | square |
| i | reciprocal |
| m / M | memory add / subtract |
| R / C | memory recall / clear |
| c | copy result |
| e | export history |
| H | clear history |
| t | toggle theme |
| tab | focus history (up/down, Enter to reuse) |
| ? | toggle help |
| q ctrl+c | quit |
`

// NewRenderer builds the markdown renderer for the theme.
func NewRenderer(theme Theme, width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	if theme.IsDark {
		return glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(width),
		)
	}
	return glamour.NewTermRenderer(
		glamour.WithStylePath("light"),
		glamour.WithWordWrap(width),
	)
}

// RenderHelp renders HelpMarkdown, falling back to the raw markdown when
// rendering fails.
func RenderHelp(theme Theme, width int) string {
	r, err := NewRenderer(theme, width)
	if err != nil {
		return HelpMarkdown
	}
	out, err := r.Render(HelpMarkdown)
	if err != nil {
		return HelpMarkdown
	}
	return out
}
