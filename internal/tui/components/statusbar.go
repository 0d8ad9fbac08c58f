package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// the latest message on the right. Errors are shown in red.
func RenderStatusBar(width int, message string, isErr, dirty bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	msgStyle := style.Foreground(t.TextPrimary)
	if isErr {
		msgStyle = style.Foreground(t.Red).Bold(true)
	}

	left := " [?]help  [s]ave  [q]uit"
	if dirty {
		left += "  " + style.Foreground(t.Orange).Render("● unsaved")
	}
	right := ""
	if message != "" {
		right = message + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left) +
		style.Render(strings.Repeat(" ", padding)) +
		msgStyle.Render(right)
}
