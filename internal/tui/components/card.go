// Package components provides reusable TUI widgets for the goalfund editor.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

// Metric is one headline figure shown in a MetricCard.
type Metric struct {
	Label string
	Value string
	Note  string
}

// LayoutRow splits totalWidth into n widths that sum to exactly totalWidth.
// Leading items take the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// frame is the rounded card border sized to an outer width.
func frame(outerWidth int, border lipgloss.Color) lipgloss.Style {
	inner := outerWidth - 2
	if inner < 10 {
		inner = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(inner).
		Padding(0, 1)
}

// MetricCard renders a label, a bold value and an optional note.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	body := lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label) + "\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true).Render(m.Value)
	if m.Note != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Note)
	}
	return frame(outerWidth, t.BorderAccent).Render(body)
}

// MetricCardRow lays metric cards side by side across totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders body under an optional muted title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	if title != "" {
		body = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true).Render(title) + "\n" + body
	}
	return frame(outerWidth, t.Border).Render(body)
}

// CardRow joins rendered cards horizontally, top-aligned.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the text width inside a ContentCard of outerWidth.
func CardInnerWidth(outerWidth int) int {
	if w := outerWidth - 4; w >= 10 {
		return w
	}
	return 10
}
