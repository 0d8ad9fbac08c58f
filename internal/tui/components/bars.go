package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

// HorizontalBars renders one labelled bar per value, scaled to the largest.
// format renders the value printed after each bar.
func HorizontalBars(labels []string, values []float64, width int, format func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelW {
			labelW = w
		}
	}
	if labelW > 20 {
		labelW = 20
	}

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	barMax := width - labelW - 16
	if barMax < 5 {
		barMax = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(labelW)
	barStyle := lipgloss.NewStyle().Foreground(t.Blue)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = truncate(labels[i], labelW)
		}
		n := 0
		if peak > 0 && v > 0 {
			n = int(v / peak * float64(barMax))
			if n == 0 {
				n = 1
			}
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat("█", n)))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(format(v)))
		if i < len(values)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
