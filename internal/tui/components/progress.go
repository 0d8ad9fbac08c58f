package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

// FundedBar renders how much of a goal existing money covers, coloured by
// theme.FundedColor, followed by the percentage.
func FundedBar(ratio float64, width int) string {
	t := theme.Active

	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	if width < 4 {
		width = 4
	}

	color := t.FundedColor(ratio)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return bar.ViewAs(ratio) + " " + pctStyle.Render(fmt.Sprintf("%3.0f%%", ratio*100))
}
