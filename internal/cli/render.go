package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	fundedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	partialStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// separatorRow marks a horizontal rule between table rows.
const separatorRow = "---"

// Table represents a bordered text table for CLI output. Numeric columns
// are right-aligned; a row whose first cell is "Total" is drawn bold.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil

	// LeftAlign marks extra text columns; column 0 is always left-aligned.
	LeftAlign map[int]bool
}

func (t Table) columns() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

func (t Table) widths() []int {
	widths := make([]int, t.columns())
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	grow := func(cells []string) {
		for i, c := range cells {
			if i < len(widths) && lipgloss.Width(c) > widths[i] {
				widths[i] = lipgloss.Width(c)
			}
		}
	}
	grow(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) {
			grow(row)
		}
	}
	return widths
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == separatorRow
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(64).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	n := t.columns()
	if n == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╭", "┬", "╮")
	if len(t.Headers) > 0 {
		writeCells(&b, t.Headers, widths, func(int) bool { return true }, headerStyle)
		writeRule(&b, widths, "├", "┼", "┤")
	}

	leftAligned := func(i int) bool { return i == 0 || t.LeftAlign[i] }
	for _, row := range t.Rows {
		switch {
		case isSeparator(row):
			writeRule(&b, widths, "├", "┼", "┤")
		case len(row) > 0 && row[0] == "Total":
			writeCells(&b, row, widths, leftAligned, totalStyle)
		default:
			writeCells(&b, row, widths, leftAligned, valueStyle)
		}
	}
	writeRule(&b, widths, "╰", "┴", "╯")

	return b.String()
}

func writeRule(b *strings.Builder, widths []int, left, mid, right string) {
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = strings.Repeat("─", w+2)
	}
	b.WriteString(dimStyle.Render(left + strings.Join(segs, mid) + right))
	b.WriteString("\n")
}

func writeCells(b *strings.Builder, cells []string, widths []int, left func(int) bool, style lipgloss.Style) {
	bar := dimStyle.Render("│")
	b.WriteString(bar)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(style.Render(" " + pad(cell, w, left(i)) + " "))
		b.WriteString(bar)
	}
	b.WriteString("\n")
}

// pad fills s to w display cells.
func pad(s string, w int, left bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if left {
		return s + strings.Repeat(" ", gap)
	}
	return strings.Repeat(" ", gap) + s
}

// RenderFundedBar renders how much of a goal's future cost existing money
// already covers.
func RenderFundedBar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(width))
	style := partialStyle
	if ratio >= 1 {
		style = fundedStyle
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return style.Render(bar) + " " + mutedStyle.Render(FormatPercent(ratio))
}
