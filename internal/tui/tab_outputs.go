package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/tui/components"
	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

func (a App) updateOutputsKeys(key string) (tea.Model, tea.Cmd) {
	if key == "d" {
		a.showDetail = !a.showDetail
	}
	return a, nil
}

func (a App) renderOutputsTab(cw int) string {
	t := theme.Active
	f := a.opts.Formatter

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	sipStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	rt := projection.RoundTotals(a.proj.Totals)
	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Existing today", Value: f.Money(rt.Existing), Note: fmt.Sprintf("%d goals", len(a.plan.Goals))},
		{Label: "Lumpsum today", Value: f.Money(rt.Lumpsum), Note: "to invest now"},
		{Label: "Monthly SIP", Value: f.Money(rt.SIP), Note: "or invest monthly"},
	}, cw))
	b.WriteString("\n")

	if len(a.proj.Rows) == 0 {
		b.WriteString(dimStyle.Render("\n  No goals to project."))
		return b.String()
	}

	nameW, amtW, barW := 18, 14, 16
	cols := []string{"Future Cost", "FV Existing", "Lumpsum", "SIP / mo"}
	if a.showDetail {
		cols = append(cols, "Shortfall", "SIP from 0")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", nameW, "Goal")))
	for _, c := range cols {
		b.WriteString(" ")
		b.WriteString(headerStyle.Render(fmt.Sprintf("%*s", amtW, c)))
	}
	b.WriteString(" ")
	b.WriteString(headerStyle.Render("Funded"))
	b.WriteString("\n")

	labels := make([]string, len(a.proj.Rows))
	sips := make([]float64, len(a.proj.Rows))
	lumpsums := make([]float64, len(a.proj.Rows))
	for i, row := range a.proj.Rows {
		rr := projection.Round(row)
		labels[i] = row.Goal
		sips[i] = row.SIPPerMonth
		lumpsums[i] = row.LumpsumToday

		values := []int64{rr.FutureCost, rr.FVExisting, rr.LumpsumToday, rr.SIPPerMonth}
		if a.showDetail {
			values = append(values, rr.Shortfall, rr.SIPFromZero)
		}

		name := truncStr(row.Goal, nameW)
		b.WriteString(cellStyle.Render(fmt.Sprintf("%-*s", nameW+len(name)-lipgloss.Width(name), name)))
		for j, v := range values {
			style := cellStyle
			if j == 3 {
				style = sipStyle
			}
			b.WriteString(" ")
			b.WriteString(style.Render(fmt.Sprintf("%*s", amtW, f.Amount(v))))
		}
		b.WriteString(" ")
		b.WriteString(components.FundedBar(row.FundedRatio(), barW))
		b.WriteString("\n")
	}

	chartW := cw - 4
	if chartW > 140 {
		chartW = 140
	}
	amount := func(v float64) string { return f.Amount(projection.RoundCurrency(v)) }
	widths := components.LayoutRow(chartW, 2)
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Monthly SIP by goal",
			components.HorizontalBars(labels, sips, components.CardInnerWidth(widths[0]), amount), widths[0]),
		components.ContentCard("Lumpsum today by goal",
			components.HorizontalBars(labels, lumpsums, components.CardInnerWidth(widths[1]), amount), widths[1]),
	}))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  d toggle detail"))
	return b.String()
}
