package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/schema"
	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

// Goal grid columns; source columns follow colFirstSource in plan order.
const (
	colName = iota
	colPriority
	colCost
	colYears
	colMonths
	colInflation
	colNewROI
	colFirstSource
)

var goalHeaders = []string{"Goal", "Prio", "Current Cost", "Years", "Months", "Infl %", "ROI %"}

// goalsState tracks the goals grid cursor and inline editor.
type goalsState struct {
	row     int
	col     int
	editing bool
	input   textinput.Model
}

func goalColumnCount(p model.Plan) int {
	return colFirstSource + len(p.Sources)
}

func isSelectColumn(col int) bool {
	return col == colMonths || col == colInflation || col == colNewROI
}

func (a App) currentGoal() (model.Goal, bool) {
	if a.goals.row < 0 || a.goals.row >= len(a.plan.Goals) {
		return model.Goal{}, false
	}
	return a.plan.Goals[a.goals.row], true
}

func (a App) updateGoalsKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		a.goals.row++
	case "k", "up":
		a.goals.row--
	case "l", "right":
		a.goals.col++
	case "h", "left":
		a.goals.col--
	case "g":
		a.goals.row = 0
	case "G":
		a.goals.row = len(a.plan.Goals) - 1
	case "]":
		a.cycleGoalCell(1)
	case "[":
		a.cycleGoalCell(-1)
	case "enter":
		if isSelectColumn(a.goals.col) {
			a.cycleGoalCell(1)
			return a, nil
		}
		return a.startGoalCellEdit()
	case "e":
		return a.openGoalForm()
	case "D":
		g, ok := a.currentGoal()
		if !ok {
			return a, nil
		}
		a.apply(schema.DeleteGoal(a.plan, g.Name), nil, fmt.Sprintf("deleted goal %q", g.Name))
	}
	a.clampCursors()
	return a, nil
}

func (a App) addGoal() (tea.Model, tea.Cmd) {
	p, g := schema.AddGoal(a.plan, a.opts.Defaults)
	a.apply(p, nil, fmt.Sprintf("added goal %q", g.Name))
	a.activeTab = tabGoals
	a.goals.row = len(a.plan.Goals) - 1
	a.goals.col = colName
	return a, nil
}

// goalCellText is the raw, unformatted value used to seed the editor.
func goalCellText(p model.Plan, g model.Goal, col int) string {
	switch col {
	case colName:
		return g.Name
	case colPriority:
		return strconv.Itoa(g.Priority)
	case colCost:
		return strconv.FormatFloat(g.CurrentCost, 'f', -1, 64)
	case colYears:
		return strconv.Itoa(g.Years)
	case colMonths:
		return strconv.Itoa(g.Months)
	case colInflation:
		return strconv.FormatFloat(g.InflationPct, 'f', -1, 64)
	case colNewROI:
		return strconv.FormatFloat(g.NewROIPct, 'f', -1, 64)
	}
	if idx := col - colFirstSource; idx >= 0 && idx < len(p.Sources) {
		return strconv.FormatFloat(g.Allocations[p.Sources[idx].Name], 'f', -1, 64)
	}
	return ""
}

func (a App) startGoalCellEdit() (tea.Model, tea.Cmd) {
	g, ok := a.currentGoal()
	if !ok {
		return a, nil
	}
	a.goals.editing = true
	a.goals.input = newCellInput(goalCellText(a.plan, g, a.goals.col))
	return a, textinput.Blink
}

func (a App) updateGoalCellInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.goals.editing = false
		a.commitGoalCell(a.goals.input.Value())
		return a, nil
	case "esc":
		a.goals.editing = false
		a.setStatus("", false)
		return a, nil
	}

	var cmd tea.Cmd
	a.goals.input, cmd = a.goals.input.Update(msg)
	return a, cmd
}

// commitGoalCell parses raw for the cursor column and applies it.
func (a *App) commitGoalCell(raw string) {
	g, ok := a.currentGoal()
	if !ok {
		return
	}
	col := a.goals.col

	if idx := col - colFirstSource; idx >= 0 {
		if idx >= len(a.plan.Sources) {
			return
		}
		v, err := parseAmount(raw)
		if err != nil {
			a.setStatus(err.Error(), true)
			return
		}
		src := a.plan.Sources[idx].Name
		p, err := schema.SetAllocation(a.plan, g.Name, src, v)
		a.apply(p, err, fmt.Sprintf("%s: %s set", g.Name, src))
		return
	}

	var patch schema.GoalPatch
	switch col {
	case colName:
		name := strings.TrimSpace(raw)
		patch.Name = &name
	case colPriority, colYears, colMonths:
		n, err := parseWhole(raw)
		if err != nil {
			a.setStatus(err.Error(), true)
			return
		}
		switch col {
		case colPriority:
			patch.Priority = &n
		case colYears:
			patch.Years = &n
		default:
			patch.Months = &n
		}
	case colCost, colInflation, colNewROI:
		v, err := parseAmount(raw)
		if err != nil {
			a.setStatus(err.Error(), true)
			return
		}
		switch col {
		case colCost:
			patch.CurrentCost = &v
		case colInflation:
			patch.InflationPct = &v
		default:
			patch.NewROIPct = &v
		}
	}

	p, err := schema.PatchGoal(a.plan, g.Name, patch)
	a.apply(p, err, fmt.Sprintf("%s updated", g.Name))
}

// cycleGoalCell steps a months or rate cell through its options.
func (a *App) cycleGoalCell(dir int) {
	g, ok := a.currentGoal()
	if !ok || !isSelectColumn(a.goals.col) {
		return
	}

	var patch schema.GoalPatch
	switch a.goals.col {
	case colMonths:
		m := ((g.Months+dir)%12 + 12) % 12
		patch.Months = &m
	case colInflation:
		v := cycleOption(model.InflationOptions, g.InflationPct, dir)
		patch.InflationPct = &v
	case colNewROI:
		v := cycleOption(model.ROIOptions, g.NewROIPct, dir)
		patch.NewROIPct = &v
	}
	p, err := schema.PatchGoal(a.plan, g.Name, patch)
	a.apply(p, err, fmt.Sprintf("%s updated", g.Name))
}

// cycleOption returns the option after (dir > 0) or before cur, wrapping.
// A value between options moves to the nearest option in that direction.
func cycleOption(options []float64, cur float64, dir int) float64 {
	if len(options) == 0 {
		return cur
	}
	if dir >= 0 {
		for _, o := range options {
			if o > cur {
				return o
			}
		}
		return options[0]
	}
	for i := len(options) - 1; i >= 0; i-- {
		if options[i] < cur {
			return options[i]
		}
	}
	return options[len(options)-1]
}

func parseAmount(raw string) (float64, error) {
	s := strings.NewReplacer(",", "", "_", "", " ", "").Replace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}

func parseWhole(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return n, nil
}

func goalColumnWidths(p model.Plan) []int {
	widths := []int{18, 5, 14, 6, 7, 7, 7}
	for _, s := range p.Sources {
		w := lipgloss.Width(s.Name)
		if w < 12 {
			w = 12
		}
		if w > 16 {
			w = 16
		}
		widths = append(widths, w)
	}
	return widths
}

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	f := a.opts.Formatter

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	cursorStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)

	widths := goalColumnWidths(a.plan)
	headers := append(append([]string{}, goalHeaders...), a.plan.SourceNames()...)

	cell := func(s string, w, col int) string {
		s = truncStr(s, w)
		if col == colName {
			return fmt.Sprintf("%-*s", w+len(s)-lipgloss.Width(s), s)
		}
		return fmt.Sprintf("%*s", w+len(s)-lipgloss.Width(s), s)
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(headerStyle.Render(cell(h, widths[i], i)))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	if len(a.plan.Goals) == 0 {
		b.WriteString(dimStyle.Render("\n  No goals yet. Press a to add one."))
		return b.String()
	}

	for r, g := range a.plan.Goals {
		values := []string{
			g.Name,
			strconv.Itoa(g.Priority),
			f.Amount(projection.RoundCurrency(g.CurrentCost)),
			strconv.Itoa(g.Years),
			strconv.Itoa(g.Months),
			cli.FormatRate(g.InflationPct),
			cli.FormatRate(g.NewROIPct),
		}
		for _, s := range a.plan.Sources {
			values = append(values, f.Amount(projection.RoundCurrency(g.Allocations[s.Name])))
		}

		for c, v := range values {
			var rendered string
			switch {
			case r == a.goals.row && c == a.goals.col && a.goals.editing:
				rendered = a.goals.input.View()
				if pad := widths[c] - lipgloss.Width(rendered); pad > 0 {
					rendered += strings.Repeat(" ", pad)
				}
			case r == a.goals.row && c == a.goals.col:
				rendered = cursorStyle.Render(cell(v, widths[c], c))
			case r == a.goals.row:
				rendered = rowStyle.Render(cell(v, widths[c], c))
			default:
				rendered = cellStyle.Render(cell(v, widths[c], c))
			}
			b.WriteString(rendered)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	if len(a.plan.Sources) > 0 {
		var sep int
		for _, w := range widths {
			sep += w + 1
		}
		if sep > cw {
			sep = cw
		}
		b.WriteString(dimStyle.Render(strings.Repeat("─", sep)))
		b.WriteString("\n")
		b.WriteString(totalStyle.Render(cell("Total", widths[0], colName)))
		b.WriteString(" ")
		for i := 1; i < colFirstSource; i++ {
			b.WriteString(strings.Repeat(" ", widths[i]+1))
		}
		for i, v := range projection.SourceTotals(a.plan) {
			b.WriteString(totalStyle.Render(cell(f.Amount(projection.RoundCurrency(v)), widths[colFirstSource+i], colFirstSource+i)))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	if g, ok := a.currentGoal(); ok && a.goals.row < len(a.plan.Goals) {
		row := projection.ProjectGoal(g, a.plan.Sources)
		rr := projection.Round(row)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s · future cost %s · SIP %s/mo · lumpsum %s",
			g.Name, f.Money(rr.FutureCost), f.Money(rr.SIPPerMonth), f.Money(rr.LumpsumToday))))
	}

	return b.String()
}
