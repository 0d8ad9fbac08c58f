package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/schema"
	"github.com/theirongolddev/goalfund/internal/tui/components"
	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

// sourcesState tracks the sources list cursor and rename editor.
type sourcesState struct {
	cursor   int
	renaming bool
	input    textinput.Model
}

func (a App) currentSource() (model.Source, bool) {
	if a.sources.cursor < 0 || a.sources.cursor >= len(a.plan.Sources) {
		return model.Source{}, false
	}
	return a.plan.Sources[a.sources.cursor], true
}

func (a App) updateSourcesKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		a.sources.cursor++
	case "k", "up":
		a.sources.cursor--
	case "enter", "r":
		s, ok := a.currentSource()
		if !ok {
			return a, nil
		}
		a.sources.renaming = true
		a.sources.input = newCellInput(s.Name)
		return a, textinput.Blink
	case "]", "[":
		s, ok := a.currentSource()
		if !ok {
			return a, nil
		}
		dir := 1
		if key == "[" {
			dir = -1
		}
		roi := cycleOption(model.ROIOptions, s.ROI, dir)
		p, err := schema.SetSourceROI(a.plan, s.Name, roi)
		a.apply(p, err, fmt.Sprintf("%s ROI %s", s.Name, cli.FormatRate(roi)))
	case "D":
		s, ok := a.currentSource()
		if !ok {
			return a, nil
		}
		a.apply(schema.DeleteSource(a.plan, s.Name), nil, fmt.Sprintf("deleted source %q", s.Name))
	}
	a.clampCursors()
	return a, nil
}

func (a App) addSource() (tea.Model, tea.Cmd) {
	p, s, err := schema.AddSource(a.plan, "", a.opts.Defaults)
	a.apply(p, err, fmt.Sprintf("added source %q", s.Name))
	if err == nil {
		a.activeTab = tabSources
		a.sources.cursor = len(a.plan.Sources) - 1
	}
	return a, nil
}

func (a App) updateSourceRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.sources.renaming = false
		s, ok := a.currentSource()
		if !ok {
			return a, nil
		}
		name := strings.TrimSpace(a.sources.input.Value())
		if name == s.Name {
			return a, nil
		}
		p, err := schema.RenameSource(a.plan, s.Name, name)
		a.apply(p, err, fmt.Sprintf("renamed %q to %q", s.Name, name))
		return a, nil
	case "esc":
		a.sources.renaming = false
		return a, nil
	}

	var cmd tea.Cmd
	a.sources.input, cmd = a.sources.input.Update(msg)
	return a, cmd
}

func (a App) renderSourcesTab(cw int) string {
	t := theme.Active
	f := a.opts.Formatter

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	cursorStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)

	if len(a.plan.Sources) == 0 {
		return dimStyle.Render("\n  No sources yet. Press A to add one.")
	}

	nameW := 24
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n",
		headerStyle.Render(fmt.Sprintf("%-*s", nameW, "Source")),
		headerStyle.Render(fmt.Sprintf("%6s", "ROI")),
		headerStyle.Render(fmt.Sprintf("%16s", "Allocated")))

	totals := projection.SourceTotals(a.plan)
	labels := make([]string, len(a.plan.Sources))
	for i, s := range a.plan.Sources {
		labels[i] = s.Name
		style := cellStyle
		if i == a.sources.cursor {
			style = cursorStyle
		}
		name := fmt.Sprintf("%-*s", nameW, truncStr(s.Name, nameW))
		if i == a.sources.cursor && a.sources.renaming {
			name = a.sources.input.View()
			if pad := nameW - lipgloss.Width(name); pad > 0 {
				name += strings.Repeat(" ", pad)
			}
		} else {
			name = style.Render(name)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			name,
			style.Render(fmt.Sprintf("%6s", cli.FormatRate(s.ROI))),
			style.Render(fmt.Sprintf("%16s", f.Amount(projection.RoundCurrency(totals[i])))))
	}

	barW := cw - 4
	if barW > 100 {
		barW = 100
	}
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Allocated by source",
		components.HorizontalBars(labels, totals, components.CardInnerWidth(barW), func(v float64) string {
			return f.Amount(projection.RoundCurrency(v))
		}), barW))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  enter rename · [ ] cycle ROI · D delete · A add"))
	return b.String()
}
