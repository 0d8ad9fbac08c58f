package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/schema"
)

// goalFormValues holds form-bound values for the whole-goal editor.
type goalFormValues struct {
	target    string
	name      string
	cost      string
	years     string
	months    int
	inflation float64
	newROI    float64
}

func newGoalFormValues(g model.Goal) *goalFormValues {
	return &goalFormValues{
		target:    g.Name,
		name:      g.Name,
		cost:      strconv.FormatFloat(g.CurrentCost, 'f', -1, 64),
		years:     strconv.Itoa(g.Years),
		months:    g.Months,
		inflation: g.InflationPct,
		newROI:    g.NewROIPct,
	}
}

// patch converts the form values into a GoalPatch. Inputs are validated by
// the form, so parse errors here mean the form was bypassed.
func (v *goalFormValues) patch() (schema.GoalPatch, error) {
	cost, err := parseAmount(v.cost)
	if err != nil {
		return schema.GoalPatch{}, err
	}
	years, err := parseWhole(v.years)
	if err != nil {
		return schema.GoalPatch{}, err
	}
	name := strings.TrimSpace(v.name)
	months, inflation, roi := v.months, v.inflation, v.newROI
	return schema.GoalPatch{
		Name:         &name,
		CurrentCost:  &cost,
		Years:        &years,
		Months:       &months,
		InflationPct: &inflation,
		NewROIPct:    &roi,
	}, nil
}

// rateOptions offers opts, plus cur when it is a custom value.
func rateOptions(opts []float64, cur float64) []huh.Option[float64] {
	out := make([]huh.Option[float64], 0, len(opts)+1)
	found := false
	for _, o := range opts {
		if o == cur {
			found = true
		}
		out = append(out, huh.NewOption(cli.FormatRate(o), o))
	}
	if !found {
		out = append(out, huh.NewOption(cli.FormatRate(cur)+" (custom)", cur))
	}
	return out
}

func newGoalForm(v *goalFormValues) *huh.Form {
	months := make([]huh.Option[int], 12)
	for m := range months {
		months[m] = huh.NewOption(strconv.Itoa(m), m)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal name").
				Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be blank")
					}
					return nil
				}),
			huh.NewInput().
				Title("Current cost").
				Value(&v.cost).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),
			huh.NewInput().
				Title("Years").
				Value(&v.years).
				Validate(func(s string) error {
					n, err := parseWhole(s)
					if err != nil {
						return err
					}
					if n < 0 {
						return fmt.Errorf("years cannot be negative")
					}
					return nil
				}),
			huh.NewSelect[int]().
				Title("Months").
				Options(months...).
				Value(&v.months),
		),
		huh.NewGroup(
			huh.NewSelect[float64]().
				Title("Inflation").
				Options(rateOptions(model.InflationOptions, v.inflation)...).
				Value(&v.inflation),
			huh.NewSelect[float64]().
				Title("Return on new investments").
				Options(rateOptions(model.ROIOptions, v.newROI)...).
				Value(&v.newROI),
		),
	).WithShowHelp(false)
}

func (a App) openGoalForm() (tea.Model, tea.Cmd) {
	g, ok := a.currentGoal()
	if !ok {
		return a, nil
	}
	a.formVals = newGoalFormValues(g)
	a.form = newGoalForm(a.formVals)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateGoalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		a.closeGoalForm()
		a.setStatus("edit cancelled", false)
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		vals := a.formVals
		a.closeGoalForm()
		patch, err := vals.patch()
		if err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		p, err := schema.PatchGoal(a.plan, vals.target, patch)
		a.apply(p, err, fmt.Sprintf("%s updated", *patch.Name))
		return a, nil
	case huh.StateAborted:
		a.closeGoalForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeGoalForm() {
	a.form = nil
	a.formVals = nil
}
