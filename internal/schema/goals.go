package schema

import (
	"fmt"

	"github.com/theirongolddev/goalfund/internal/model"
)

// Reconcile makes every goal's allocations match the source list exactly:
// missing sources are added as zero, unknown keys are dropped. It is
// idempotent and safe to call after any change.
func Reconcile(p model.Plan) model.Plan {
	out := p.Clone()
	known := make(map[string]struct{}, len(out.Sources))
	for _, s := range out.Sources {
		known[s.Name] = struct{}{}
	}

	for i := range out.Goals {
		g := &out.Goals[i]
		if g.Allocations == nil {
			g.Allocations = make(map[string]float64, len(out.Sources))
		}
		for name := range g.Allocations {
			if _, ok := known[name]; !ok {
				delete(g.Allocations, name)
			}
		}
		for _, s := range out.Sources {
			if _, ok := g.Allocations[s.Name]; !ok {
				g.Allocations[s.Name] = 0
			}
		}
	}
	return out
}

// AddGoal appends a goal named "Goal N" with the next free priority,
// the supplied default rates and a zero allocation for every source.
func AddGoal(p model.Plan, d model.Defaults) (model.Plan, model.Goal) {
	names := make([]string, len(p.Goals))
	maxPriority := 0
	for i, g := range p.Goals {
		names[i] = g.Name
		if g.Priority > maxPriority {
			maxPriority = g.Priority
		}
	}

	g := model.Goal{
		Name:         nextName(names, "Goal", len(p.Goals)+1),
		Priority:     maxPriority + 1,
		InflationPct: d.InflationPct,
		NewROIPct:    d.NewROIPct,
		Allocations:  make(map[string]float64, len(p.Sources)),
	}
	for _, s := range p.Sources {
		g.Allocations[s.Name] = 0
	}

	out := p.Clone()
	out.Goals = append(out.Goals, g)
	return Reconcile(out), g.Clone()
}

// DeleteGoal removes the first goal with the given name. An unknown name
// returns the plan unchanged.
func DeleteGoal(p model.Plan, name string) model.Plan {
	idx := p.GoalIndex(name)
	if idx < 0 {
		return p
	}
	out := p.Clone()
	out.Goals = append(out.Goals[:idx], out.Goals[idx+1:]...)
	return out
}

// UpdateGoal applies edit to a copy of the named goal. The edited goal
// must keep a non-blank name that no other goal uses. Months of 12 or
// more roll over into years and negative tenure parts are clamped.
func UpdateGoal(p model.Plan, name string, edit func(g *model.Goal)) (model.Plan, error) {
	idx := p.GoalIndex(name)
	if idx < 0 {
		return p, fmt.Errorf("updating goal %q: %w", name, ErrGoalNotFound)
	}

	out := p.Clone()
	g := out.Goals[idx]
	edit(&g)

	if isBlank(g.Name) {
		return p, fmt.Errorf("updating goal %q: %w", name, ErrInvalidName)
	}
	if g.Name != name {
		if other := p.GoalIndex(g.Name); other >= 0 && other != idx {
			return p, fmt.Errorf("renaming goal %q to %q: %w", name, g.Name, ErrDuplicateName)
		}
	}
	NormalizeTenure(&g)

	out.Goals[idx] = g
	return Reconcile(out), nil
}

// SetAllocation sets the amount a goal draws from one source.
func SetAllocation(p model.Plan, goal, source string, amount float64) (model.Plan, error) {
	if p.SourceIndex(source) < 0 {
		return p, fmt.Errorf("allocating %q to %q: %w", source, goal, ErrSourceNotFound)
	}
	return UpdateGoal(p, goal, func(g *model.Goal) {
		if g.Allocations == nil {
			g.Allocations = make(map[string]float64)
		}
		g.Allocations[source] = amount
	})
}

// NormalizeTenure carries whole years out of Months and clamps both
// fields at zero.
func NormalizeTenure(g *model.Goal) {
	if g.Months >= 12 {
		g.Years += g.Months / 12
		g.Months %= 12
	}
	if g.Months < 0 {
		g.Months = 0
	}
	if g.Years < 0 {
		g.Years = 0
	}
}

// GoalPatch lists goal fields to change; nil fields are left alone.
type GoalPatch struct {
	Name         *string            `json:"name,omitempty"`
	Priority     *int               `json:"priority,omitempty"`
	CurrentCost  *float64           `json:"current_cost,omitempty"`
	Years        *int               `json:"years,omitempty"`
	Months       *int               `json:"months,omitempty"`
	InflationPct *float64           `json:"inflation_pct,omitempty"`
	NewROIPct    *float64           `json:"new_roi_pct,omitempty"`
	Allocations  map[string]float64 `json:"allocations,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (gp GoalPatch) IsEmpty() bool {
	return gp.Name == nil && gp.Priority == nil && gp.CurrentCost == nil &&
		gp.Years == nil && gp.Months == nil && gp.InflationPct == nil &&
		gp.NewROIPct == nil && len(gp.Allocations) == 0
}

// PatchGoal applies every set field of gp to the named goal in one step.
// Allocations naming an unknown source fail the whole patch.
func PatchGoal(p model.Plan, name string, gp GoalPatch) (model.Plan, error) {
	for src := range gp.Allocations {
		if p.SourceIndex(src) < 0 {
			return p, fmt.Errorf("allocating %q to %q: %w", src, name, ErrSourceNotFound)
		}
	}
	return UpdateGoal(p, name, func(g *model.Goal) {
		if gp.Name != nil {
			g.Name = *gp.Name
		}
		if gp.Priority != nil {
			g.Priority = *gp.Priority
		}
		if gp.CurrentCost != nil {
			g.CurrentCost = *gp.CurrentCost
		}
		if gp.Years != nil {
			g.Years = *gp.Years
		}
		if gp.Months != nil {
			g.Months = *gp.Months
		}
		if gp.InflationPct != nil {
			g.InflationPct = *gp.InflationPct
		}
		if gp.NewROIPct != nil {
			g.NewROIPct = *gp.NewROIPct
		}
		if len(gp.Allocations) > 0 && g.Allocations == nil {
			g.Allocations = make(map[string]float64, len(gp.Allocations))
		}
		for src, amount := range gp.Allocations {
			g.Allocations[src] = amount
		}
	})
}
