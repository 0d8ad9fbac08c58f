// Package projection computes what each goal still needs: the inflated
// future cost, the grown value of capital already allocated, and the
// lumpsum or monthly SIP that closes the gap.
package projection

import (
	"sort"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/schema"
)

// ProjectGoal computes the output row for one goal. The goal's allocations
// are looked up per source; a missing key counts as zero.
func ProjectGoal(g model.Goal, sources []model.Source) model.Row {
	tenure := TenureYears(g.Years, g.Months)

	row := model.Row{
		Goal:        g.Name,
		Priority:    g.Priority,
		TenureYears: tenure,
	}

	for _, s := range sources {
		row.ExistingToday += g.Allocations[s.Name]
	}
	row.ExistingToday = finite(row.ExistingToday)

	if tenure <= 0 {
		row.FutureCost = finite(g.CurrentCost)
		row.FVExisting = row.ExistingToday
		return row
	}

	row.FutureCost = finite(FutureValue(g.CurrentCost, g.InflationPct, tenure))
	for _, s := range sources {
		row.FVExisting += FutureValue(g.Allocations[s.Name], s.ROI, tenure)
	}
	row.FVExisting = finite(row.FVExisting)
	row.SIPFromZero = finite(MonthlySIP(row.FutureCost, g.NewROIPct, tenure))

	gap := row.FutureCost - row.FVExisting
	if gap <= 0 {
		return row
	}

	row.Shortfall = gap
	row.LumpsumToday = finite(PresentValue(gap, g.NewROIPct, tenure))
	row.SIPPerMonth = finite(MonthlySIP(gap, g.NewROIPct, tenure))
	return row
}

// Project reconciles the plan, projects every goal and returns rows sorted
// by priority (ties keep plan order) with unrounded totals.
func Project(p model.Plan) model.Projection {
	p = schema.Reconcile(p)

	rows := make([]model.Row, len(p.Goals))
	for i, g := range p.Goals {
		rows[i] = ProjectGoal(g, p.Sources)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Priority < rows[j].Priority
	})

	return model.Projection{
		Rows:   rows,
		Totals: Sum(rows),
	}
}

// Sum adds up the unrounded per-goal outputs. Round the result once, at
// display time.
func Sum(rows []model.Row) model.Totals {
	var t model.Totals
	for _, r := range rows {
		t.Existing += r.ExistingToday
		t.Lumpsum += r.LumpsumToday
		t.SIP += r.SIPPerMonth
	}
	return t
}

// SourceTotals returns the current allocation total of each source column,
// in source order.
func SourceTotals(p model.Plan) []float64 {
	totals := make([]float64, len(p.Sources))
	for i, s := range p.Sources {
		for _, g := range p.Goals {
			totals[i] += g.Allocations[s.Name]
		}
	}
	return totals
}
