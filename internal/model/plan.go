// Package model defines the domain types for goalfund plans and projections.
package model

// InflationOptions are the inflation rates offered by the editors.
var InflationOptions = []float64{0, 4, 6, 8, 10, 12, 15}

// ROIOptions are the annual return rates offered for sources and new contributions.
var ROIOptions = []float64{0, 4, 6, 8, 10, 12, 15, 18, 20}

// Column names of the base goal fields in a goal record. Source names
// share the record with them and may not reuse any of these.
const (
	ColGoal      = "Goal"
	ColPriority  = "Priority"
	ColCost      = "Current Cost"
	ColYears     = "Years"
	ColMonths    = "Months"
	ColInflation = "Inflation %"
	ColNewROI    = "New SIP ROI %"
)

// BaseColumns lists the base fields in the order they are written.
var BaseColumns = []string{ColGoal, ColPriority, ColCost, ColYears, ColMonths, ColInflation, ColNewROI}

// IsBaseColumn reports whether name is one of BaseColumns.
func IsBaseColumn(name string) bool {
	for _, c := range BaseColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Source is a named pool of existing capital with its own expected return.
type Source struct {
	Name string  `json:"name" yaml:"name"`
	ROI  float64 `json:"roi" yaml:"roi"` // whole-number percent, 8 means 8%
}

// Goal is one savings target in the plan.
type Goal struct {
	Name         string
	Priority     int // lower sorts first
	CurrentCost  float64
	Years        int
	Months       int // 0-11
	InflationPct float64
	NewROIPct    float64 // expected return on new lumpsum/SIP money

	// Allocations maps source name to the amount of that source earmarked
	// for this goal. Keys always match the plan's source names once reconciled.
	Allocations map[string]float64
}

// Plan is the full editable state: sources are the dynamic columns, goals the rows.
type Plan struct {
	Sources []Source
	Goals   []Goal
}

// Defaults holds the values applied to newly created goals and sources.
type Defaults struct {
	InflationPct float64
	NewROIPct    float64
	SourceROI    float64
}

// DefaultDefaults returns the stock defaults for new rows and columns.
func DefaultDefaults() Defaults {
	return Defaults{
		InflationPct: 8,
		NewROIPct:    10,
		SourceROI:    8,
	}
}

// Clone returns a deep copy; allocation maps are never shared between plans.
func (p Plan) Clone() Plan {
	out := Plan{}
	if p.Sources != nil {
		out.Sources = make([]Source, len(p.Sources))
		copy(out.Sources, p.Sources)
	}
	if p.Goals != nil {
		out.Goals = make([]Goal, len(p.Goals))
		for i, g := range p.Goals {
			out.Goals[i] = g.Clone()
		}
	}
	return out
}

// Clone returns a copy of the goal with its own allocation map.
func (g Goal) Clone() Goal {
	cp := g
	if g.Allocations != nil {
		cp.Allocations = make(map[string]float64, len(g.Allocations))
		for k, v := range g.Allocations {
			cp.Allocations[k] = v
		}
	}
	return cp
}

// SourceNames returns source names in plan order.
func (p Plan) SourceNames() []string {
	names := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		names[i] = s.Name
	}
	return names
}

// SourceIndex returns the index of the named source, or -1.
func (p Plan) SourceIndex(name string) int {
	for i, s := range p.Sources {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// GoalIndex returns the index of the first goal with the given name, or -1.
func (p Plan) GoalIndex(name string) int {
	for i, g := range p.Goals {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// SamplePlan returns the starter plan shown on first launch.
func SamplePlan() Plan {
	return Plan{
		Sources: []Source{
			{Name: "Cash", ROI: 0},
			{Name: "Bank", ROI: 4},
		},
		Goals: []Goal{
			{
				Name:         "Marriage Fund",
				Priority:     1,
				CurrentCost:  5_000_000,
				Years:        5,
				Months:       0,
				InflationPct: 8,
				NewROIPct:    10,
				Allocations: map[string]float64{
					"Cash": 1_000_000,
					"Bank": 1_000_000,
				},
			},
		},
	}
}
