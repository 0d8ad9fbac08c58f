package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalfund/internal/model"
)

func twoSourcePlan() model.Plan {
	return model.Plan{
		Sources: []model.Source{{Name: "Cash", ROI: 0}, {Name: "Stocks", ROI: 12}},
		Goals: []model.Goal{
			{Name: "House", Priority: 1, CurrentCost: 100, Allocations: map[string]float64{"Cash": 10, "Stocks": 20}},
			{Name: "Car", Priority: 2, CurrentCost: 50, Allocations: map[string]float64{"Cash": 5}},
		},
	}
}

func TestAddSource_GeneratesName(t *testing.T) {
	p := twoSourcePlan()
	out, src, err := AddSource(p, "", model.DefaultDefaults())
	require.NoError(t, err)

	assert.Equal(t, "Source 3", src.Name)
	assert.Equal(t, 8.0, src.ROI)
	require.Len(t, out.Sources, 3)
	for _, g := range out.Goals {
		v, ok := g.Allocations["Source 3"]
		assert.True(t, ok, "goal %s missing new column", g.Name)
		assert.Zero(t, v)
	}
	assert.Len(t, p.Sources, 2, "input plan must not change")
}

func TestAddSource_SkipsTakenGeneratedName(t *testing.T) {
	p := model.Plan{Sources: []model.Source{{Name: "Source 2"}}}
	_, src, err := AddSource(p, "", model.DefaultDefaults())
	require.NoError(t, err)
	assert.Equal(t, "Source 3", src.Name)
}

func TestAddSource_RejectsDuplicateAndBlank(t *testing.T) {
	p := twoSourcePlan()

	_, _, err := AddSource(p, "Cash", model.DefaultDefaults())
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, _, err = AddSource(p, "   ", model.DefaultDefaults())
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRenameSource_MovesAllocations(t *testing.T) {
	p := twoSourcePlan()
	out, err := RenameSource(p, "Cash", "Savings")
	require.NoError(t, err)

	assert.Equal(t, []string{"Savings", "Stocks"}, out.SourceNames())
	assert.Equal(t, 10.0, out.Goals[0].Allocations["Savings"])
	assert.Equal(t, 5.0, out.Goals[1].Allocations["Savings"])
	_, stale := out.Goals[0].Allocations["Cash"]
	assert.False(t, stale)

	assert.Equal(t, 10.0, p.Goals[0].Allocations["Cash"], "input plan must not change")
}

func TestRenameSource_ToItselfIsNoop(t *testing.T) {
	p := twoSourcePlan()
	out, err := RenameSource(p, "Cash", "Cash")
	require.NoError(t, err)
	assert.Equal(t, p, out)
}

func TestRenameSource_Duplicate(t *testing.T) {
	p := twoSourcePlan()
	out, err := RenameSource(p, "Cash", "Stocks")
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, p, out)
}

func TestRenameSource_Blank(t *testing.T) {
	p := twoSourcePlan()
	_, err := RenameSource(p, "Cash", " \t")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = RenameSource(p, "Cash", "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestSourceNamesCannotShadowBaseColumns(t *testing.T) {
	p := twoSourcePlan()
	for _, col := range model.BaseColumns {
		t.Run(col, func(t *testing.T) {
			_, _, err := AddSource(p, col, model.DefaultDefaults())
			assert.ErrorIs(t, err, ErrInvalidName)

			out, err := RenameSource(p, "Cash", col)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.Equal(t, p, out)

			bad := model.Plan{Sources: []model.Source{{Name: col}}}
			assert.ErrorIs(t, Validate(bad), ErrInvalidName)
		})
	}
}

func TestNormalizeTenure(t *testing.T) {
	g := model.Goal{Years: 2, Months: 27}
	NormalizeTenure(&g)
	assert.Equal(t, 4, g.Years)
	assert.Equal(t, 3, g.Months)

	g = model.Goal{Years: -1, Months: -4}
	NormalizeTenure(&g)
	assert.Equal(t, 0, g.Years)
	assert.Equal(t, 0, g.Months)
}

func TestRenameSource_Unknown(t *testing.T) {
	_, err := RenameSource(twoSourcePlan(), "Gold", "Silver")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestSetSourceROI(t *testing.T) {
	p := twoSourcePlan()
	out, err := SetSourceROI(p, "Cash", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Sources[0].ROI)
	assert.Equal(t, 0.0, p.Sources[0].ROI)

	_, err = SetSourceROI(p, "Cash", -1)
	assert.ErrorIs(t, err, ErrInvalidROI)
	_, err = SetSourceROI(p, "Gold", 4)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestDeleteSource(t *testing.T) {
	p := twoSourcePlan()
	out := DeleteSource(p, "Stocks")

	assert.Equal(t, []string{"Cash"}, out.SourceNames())
	for _, g := range out.Goals {
		_, ok := g.Allocations["Stocks"]
		assert.False(t, ok, "goal %s still has Stocks", g.Name)
	}
}

func TestDeleteSource_UnknownIsNoop(t *testing.T) {
	p := Reconcile(twoSourcePlan())
	assert.Equal(t, p, DeleteSource(p, "Gold"))
}

func TestReconcile_FillsAndDrops(t *testing.T) {
	p := model.Plan{
		Sources: []model.Source{{Name: "Cash"}, {Name: "Bank"}},
		Goals: []model.Goal{
			{Name: "A", Allocations: map[string]float64{"Cash": 3, "Ghost": 9}},
			{Name: "B"},
		},
	}
	out := Reconcile(p)

	assert.Equal(t, map[string]float64{"Cash": 3, "Bank": 0}, out.Goals[0].Allocations)
	assert.Equal(t, map[string]float64{"Cash": 0, "Bank": 0}, out.Goals[1].Allocations)
}

func TestReconcile_Idempotent(t *testing.T) {
	once := Reconcile(twoSourcePlan())
	assert.Equal(t, once, Reconcile(once))
}

func TestAddGoal(t *testing.T) {
	p := twoSourcePlan()
	out, g := AddGoal(p, model.Defaults{InflationPct: 6, NewROIPct: 12})

	assert.Equal(t, "Goal 3", g.Name)
	assert.Equal(t, 3, g.Priority)
	assert.Equal(t, 6.0, g.InflationPct)
	assert.Equal(t, 12.0, g.NewROIPct)
	assert.Equal(t, map[string]float64{"Cash": 0, "Stocks": 0}, g.Allocations)
	require.Len(t, out.Goals, 3)
	assert.Len(t, p.Goals, 2)
}

func TestAddGoal_UniqueNameAfterDelete(t *testing.T) {
	p := model.Plan{}
	p, _ = AddGoal(p, model.DefaultDefaults())
	p, _ = AddGoal(p, model.DefaultDefaults())
	p = DeleteGoal(p, "Goal 1")

	p, g := AddGoal(p, model.DefaultDefaults())
	assert.Equal(t, "Goal 3", g.Name, "Goal 2 is still taken")
	assert.Equal(t, 3, g.Priority)
}

func TestDeleteGoal(t *testing.T) {
	p := twoSourcePlan()
	out := DeleteGoal(p, "House")
	require.Len(t, out.Goals, 1)
	assert.Equal(t, "Car", out.Goals[0].Name)

	assert.Equal(t, out, DeleteGoal(out, "House"), "second delete is a no-op")
}

func TestUpdateGoal(t *testing.T) {
	p := twoSourcePlan()
	out, err := UpdateGoal(p, "Car", func(g *model.Goal) {
		g.Name = "Bike"
		g.Years = 1
		g.Months = 14
	})
	require.NoError(t, err)

	g := out.Goals[1]
	assert.Equal(t, "Bike", g.Name)
	assert.Equal(t, 2, g.Years)
	assert.Equal(t, 2, g.Months)
	assert.Equal(t, map[string]float64{"Cash": 5, "Stocks": 0}, g.Allocations)
}

func TestUpdateGoal_Errors(t *testing.T) {
	p := twoSourcePlan()

	_, err := UpdateGoal(p, "Car", func(g *model.Goal) { g.Name = "House" })
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = UpdateGoal(p, "Car", func(g *model.Goal) { g.Name = "" })
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = UpdateGoal(p, "Boat", func(g *model.Goal) {})
	assert.ErrorIs(t, err, ErrGoalNotFound)

	assert.Equal(t, "Car", p.Goals[1].Name)
}

func TestSetAllocation(t *testing.T) {
	p := twoSourcePlan()
	out, err := SetAllocation(p, "Car", "Stocks", 42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, out.Goals[1].Allocations["Stocks"])

	_, err = SetAllocation(p, "Car", "Gold", 1)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	_, err = SetAllocation(p, "Boat", "Cash", 1)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(twoSourcePlan()))

	dup := model.Plan{Sources: []model.Source{{Name: "A"}, {Name: "A"}}}
	assert.ErrorIs(t, Validate(dup), ErrDuplicateName)

	blank := model.Plan{Sources: []model.Source{{Name: " "}}}
	assert.ErrorIs(t, Validate(blank), ErrInvalidName)
}

func TestPatchGoal(t *testing.T) {
	p := twoSourcePlan()
	name := "Villa"
	cost := 250.0
	months := 14

	out, err := PatchGoal(p, "House", GoalPatch{
		Name:        &name,
		CurrentCost: &cost,
		Months:      &months,
		Allocations: map[string]float64{"Stocks": 99},
	})
	require.NoError(t, err)

	g := out.Goals[0]
	assert.Equal(t, "Villa", g.Name)
	assert.InDelta(t, 250.0, g.CurrentCost, 1e-9)
	assert.Equal(t, 1, g.Years)
	assert.Equal(t, 2, g.Months)
	assert.InDelta(t, 10.0, g.Allocations["Cash"], 1e-9)
	assert.InDelta(t, 99.0, g.Allocations["Stocks"], 1e-9)
	assert.Equal(t, "House", p.Goals[0].Name, "input plan must not change")
}

func TestPatchGoal_UnknownSourceRejectsWholePatch(t *testing.T) {
	p := twoSourcePlan()
	cost := 1.0
	out, err := PatchGoal(p, "House", GoalPatch{
		CurrentCost: &cost,
		Allocations: map[string]float64{"Gold": 1},
	})
	require.ErrorIs(t, err, ErrSourceNotFound)
	assert.InDelta(t, 100.0, out.Goals[0].CurrentCost, 1e-9)
}

func TestGoalPatch_IsEmpty(t *testing.T) {
	assert.True(t, GoalPatch{}.IsEmpty())
	y := 3
	assert.False(t, GoalPatch{Years: &y}.IsEmpty())
}
