package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/tui/components"
)

func newTestApp() App {
	return NewApp(model.SamplePlan(), Options{Defaults: model.DefaultDefaults()})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		m, _ := a.Update(keyMsg(k))
		var ok bool
		a, ok = m.(App)
		require.True(t, ok, "Update returned %T", m)
	}
	return a
}

func TestNewAppProjectsWithoutDirtying(t *testing.T) {
	a := newTestApp()
	assert.False(t, a.Dirty())
	require.Len(t, a.proj.Rows, 1)
	assert.Equal(t, int64(66247), projection.RoundTotals(a.proj.Totals).SIP)
}

func TestAddGoalKey(t *testing.T) {
	a := press(t, newTestApp(), "a")
	require.Len(t, a.plan.Goals, 2)
	assert.Equal(t, "Goal 2", a.plan.Goals[1].Name)
	assert.Equal(t, 1, a.goals.row)
	assert.True(t, a.Dirty())
	assert.Len(t, a.proj.Rows, 2)
}

func TestEditCostCell(t *testing.T) {
	a := press(t, newTestApp(), "l", "l", "enter")
	require.True(t, a.goals.editing)
	assert.Equal(t, "5000000", a.goals.input.Value())

	a.goals.input.SetValue("6,000,000")
	a = press(t, a, "enter")
	assert.False(t, a.goals.editing)
	assert.Equal(t, 6_000_000.0, a.plan.Goals[0].CurrentCost)
	assert.False(t, a.statusErr)
	assert.Greater(t, a.proj.Rows[0].FutureCost, 8_000_000.0)
}

func TestEditCellParseErrorLeavesPlan(t *testing.T) {
	a := press(t, newTestApp(), "l", "l", "enter")
	a.goals.input.SetValue("lots")
	a = press(t, a, "enter")
	assert.True(t, a.statusErr)
	assert.Equal(t, 5_000_000.0, a.plan.Goals[0].CurrentCost)
	assert.False(t, a.Dirty())
}

func TestEscCancelsCellEdit(t *testing.T) {
	a := press(t, newTestApp(), "enter")
	require.True(t, a.goals.editing)
	a.goals.input.SetValue("Renamed")
	a = press(t, a, "esc")
	assert.False(t, a.goals.editing)
	assert.Equal(t, "Marriage Fund", a.plan.Goals[0].Name)
}

func TestRenameGoalCell(t *testing.T) {
	a := press(t, newTestApp(), "enter")
	a.goals.input.SetValue("Wedding")
	a = press(t, a, "enter")
	assert.Equal(t, "Wedding", a.plan.Goals[0].Name)
	assert.Equal(t, "Wedding", a.proj.Rows[0].Goal)
}

func TestCycleInflationCell(t *testing.T) {
	a := newTestApp()
	a.goals.col = colInflation
	a = press(t, a, "]")
	assert.Equal(t, 10.0, a.plan.Goals[0].InflationPct)
	a = press(t, a, "[", "[")
	assert.Equal(t, 6.0, a.plan.Goals[0].InflationPct)
}

func TestCycleMonthsWraps(t *testing.T) {
	a := newTestApp()
	a.goals.col = colMonths
	a = press(t, a, "[")
	assert.Equal(t, 11, a.plan.Goals[0].Months)
	assert.Equal(t, 5, a.plan.Goals[0].Years)
	a = press(t, a, "enter")
	assert.Equal(t, 0, a.plan.Goals[0].Months)
}

func TestEditAllocationCell(t *testing.T) {
	a := newTestApp()
	a.goals.col = colFirstSource
	a = press(t, a, "enter")
	a.goals.input.SetValue("2000000")
	a = press(t, a, "enter")
	assert.Equal(t, 2_000_000.0, a.plan.Goals[0].Allocations["Cash"])
	assert.Equal(t, 1_000_000.0, a.plan.Goals[0].Allocations["Bank"])
}

func TestDeleteGoalKey(t *testing.T) {
	a := press(t, newTestApp(), "D")
	assert.Empty(t, a.plan.Goals)
	assert.Empty(t, a.proj.Rows)
	assert.Zero(t, a.goals.row)
}

func TestSourcesTabCycleROI(t *testing.T) {
	a := press(t, newTestApp(), "2")
	require.Equal(t, tabSources, a.activeTab)
	a = press(t, a, "]")
	assert.Equal(t, 4.0, a.plan.Sources[0].ROI)
	a = press(t, a, "j", "[")
	assert.Equal(t, 0.0, a.plan.Sources[1].ROI)
}

func TestSourcesTabRename(t *testing.T) {
	a := press(t, newTestApp(), "2", "enter")
	require.True(t, a.sources.renaming)
	a.sources.input.SetValue("Wallet")
	a = press(t, a, "enter")

	assert.Equal(t, []string{"Wallet", "Bank"}, a.plan.SourceNames())
	assert.Equal(t, 1_000_000.0, a.plan.Goals[0].Allocations["Wallet"])
	_, stale := a.plan.Goals[0].Allocations["Cash"]
	assert.False(t, stale)
}

func TestSourcesTabRenameDuplicate(t *testing.T) {
	a := press(t, newTestApp(), "2", "enter")
	a.sources.input.SetValue("Bank")
	a = press(t, a, "enter")
	assert.True(t, a.statusErr)
	assert.Equal(t, []string{"Cash", "Bank"}, a.plan.SourceNames())
}

func TestAddAndDeleteSource(t *testing.T) {
	a := press(t, newTestApp(), "A")
	require.Len(t, a.plan.Sources, 3)
	assert.Equal(t, "Source 3", a.plan.Sources[2].Name)
	assert.Equal(t, 8.0, a.plan.Sources[2].ROI)
	assert.Equal(t, tabSources, a.activeTab)
	assert.Equal(t, 2, a.sources.cursor)
	assert.Contains(t, a.plan.Goals[0].Allocations, "Source 3")

	a = press(t, a, "D")
	assert.Equal(t, []string{"Cash", "Bank"}, a.plan.SourceNames())
	assert.Equal(t, 1, a.sources.cursor)
}

func TestDeleteSourceReprojects(t *testing.T) {
	a := press(t, newTestApp(), "2", "D")
	assert.Equal(t, []string{"Bank"}, a.plan.SourceNames())
	assert.Less(t, a.proj.Rows[0].FVExisting, 2_000_000.0)
}

func TestSaveKey(t *testing.T) {
	var saved *model.Plan
	a := NewApp(model.SamplePlan(), Options{
		PlanPath: "plan.json",
		Save: func(p model.Plan) error {
			saved = &p
			return nil
		},
	})
	a = press(t, a, "a", "s")
	require.NotNil(t, saved)
	assert.Len(t, saved.Goals, 2)
	assert.False(t, a.Dirty())
	assert.Contains(t, a.status, "plan.json")
}

func TestSaveErrors(t *testing.T) {
	a := press(t, newTestApp(), "a", "s")
	assert.True(t, a.statusErr)
	assert.True(t, a.Dirty())

	a = NewApp(model.SamplePlan(), Options{Save: func(model.Plan) error { return errors.New("disk full") }})
	a = press(t, a, "s")
	assert.True(t, a.statusErr)
	assert.Contains(t, a.status, "disk full")
}

func TestTabKeys(t *testing.T) {
	a := press(t, newTestApp(), "3")
	assert.Equal(t, tabOutputs, a.activeTab)
	a = press(t, a, "tab")
	assert.Equal(t, tabGoals, a.activeTab)
	a = press(t, a, "3", "d")
	assert.True(t, a.showDetail)
}

func TestHelpToggle(t *testing.T) {
	a := press(t, newTestApp(), "?")
	assert.True(t, a.showHelp)
	a = press(t, a, "x")
	assert.False(t, a.showHelp)
}

func TestGoalFormOpenAndCancel(t *testing.T) {
	a := press(t, newTestApp(), "e")
	require.NotNil(t, a.form)
	require.NotNil(t, a.formVals)
	assert.Equal(t, "Marriage Fund", a.formVals.target)

	a = press(t, a, "esc")
	assert.Nil(t, a.form)
	assert.Equal(t, "Marriage Fund", a.plan.Goals[0].Name)
}

func TestGoalFormValuesPatch(t *testing.T) {
	p := model.SamplePlan()
	v := newGoalFormValues(p.Goals[0])
	v.name = " Wedding "
	v.cost = "7,500,000"
	v.years = "3"
	v.months = 6
	v.inflation = 6
	v.newROI = 12

	patch, err := v.patch()
	require.NoError(t, err)
	assert.Equal(t, "Wedding", *patch.Name)
	assert.Equal(t, 7_500_000.0, *patch.CurrentCost)
	assert.Equal(t, 3, *patch.Years)
	assert.Equal(t, 6, *patch.Months)

	v.cost = "abc"
	_, err = v.patch()
	assert.Error(t, err)
}

func TestCycleOption(t *testing.T) {
	opts := []float64{0, 4, 8}
	tests := []struct {
		cur  float64
		dir  int
		want float64
	}{
		{0, 1, 4},
		{8, 1, 0},
		{0, -1, 8},
		{5, 1, 8},
		{5, -1, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cycleOption(opts, tt.cur, tt.dir), "cur=%v dir=%d", tt.cur, tt.dir)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1,00,000")
	require.NoError(t, err)
	assert.Equal(t, 100_000.0, v)

	v, err = parseAmount("")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = parseAmount("NaN")
	assert.Error(t, err)
}

func TestViewRendersEachTab(t *testing.T) {
	a := newTestApp()
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	a = m.(App)

	assert.Contains(t, a.View(), "Marriage Fund")
	a = press(t, a, "2")
	assert.Contains(t, a.View(), "Bank")
	a = press(t, a, "3")
	assert.Contains(t, a.View(), "Monthly SIP")
}

func TestViewTooNarrow(t *testing.T) {
	m, _ := newTestApp().Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.(App).View(), "too narrow")
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := newTestApp()
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	a = m.(App)

	x := 0
	for i := 0; i < tabOutputs; i++ {
		x += components.TabVisualWidth(components.Tabs[i], i == a.activeTab) + 1
	}
	m, _ = a.Update(tea.MouseMsg{X: x + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, tabOutputs, m.(App).activeTab)
}
