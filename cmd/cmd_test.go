package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/schema"
)

func TestParseAlloc(t *testing.T) {
	src, amount, err := parseAlloc("Bank=1,000,000")
	require.NoError(t, err)
	assert.Equal(t, "Bank", src)
	assert.Equal(t, 1_000_000.0, amount)

	src, amount, err = parseAlloc("A=B=250")
	require.NoError(t, err)
	assert.Equal(t, "A=B", src)
	assert.Equal(t, 250.0, amount)

	for _, bad := range []string{"Bank", "=5", "Bank=lots"} {
		_, _, err := parseAlloc(bad)
		assert.Error(t, err, bad)
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		explicit, output, want string
	}{
		{"", "", "markdown"},
		{"", "plan.yml", "yaml"},
		{"", "report.PDF", "pdf"},
		{"", "plan.json", "json"},
		{"md", "x.pdf", "markdown"},
		{"JSON", "", "json"},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.explicit, tt.output)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "explicit=%q output=%q", tt.explicit, tt.output)
	}

	_, err := exportFormat("docx", "")
	assert.Error(t, err)
}

func TestGoalPatchOnlyChangedFlags(t *testing.T) {
	cmd := goalSetCmd
	fs := cmd.Flags()
	require.NoError(t, fs.Set("cost", "7500000"))
	require.NoError(t, fs.Set("alloc", "Bank=10"))
	t.Cleanup(func() {
		fs.Lookup("cost").Changed = false
		fs.Lookup("alloc").Changed = false
		setGoalFlags = goalFlags{}
	})

	gp, err := goalPatch(fs, setGoalFlags)
	require.NoError(t, err)
	require.NotNil(t, gp.CurrentCost)
	assert.Equal(t, 7_500_000.0, *gp.CurrentCost)
	assert.Nil(t, gp.Name)
	assert.Nil(t, gp.Years)
	assert.Equal(t, map[string]float64{"Bank": 10}, gp.Allocations)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommandsEditPlanFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "plan.json")

	require.NoError(t, execute(t, "init", "--sample", "-q", "-f", path))
	assert.Error(t, execute(t, "init", "-q", "-f", path), "init must not overwrite")

	require.NoError(t, execute(t, "source", "add", "Gold", "--roi", "6", "-q", "-f", path))
	require.NoError(t, execute(t, "source", "rename", "Bank", "Savings", "-q", "-f", path))
	require.NoError(t, execute(t, "goal", "add", "-q", "-f", path))

	p, err := planfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cash", "Savings", "Gold"}, p.SourceNames())
	assert.Equal(t, 6.0, p.Sources[2].ROI)
	require.Len(t, p.Goals, 2)
	assert.Equal(t, 1_000_000.0, p.Goals[0].Allocations["Savings"])
	assert.Equal(t, "Goal 2", p.Goals[1].Name)

	err = execute(t, "source", "rename", "Cash", "Gold", "-q", "-f", path)
	assert.ErrorIs(t, err, schema.ErrDuplicateName)

	err = execute(t, "goal", "delete", "Nope", "-q", "-f", path)
	assert.ErrorIs(t, err, schema.ErrGoalNotFound)

	require.NoError(t, execute(t, "goal", "delete", "Goal 2", "-q", "-f", path))
	require.NoError(t, execute(t, "source", "delete", "Cash", "-q", "-f", path))

	p, err = planfile.Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Goals, 1)
	assert.Equal(t, []string{"Savings", "Gold"}, p.SourceNames())
}

func TestCommandsMissingPlan(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "missing.json")

	err := execute(t, "goal", "list", "-q", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goalfund init")
}
