package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/schema"
)

// goalFlags are the field flags shared by `goal add` and `goal set`.
type goalFlags struct {
	name      string
	priority  int
	cost      float64
	years     int
	months    int
	inflation float64
	roi       float64
	allocs    []string
}

var (
	addGoalFlags goalFlags
	setGoalFlags goalFlags
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Add, edit and remove goals",
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with their inputs and allocations",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a goal with default rates",
	Args:  cobra.NoArgs,
	RunE:  runGoalAdd,
}

var goalSetCmd = &cobra.Command{
	Use:   "set <goal>",
	Short: "Change fields of a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalSet,
}

var goalDeleteCmd = &cobra.Command{
	Use:     "delete <goal>",
	Aliases: []string{"rm"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runGoalDelete,
}

func init() {
	addGoalFieldFlags(goalAddCmd.Flags(), &addGoalFlags)
	addGoalFieldFlags(goalSetCmd.Flags(), &setGoalFlags)

	goalCmd.AddCommand(goalListCmd, goalAddCmd, goalSetCmd, goalDeleteCmd)
	rootCmd.AddCommand(goalCmd)
}

func addGoalFieldFlags(fs *pflag.FlagSet, gf *goalFlags) {
	fs.StringVar(&gf.name, "name", "", "Goal name")
	fs.IntVar(&gf.priority, "priority", 0, "Priority (1 is most important)")
	fs.Float64Var(&gf.cost, "cost", 0, "Cost of the goal in today's money")
	fs.IntVar(&gf.years, "years", 0, "Years until the goal")
	fs.IntVar(&gf.months, "months", 0, "Additional months until the goal")
	fs.Float64Var(&gf.inflation, "inflation", 0, "Annual inflation %")
	fs.Float64Var(&gf.roi, "roi", 0, "Annual return % on new investments")
	fs.StringArrayVar(&gf.allocs, "alloc", nil, "Existing money from a source, as Source=amount (repeatable)")
}

// goalPatch builds a patch from the flags the user actually set.
func goalPatch(fs *pflag.FlagSet, gf goalFlags) (schema.GoalPatch, error) {
	var gp schema.GoalPatch
	if fs.Changed("name") {
		gp.Name = &gf.name
	}
	if fs.Changed("priority") {
		gp.Priority = &gf.priority
	}
	if fs.Changed("cost") {
		gp.CurrentCost = &gf.cost
	}
	if fs.Changed("years") {
		gp.Years = &gf.years
	}
	if fs.Changed("months") {
		gp.Months = &gf.months
	}
	if fs.Changed("inflation") {
		gp.InflationPct = &gf.inflation
	}
	if fs.Changed("roi") {
		gp.NewROIPct = &gf.roi
	}
	if len(gf.allocs) > 0 {
		gp.Allocations = make(map[string]float64, len(gf.allocs))
		for _, a := range gf.allocs {
			src, amount, err := parseAlloc(a)
			if err != nil {
				return gp, err
			}
			gp.Allocations[src] = amount
		}
	}
	return gp, nil
}

// parseAlloc splits "Source=amount" on the last '=' so source names may
// contain one. Amounts may use comma grouping.
func parseAlloc(s string) (string, float64, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("invalid --alloc %q: want Source=amount", s)
	}
	src := strings.TrimSpace(s[:i])
	raw := strings.ReplaceAll(strings.TrimSpace(s[i+1:]), ",", "")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --alloc %q: %q is not a number", s, s[i+1:])
	}
	return src, amount, nil
}

func runGoalList(_ *cobra.Command, _ []string) error {
	p, _, err := loadPlan()
	if err != nil {
		return err
	}
	if len(p.Goals) == 0 {
		fmt.Println("\n  No goals yet.")
		return nil
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.GoalsTable(p, formatter())))
	fmt.Println()
	return nil
}

func runGoalAdd(cmd *cobra.Command, _ []string) error {
	gp, err := goalPatch(cmd.Flags(), addGoalFlags)
	if err != nil {
		return err
	}

	var added model.Goal
	p, err := updatePlan("goal_add", func(p model.Plan) (model.Plan, error) {
		p, g := schema.AddGoal(p, appConfig.ModelDefaults())
		added = g
		if gp.IsEmpty() {
			return p, nil
		}
		p, err := schema.PatchGoal(p, g.Name, gp)
		if err != nil {
			return p, err
		}
		if gp.Name != nil {
			added.Name = *gp.Name
		}
		return p, nil
	})
	if err != nil {
		return err
	}
	info("Added goal %q (%d goals)", added.Name, len(p.Goals))
	return nil
}

func runGoalSet(cmd *cobra.Command, args []string) error {
	gp, err := goalPatch(cmd.Flags(), setGoalFlags)
	if err != nil {
		return err
	}
	if gp.IsEmpty() {
		return fmt.Errorf("nothing to change: pass at least one field flag")
	}

	if _, err := updatePlan("goal_set", func(p model.Plan) (model.Plan, error) {
		return schema.PatchGoal(p, args[0], gp)
	}); err != nil {
		return err
	}
	info("Updated goal %q", args[0])
	return nil
}

func runGoalDelete(_ *cobra.Command, args []string) error {
	if _, err := updatePlan("goal_delete", func(p model.Plan) (model.Plan, error) {
		if p.GoalIndex(args[0]) < 0 {
			return p, fmt.Errorf("deleting goal %q: %w", args[0], schema.ErrGoalNotFound)
		}
		return schema.DeleteGoal(p, args[0]), nil
	}); err != nil {
		return err
	}
	info("Deleted goal %q", args[0])
	return nil
}
