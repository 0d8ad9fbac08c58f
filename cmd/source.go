package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/schema"
)

var flagSourceROI float64

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage sources of existing money",
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources with their ROI and allocated totals",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a source (named \"Source N\" when no name is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSourceAdd,
}

var sourceRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a source, keeping every goal's allocation",
	Args:  cobra.ExactArgs(2),
	RunE:  runSourceRename,
}

var sourceROICmd = &cobra.Command{
	Use:   "roi <source> <percent>",
	Short: "Set a source's annual return",
	Args:  cobra.ExactArgs(2),
	RunE:  runSourceROI,
}

var sourceDeleteCmd = &cobra.Command{
	Use:     "delete <source>",
	Aliases: []string{"rm"},
	Short:   "Delete a source and its allocations",
	Args:    cobra.ExactArgs(1),
	RunE:    runSourceDelete,
}

func init() {
	sourceAddCmd.Flags().Float64Var(&flagSourceROI, "roi", 0, "Annual return % (default from config)")

	sourceCmd.AddCommand(sourceListCmd, sourceAddCmd, sourceRenameCmd, sourceROICmd, sourceDeleteCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceList(_ *cobra.Command, _ []string) error {
	p, _, err := loadPlan()
	if err != nil {
		return err
	}
	if len(p.Sources) == 0 {
		fmt.Println("\n  No sources yet.")
		return nil
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.SourcesTable(p, formatter())))
	fmt.Println()
	return nil
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	d := appConfig.ModelDefaults()
	if cmd.Flags().Changed("roi") {
		d.SourceROI = flagSourceROI
	}

	var added model.Source
	if _, err := updatePlan("source_add", func(p model.Plan) (model.Plan, error) {
		next, s, err := schema.AddSource(p, name, d)
		added = s
		return next, err
	}); err != nil {
		return err
	}
	info("Added source %q at %s", added.Name, cli.FormatRate(added.ROI))
	return nil
}

func runSourceRename(_ *cobra.Command, args []string) error {
	if _, err := updatePlan("source_rename", func(p model.Plan) (model.Plan, error) {
		return schema.RenameSource(p, args[0], args[1])
	}); err != nil {
		return err
	}
	info("Renamed source %q to %q", args[0], args[1])
	return nil
}

func runSourceROI(_ *cobra.Command, args []string) error {
	roi, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid ROI %q: %w", args[1], schema.ErrInvalidROI)
	}
	if _, err := updatePlan("source_roi", func(p model.Plan) (model.Plan, error) {
		return schema.SetSourceROI(p, args[0], roi)
	}); err != nil {
		return err
	}
	info("Set %q ROI to %s", args[0], cli.FormatRate(roi))
	return nil
}

func runSourceDelete(_ *cobra.Command, args []string) error {
	if _, err := updatePlan("source_delete", func(p model.Plan) (model.Plan, error) {
		if p.SourceIndex(args[0]) < 0 {
			return p, fmt.Errorf("deleting source %q: %w", args[0], schema.ErrSourceNotFound)
		}
		return schema.DeleteSource(p, args[0]), nil
	}); err != nil {
		return err
	}
	info("Deleted source %q", args[0])
	return nil
}
