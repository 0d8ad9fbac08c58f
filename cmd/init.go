package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
)

var (
	flagInitSample bool
	flagInitForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new plan file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitSample, "sample", false, "Seed the plan with a sample goal and sources")
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing plan file")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	path := planPath()
	if planfile.Exists(path) && !flagInitForce {
		return fmt.Errorf("plan already exists at %s (use --force to overwrite)", path)
	}

	p := model.Plan{}
	if flagInitSample {
		p = model.SamplePlan()
	}
	if err := planfile.Save(path, p); err != nil {
		return err
	}

	info("Created %s", path)
	if !flagInitSample {
		info("Add sources with `goalfund source add` and goals with `goalfund goal add`.")
	}
	return nil
}
