package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Plan file:     %s\n", planPath())
	fmt.Printf("    Data dir:      %s\n", config.DataDir(cfg))
	fmt.Printf("    Snapshots:     %s\n", config.SnapshotDBPath(cfg))
	fmt.Println()

	fmt.Println("  [Defaults]")
	fmt.Printf("    Inflation:     %s\n", cli.FormatRate(cfg.Defaults.InflationPct))
	fmt.Printf("    New ROI:       %s\n", cli.FormatRate(cfg.Defaults.NewROIPct))
	fmt.Printf("    Source ROI:    %s\n", cli.FormatRate(cfg.Defaults.SourceROIPct))
	fmt.Println()

	fmt.Println("  [Display]")
	fmt.Printf("    Currency:      %s\n", cfg.Display.Currency)
	fmt.Printf("    Indian groups: %v\n", cfg.Display.IndianGrouping)
	fmt.Printf("    Theme:         %s\n", cfg.Display.Theme)
	fmt.Printf("    Example:       %s\n", formatter().Money(12345678))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `goalfund setup` to reconfigure.")
	return nil
}
