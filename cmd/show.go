package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
)

var (
	flagShowJSON   bool
	flagShowDetail bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Project the plan and print what each goal needs",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the projection as JSON")
	showCmd.Flags().BoolVar(&flagShowDetail, "detail", false, "Include future cost, FV, shortfall and SIP-from-zero columns")
	rootCmd.AddCommand(showCmd)
}

type projectionJSON struct {
	Rows          []model.Row              `json:"rows"`
	Totals        model.Totals             `json:"totals"`
	RoundedTotals projection.RoundedTotals `json:"rounded_totals"`
}

func runShow(_ *cobra.Command, _ []string) error {
	p, path, err := loadPlan()
	if err != nil {
		return err
	}
	proj := projection.Project(p)

	if flagShowJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(projectionJSON{
			Rows:          proj.Rows,
			Totals:        proj.Totals,
			RoundedTotals: projection.RoundTotals(proj.Totals),
		})
	}

	if len(p.Goals) == 0 {
		fmt.Println("\n  No goals in this plan.")
		fmt.Println("  Add one with `goalfund goal add`.")
		return nil
	}

	f := formatter()
	fmt.Println()
	fmt.Println(cli.RenderTitle("GOAL FUNDING  " + filepath.Base(path)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.ProjectionTable(proj, f, flagShowDetail)))

	rt := projection.RoundTotals(proj.Totals)
	fmt.Println()
	fmt.Printf("  Invest %s today, or %s every month.\n", f.Money(rt.Lumpsum), f.Money(rt.SIP))
	fmt.Println()
	return nil
}
