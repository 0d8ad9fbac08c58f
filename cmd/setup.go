package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/config"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCurrencies = []string{"INR", "USD", "EUR", "GBP", "AUD", "CAD", "SGD", "JPY"}

func rateChoices(opts []float64) []huh.Option[float64] {
	out := make([]huh.Option[float64], len(opts))
	for i, o := range opts {
		out[i] = huh.NewOption(cli.FormatRate(o), o)
	}
	return out
}

func runSetup(_ *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdin.Fd()) {
		return errors.New("setup needs an interactive terminal; edit " + config.ConfigPath() + " instead")
	}

	// Start from the saved file so --currency is not persisted.
	cfg, _ := config.Load()

	currencies := make([]huh.Option[string], 0, len(setupCurrencies)+1)
	known := false
	for _, c := range setupCurrencies {
		known = known || c == cfg.Display.Currency
		currencies = append(currencies, huh.NewOption(c, c))
	}
	if !known && cfg.Display.Currency != "" {
		currencies = append(currencies, huh.NewOption(cfg.Display.Currency, cfg.Display.Currency))
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	planFile := cfg.General.PlanFile

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to goalfund").
				Description("Plan savings goals against the money you already have."),
			huh.NewInput().
				Title("Plan file").
				Description("Leave blank for "+config.PlanPath(config.Config{General: config.GeneralConfig{DataDir: cfg.General.DataDir}})).
				Value(&planFile),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Currency").
				Options(currencies...).
				Value(&cfg.Display.Currency),
			huh.NewConfirm().
				Title("Group digits the Indian way (12,34,567)?").
				Value(&cfg.Display.IndianGrouping),
		),
		huh.NewGroup(
			huh.NewSelect[float64]().
				Title("Default inflation for new goals").
				Options(rateChoices(model.InflationOptions)...).
				Value(&cfg.Defaults.InflationPct),
			huh.NewSelect[float64]().
				Title("Default return on new investments").
				Options(rateChoices(model.ROIOptions)...).
				Value(&cfg.Defaults.NewROIPct),
			huh.NewSelect[float64]().
				Title("Default return for new sources").
				Options(rateChoices(model.ROIOptions)...).
				Value(&cfg.Defaults.SourceROIPct),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&cfg.Display.Theme),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			info("Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}
	cfg.General.PlanFile = planFile

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `goalfund setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
