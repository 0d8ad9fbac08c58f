// Package cmd implements the goalfund CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/config"
	"github.com/theirongolddev/goalfund/internal/logging"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
)

var (
	flagPlan     string
	flagQuiet    bool
	flagVerbose  bool
	flagCurrency string
)

// Loaded once per invocation by rootCmd's PersistentPreRunE.
var (
	appConfig = config.DefaultConfig()
	log       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "goalfund",
	Short: "Goal-based financial planning",
	Long: "Plan savings goals against existing money: project future costs and\n" +
		"compute the lumpsum or monthly SIP each goal still needs.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
	RunE:              runShow,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = log.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPlan, "plan", "f", "", "Plan file (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency code for display (e.g. INR, USD)")

	rootCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the projection as JSON")
	rootCmd.Flags().BoolVar(&flagShowDetail, "detail", false, "Include future cost, FV, shortfall and SIP-from-zero columns")
}

func loadEnvironment(_ *cobra.Command, _ []string) error {
	log = logging.New(flagVerbose)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagCurrency != "" {
		cfg.Display.Currency = flagCurrency
	}
	appConfig = cfg

	log.Debug("config loaded",
		zap.String("path", config.ConfigPath()),
		zap.Bool("exists", config.Exists()),
		zap.String("plan", planPath()))
	return nil
}

// planPath is the plan file in effect: --plan, then config, then default.
func planPath() string {
	if flagPlan != "" {
		return flagPlan
	}
	return config.PlanPath(appConfig)
}

// loadPlan reads the plan file in effect.
func loadPlan() (model.Plan, string, error) {
	path := planPath()
	p, err := planfile.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Plan{}, path, fmt.Errorf("no plan at %s (run `goalfund init` to create one): %w", path, err)
	}
	if err != nil {
		return model.Plan{}, path, err
	}
	log.Debug("plan loaded", zap.String("path", path),
		zap.Int("goals", len(p.Goals)), zap.Int("sources", len(p.Sources)))
	return p, path, nil
}

// updatePlan loads the plan, applies fn and saves the result.
func updatePlan(op string, fn func(model.Plan) (model.Plan, error)) (model.Plan, error) {
	p, path, err := loadPlan()
	if err != nil {
		return p, err
	}
	next, err := fn(p)
	if err != nil {
		log.Debug("plan update rejected", zap.String("op", op), zap.Error(err))
		return p, err
	}
	if err := planfile.Save(path, next); err != nil {
		return p, err
	}
	log.Debug("plan saved", zap.String("op", op), zap.String("path", path))
	return next, nil
}

func formatter() cli.Formatter {
	return cli.Formatter{
		Currency: appConfig.Display.Currency,
		Indian:   appConfig.Display.IndianGrouping,
	}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// info prints a status line on stderr unless --quiet.
func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
