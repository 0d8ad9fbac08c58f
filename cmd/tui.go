package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/tui"
	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit the plan interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdin.Fd()) || !isTerminal(os.Stdout.Fd()) {
		return errors.New("the editor needs an interactive terminal")
	}

	theme.SetActive(appConfig.Display.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	path := planPath()
	p := model.Plan{}
	if planfile.Exists(path) {
		var err error
		if p, err = planfile.Load(path); err != nil {
			return err
		}
	} else {
		log.Debug("no plan file, starting empty", zap.String("path", path))
	}

	app := tui.NewApp(p, tui.Options{
		PlanPath:  path,
		Defaults:  appConfig.ModelDefaults(),
		Formatter: formatter(),
		Save: func(p model.Plan) error {
			return planfile.Save(path, p)
		},
	})

	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.Dirty() {
		info("Unsaved changes were discarded (press s in the editor to save).")
	}
	return nil
}
