package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/report"
)

var (
	flagExportFormat string
	flagExportOutput string
	flagExportTitle  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the plan as JSON, YAML, a Markdown report or a PDF report",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "", "json, yaml, markdown or pdf (default from -o extension, else markdown)")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&flagExportTitle, "title", "", "Report title")
	rootCmd.AddCommand(exportCmd)
}

// exportFormat picks the explicit format, else one implied by the output
// file extension.
func exportFormat(explicit, output string) (string, error) {
	f := strings.ToLower(explicit)
	if f == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".json":
			f = "json"
		case ".yaml", ".yml":
			f = "yaml"
		case ".pdf":
			f = "pdf"
		default:
			f = "markdown"
		}
	}
	switch f {
	case "json", "yaml", "pdf":
		return f, nil
	case "markdown", "md":
		return "markdown", nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml, markdown or pdf)", explicit)
}

func runExport(_ *cobra.Command, _ []string) error {
	format, err := exportFormat(flagExportFormat, flagExportOutput)
	if err != nil {
		return err
	}

	p, _, err := loadPlan()
	if err != nil {
		return err
	}
	proj := projection.Project(p)
	opts := report.Options{
		Title:       flagExportTitle,
		Formatter:   formatter(),
		GeneratedAt: time.Now(),
	}

	var data []byte
	switch format {
	case "json":
		data, err = planfile.Marshal(p, planfile.FormatJSON)
	case "yaml":
		data, err = planfile.Marshal(p, planfile.FormatYAML)
	case "pdf":
		if flagExportOutput == "" && isTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("refusing to write PDF to a terminal: pass -o file.pdf")
		}
		data, err = report.PDF(p, proj, opts)
	case "markdown":
		md := report.Markdown(p, proj, opts)
		if flagExportOutput == "" && isTerminal(os.Stdout.Fd()) {
			out, rerr := report.RenderTerminal(md, 100, false)
			if rerr != nil {
				return rerr
			}
			fmt.Print(out)
			return nil
		}
		data = []byte(md)
	}
	if err != nil {
		return err
	}

	if flagExportOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flagExportOutput, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", flagExportOutput, err)
	}
	info("Wrote %s report to %s", format, flagExportOutput)
	return nil
}
