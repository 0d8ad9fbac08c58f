// Package report renders a projected plan as markdown or PDF.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
)

// Options control report content.
type Options struct {
	Title       string
	Formatter   cli.Formatter
	GeneratedAt time.Time
}

func (o Options) title() string {
	if o.Title == "" {
		return "Goal Funding Plan"
	}
	return o.Title
}

// Markdown renders the outputs table, totals, goal inputs and sources.
func Markdown(p model.Plan, proj model.Projection, opts Options) string {
	f := opts.Formatter
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(opts.title())
	if !opts.GeneratedAt.IsZero() {
		doc.PlainText("Generated " + opts.GeneratedAt.Format("2 January 2006"))
	}

	tot := projection.RoundTotals(proj.Totals)
	doc.H2("Totals")
	doc.Table(md.TableSet{
		Header: []string{"Existing Today", "Lumpsum Today", "SIP / Month"},
		Rows:   [][]string{{f.Money(tot.Existing), f.Money(tot.Lumpsum), f.Money(tot.SIP)}},
	})

	doc.H2("Outputs")
	outputs := md.TableSet{
		Header: []string{"Goal", "Priority", "Future Cost", "Existing Today", "Lumpsum Today", "SIP / Month", "SIP From Zero"},
		Rows:   [][]string{},
	}
	for _, r := range proj.Rows {
		rr := projection.Round(r)
		outputs.Rows = append(outputs.Rows, []string{
			rr.Goal,
			strconv.Itoa(rr.Priority),
			f.Money(rr.FutureCost),
			f.Money(rr.ExistingToday),
			f.Money(rr.LumpsumToday),
			f.Money(rr.SIPPerMonth),
			f.Money(rr.SIPFromZero),
		})
	}
	doc.Table(outputs)

	doc.H2("Goals")
	goals := cli.GoalsTable(p, f)
	doc.Table(md.TableSet{Header: goals.Headers, Rows: withoutSeparators(goals.Rows)})

	doc.H2("Sources")
	sources := cli.SourcesTable(p, f)
	doc.Table(md.TableSet{Header: sources.Headers, Rows: withoutSeparators(sources.Rows)})

	return doc.String()
}

// withoutSeparators drops the "---" marker rows the terminal tables use.
func withoutSeparators(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(r) == 1 && r[0] == "---" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RenderTerminal styles markdown for the terminal. Plain selects the
// colourless style used when output is not a TTY.
func RenderTerminal(markdown string, width int, plain bool) (string, error) {
	style := "dark"
	if plain {
		style = "notty"
	}
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
