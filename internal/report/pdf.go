package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
)

const (
	pageWidth    = 297.0 // A4 landscape
	marginLeft   = 12.0
	marginRight  = 12.0
	marginTop    = 12.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
	rowHeight    = 7.0
)

type pdfReport struct {
	pdf  *fpdf.Fpdf
	plan model.Plan
	proj model.Projection
	opts Options
}

// PDF renders the plan as a landscape A4 document. Amounts carry the
// currency code in the headers rather than a symbol, since the core
// fonts cover Latin-1 only.
func PDF(p model.Plan, proj model.Projection, opts Options) ([]byte, error) {
	r := &pdfReport{
		pdf:  fpdf.New("L", "mm", "A4", ""),
		plan: p,
		proj: proj,
		opts: opts,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(opts.title(), true)

	r.pdf.AddPage()
	r.addHeader()
	r.addTotals()
	r.addOutputs()
	r.addInputs()

	if err := r.pdf.Error(); err != nil {
		return nil, fmt.Errorf("building pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) currency() string {
	if r.opts.Formatter.Currency == "" {
		return "INR"
	}
	return r.opts.Formatter.Currency
}

func (r *pdfReport) amount(v int64) string {
	return r.opts.Formatter.Amount(v)
}

func (r *pdfReport) addHeader() {
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, r.opts.title(), "", 1, "L", false, 0, "")

	if !r.opts.GeneratedAt.IsZero() {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.SetTextColor(100, 100, 100)
		r.pdf.CellFormat(contentWidth, 6, "Generated: "+r.opts.GeneratedAt.Format("2 January 2006"), "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) sectionTitle(title string) {
	r.pdf.Ln(3)
	r.pdf.SetFont("Arial", "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, title, "", 1, "L", false, 0, "")
}

// table draws a header row and body rows; column 0 is left-aligned and
// the rest right-aligned.
func (r *pdfReport) table(headers []string, rows [][]string, widths []float64) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(230, 236, 245)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetTextColor(0, 0, 0)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	for n, row := range rows {
		fill := n%2 == 1
		r.pdf.SetFillColor(247, 248, 250)
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "R"
			if i == 0 {
				align = "L"
			}
			r.pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, align, fill, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

func evenWidths(n int, first float64) []float64 {
	widths := make([]float64, n)
	widths[0] = first
	if n > 1 {
		rest := (contentWidth - first) / float64(n-1)
		for i := 1; i < n; i++ {
			widths[i] = rest
		}
	}
	return widths
}

func (r *pdfReport) addTotals() {
	tot := projection.RoundTotals(r.proj.Totals)
	cur := r.currency()
	r.sectionTitle("Totals")
	r.table(
		[]string{"", "Existing Today (" + cur + ")", "Lumpsum Today (" + cur + ")", "SIP / Month (" + cur + ")"},
		[][]string{{"All goals", r.amount(tot.Existing), r.amount(tot.Lumpsum), r.amount(tot.SIP)}},
		evenWidths(4, 50),
	)
}

func (r *pdfReport) addOutputs() {
	cur := r.currency()
	headers := []string{"Goal", "Priority", "Future Cost", "FV Existing", "Shortfall",
		"Existing Today", "Lumpsum Today", "SIP / Month", "SIP From Zero"}
	var rows [][]string
	for _, row := range r.proj.Rows {
		rr := projection.Round(row)
		rows = append(rows, []string{
			rr.Goal,
			strconv.Itoa(rr.Priority),
			r.amount(rr.FutureCost),
			r.amount(rr.FVExisting),
			r.amount(rr.Shortfall),
			r.amount(rr.ExistingToday),
			r.amount(rr.LumpsumToday),
			r.amount(rr.SIPPerMonth),
			r.amount(rr.SIPFromZero),
		})
	}
	r.sectionTitle("Outputs (" + cur + ")")
	r.table(headers, rows, evenWidths(len(headers), 45))
}

func (r *pdfReport) addInputs() {
	f := cli.Formatter{Currency: r.currency(), Indian: r.opts.Formatter.Indian}
	goals := cli.GoalsTable(r.plan, f)
	// Current Cost goes through Money, which may carry a symbol; redo it
	// as a plain amount for the core fonts.
	rows := withoutSeparators(goals.Rows)
	for i, g := range r.plan.Goals {
		if i < len(rows) {
			rows[i][2] = r.amount(projection.RoundCurrency(g.CurrentCost))
		}
	}

	r.sectionTitle("Goals")
	r.table(goals.Headers, rows, evenWidths(len(goals.Headers), 45))

	var srcRows [][]string
	totals := projection.SourceTotals(r.plan)
	for i, s := range r.plan.Sources {
		srcRows = append(srcRows, []string{s.Name, cli.FormatRate(s.ROI), r.amount(projection.RoundCurrency(totals[i]))})
	}
	r.sectionTitle("Sources")
	r.table([]string{"Source", "ROI", "Allocated (" + r.currency() + ")"}, srcRows, evenWidths(3, 90))
}
