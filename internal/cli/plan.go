package cli

import (
	"strconv"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
)

// ProjectionTable lays out one row per goal in priority order, followed by
// a separator and the totals row. Detail adds the intermediate values and
// a funded bar.
func ProjectionTable(p model.Projection, f Formatter, detail bool) Table {
	headers := []string{"Goal", "Prio", "Existing Today", "Lumpsum Today", "SIP / Month"}
	if detail {
		headers = append(headers, "Future Cost", "FV Existing", "Shortfall", "SIP From Zero", "Funded")
	}

	t := Table{Title: "Outputs", Headers: headers}
	for _, r := range p.Rows {
		rr := projection.Round(r)
		row := []string{
			rr.Goal,
			strconv.Itoa(rr.Priority),
			f.Money(rr.ExistingToday),
			f.Money(rr.LumpsumToday),
			f.Money(rr.SIPPerMonth),
		}
		if detail {
			row = append(row,
				f.Money(rr.FutureCost),
				f.Money(rr.FVExisting),
				f.Money(rr.Shortfall),
				f.Money(rr.SIPFromZero),
				RenderFundedBar(r.FundedRatio(), 10),
			)
		}
		t.Rows = append(t.Rows, row)
	}

	tot := projection.RoundTotals(p.Totals)
	totals := []string{"Total", "", f.Money(tot.Existing), f.Money(tot.Lumpsum), f.Money(tot.SIP)}
	if detail {
		totals = append(totals, "", "", "", "", "")
	}
	if len(t.Rows) > 0 {
		t.Rows = append(t.Rows, []string{separatorRow})
	}
	t.Rows = append(t.Rows, totals)
	return t
}

// GoalsTable lays out the editable inputs with one column per source and
// a trailing column-total row.
func GoalsTable(p model.Plan, f Formatter) Table {
	headers := []string{"Goal", "Prio", "Current Cost", "Tenure", "Infl", "New ROI"}
	for _, s := range p.Sources {
		headers = append(headers, s.Name)
	}

	t := Table{Title: "Goals", Headers: headers}
	for _, g := range p.Goals {
		row := []string{
			g.Name,
			strconv.Itoa(g.Priority),
			f.Money(projection.RoundCurrency(g.CurrentCost)),
			FormatTenure(g.Years, g.Months),
			FormatRate(g.InflationPct),
			FormatRate(g.NewROIPct),
		}
		for _, s := range p.Sources {
			row = append(row, f.Amount(projection.RoundCurrency(g.Allocations[s.Name])))
		}
		t.Rows = append(t.Rows, row)
	}

	if len(p.Sources) > 0 && len(p.Goals) > 0 {
		totals := []string{"Total", "", "", "", "", ""}
		for _, v := range projection.SourceTotals(p) {
			totals = append(totals, f.Amount(projection.RoundCurrency(v)))
		}
		t.Rows = append(t.Rows, []string{separatorRow}, totals)
	}
	return t
}

// SourcesTable lists sources with their return and total allocated.
func SourcesTable(p model.Plan, f Formatter) Table {
	t := Table{Title: "Sources", Headers: []string{"Source", "ROI", "Allocated"}}
	totals := projection.SourceTotals(p)
	for i, s := range p.Sources {
		t.Rows = append(t.Rows, []string{
			s.Name,
			FormatRate(s.ROI),
			f.Money(projection.RoundCurrency(totals[i])),
		})
	}
	return t
}
