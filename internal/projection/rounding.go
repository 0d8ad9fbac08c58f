package projection

import "github.com/theirongolddev/goalfund/internal/model"

// RoundedRow is a Row as shown to the user: whole currency units.
type RoundedRow struct {
	Goal          string
	Priority      int
	FutureCost    int64
	FVExisting    int64
	Shortfall     int64
	ExistingToday int64
	LumpsumToday  int64
	SIPPerMonth   int64
	SIPFromZero   int64
}

// RoundedTotals are the plan totals rounded once after summing.
type RoundedTotals struct {
	Existing int64
	Lumpsum  int64
	SIP      int64
}

// Round converts a row for display.
func Round(r model.Row) RoundedRow {
	return RoundedRow{
		Goal:          r.Goal,
		Priority:      r.Priority,
		FutureCost:    RoundCurrency(r.FutureCost),
		FVExisting:    RoundCurrency(r.FVExisting),
		Shortfall:     RoundCurrency(r.Shortfall),
		ExistingToday: RoundCurrency(r.ExistingToday),
		LumpsumToday:  RoundCurrency(r.LumpsumToday),
		SIPPerMonth:   RoundCurrency(r.SIPPerMonth),
		SIPFromZero:   RoundCurrency(r.SIPFromZero),
	}
}

// RoundTotals rounds summed totals.
func RoundTotals(t model.Totals) RoundedTotals {
	return RoundedTotals{
		Existing: RoundCurrency(t.Existing),
		Lumpsum:  RoundCurrency(t.Lumpsum),
		SIP:      RoundCurrency(t.SIP),
	}
}
