package model

// Row holds the projection of one goal. Values are unrounded; see
// projection.Round for display.
type Row struct {
	Goal        string  `json:"goal"`
	Priority    int     `json:"priority"`
	TenureYears float64 `json:"tenure_years"`

	FutureCost float64 `json:"future_cost"`
	FVExisting float64 `json:"fv_existing"`
	Shortfall  float64 `json:"shortfall"`

	ExistingToday float64 `json:"existing_today"`
	LumpsumToday  float64 `json:"lumpsum_today"`
	SIPPerMonth   float64 `json:"sip_per_month"`

	// SIPFromZero is the monthly SIP that would reach FutureCost with no
	// existing capital at all. Reported alongside, never used in totals.
	SIPFromZero float64 `json:"sip_from_zero"`
}

// FundedRatio is the share of the future cost already covered by
// projected existing capital, clamped to [0, 1].
func (r Row) FundedRatio() float64 {
	if r.FutureCost <= 0 {
		return 1
	}
	ratio := r.FVExisting / r.FutureCost
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	}
	return ratio
}

// Totals aggregates per-goal outputs across the plan.
type Totals struct {
	Existing float64 `json:"existing"`
	Lumpsum  float64 `json:"lumpsum"`
	SIP      float64 `json:"sip"`
}

// Projection is the full output table for a plan.
type Projection struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}
