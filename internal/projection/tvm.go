package projection

import (
	"math"

	"github.com/shopspring/decimal"
)

// MonthsPerYear is the compounding frequency used for SIP contributions.
const MonthsPerYear = 12

// TenureYears converts a years+months horizon to fractional years.
// Negative components count as zero.
func TenureYears(years, months int) float64 {
	if years < 0 {
		years = 0
	}
	if months < 0 {
		months = 0
	}
	return float64(years) + float64(months)/MonthsPerYear
}

// FutureValue compounds amount annually at ratePct percent for years.
func FutureValue(amount, ratePct, years float64) float64 {
	if years <= 0 || ratePct == 0 {
		return amount
	}
	return amount * math.Pow(1+ratePct/100, years)
}

// PresentValue discounts a future amount at ratePct percent over years.
func PresentValue(future, ratePct, years float64) float64 {
	if years <= 0 || ratePct == 0 {
		return future
	}
	return future / math.Pow(1+ratePct/100, years)
}

// AnnuityPayment returns the end-of-period payment that grows to target
// after n periods at the given per-period rate. A zero rate divides the
// target evenly; n <= 0 yields zero.
func AnnuityPayment(target, periodRate float64, n int) float64 {
	if n <= 0 || target <= 0 {
		return 0
	}
	if periodRate == 0 {
		return target / float64(n)
	}
	growth := math.Pow(1+periodRate, float64(n)) - 1
	if growth == 0 {
		return 0
	}
	return target * periodRate / growth
}

// MonthlySIP is the SIP needed to accumulate target over tenure years at
// an annual rate of roiPct percent compounded monthly.
func MonthlySIP(target, roiPct, tenure float64) float64 {
	n := int(math.Round(tenure * MonthsPerYear))
	return AnnuityPayment(target, roiPct/100/MonthsPerYear, n)
}

// RoundCurrency rounds to the nearest whole currency unit, halves away
// from zero. Non-finite input rounds to zero and values outside the
// int64 range saturate.
func RoundCurrency(v float64) int64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// finite replaces NaN and infinities with zero so callers never see them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
