// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders money amounts for one currency and grouping style.
type Formatter struct {
	Currency string // ISO 4217 code
	Indian   bool   // lakh/crore grouping instead of thousands
}

// DefaultFormatter groups rupees the Indian way.
func DefaultFormatter() Formatter {
	return Formatter{Currency: "INR", Indian: true}
}

// Amount formats a whole-unit amount with grouping but no symbol.
func (f Formatter) Amount(v int64) string {
	if f.Indian {
		return FormatIndian(v)
	}
	return FormatNumber(v)
}

// Money formats a whole-unit amount with its currency symbol. Indian
// grouping keeps whole units; otherwise go-money renders the currency's
// own symbol and minor units.
func (f Formatter) Money(v int64) string {
	code := strings.ToUpper(f.Currency)
	if code == "" {
		code = "INR"
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return code + " " + f.Amount(v)
	}
	if f.Indian {
		sym := cur.Grapheme
		if v < 0 {
			return "-" + sym + FormatIndian(-v)
		}
		return sym + FormatIndian(v)
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := decimal.NewFromInt(v).Mul(factor).IntPart()
	return money.New(minor, code).Display()
}

// FormatIndian groups digits the Indian way: the last three digits, then
// pairs. e.g., 12345678 -> "1,23,45,678"
func FormatIndian(n int64) string {
	if n < 0 {
		return "-" + FormatIndian(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatRate formats a whole-number percent rate, dropping a zero fraction.
// e.g., 8 -> "8%", 7.5 -> "7.5%"
func FormatRate(pct float64) string {
	if pct == math.Trunc(pct) {
		return fmt.Sprintf("%.0f%%", pct)
	}
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatTenure formats years and months compactly.
// e.g., (5, 0) -> "5y", (2, 6) -> "2y 6m", (0, 3) -> "3m"
func FormatTenure(years, months int) string {
	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%dy %dm", years, months)
	case months > 0:
		return fmt.Sprintf("%dm", months)
	default:
		return fmt.Sprintf("%dy", years)
	}
}
