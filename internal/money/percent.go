package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a percentage rounded to two places. A zero denominator yields a
// non-finite value, which is rendered as "N/A" and serialized as null.
type Percent float64

// PercentOf returns round2(part / whole * 100).
// When whole is zero the result is +Inf, -Inf or NaN depending on the sign of part.
func PercentOf(part, whole int64) Percent {
	if whole == 0 {
		switch {
		case part > 0:
			return Percent(math.Inf(1))
		case part < 0:
			return Percent(math.Inf(-1))
		default:
			return Percent(math.NaN())
		}
	}

	v, _ := decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(whole)).
		Round(2).
		Float64()
	return Percent(v)
}

func (p Percent) IsFinite() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Exceeds reports whether p is finite and strictly greater than threshold.
func (p Percent) Exceeds(threshold float64) bool {
	return p.IsFinite() && float64(p) > threshold
}

func (p Percent) String() string {
	if !p.IsFinite() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.IsFinite() {
		return []byte("null"), nil
	}
	return []byte(decimal.NewFromFloat(float64(p)).StringFixed(2)), nil
}
