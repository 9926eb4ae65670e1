// Package money converts between integer minor units and display amounts.
//
// All persisted amounts are int64 minor units (paise for INR). Conversion to
// display values divides by 100; formatting groups the major part with the
// English locale's thousands separator and always prints two minor digits.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSymbol is the symbol for the single supported currency (INR).
const DefaultSymbol = "₹"

const minorPerMajor = 100

var hundred = decimal.NewFromInt(minorPerMajor)

// Codec formats minor-unit amounts for display.
type Codec struct {
	symbol  string
	printer *message.Printer
}

// NewCodec returns a codec that prefixes amounts with symbol.
// An empty symbol falls back to DefaultSymbol.
func NewCodec(symbol string) *Codec {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return &Codec{
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}
}

var defaultCodec = NewCodec(DefaultSymbol)

// Format renders minor units with the default codec.
func Format(minor int64) string {
	return defaultCodec.Format(minor)
}

// Format renders minor units, e.g. 123456 -> "₹1,234.56" and -20000 -> "-₹200.00".
func (c *Codec) Format(minor int64) string {
	return c.FormatDecimal(decimal.NewFromInt(minor))
}

// FormatDecimal renders a possibly fractional minor-unit amount, rounding the
// display value to two places.
func (c *Codec) FormatDecimal(minor decimal.Decimal) string {
	major := Round2(minor.Div(hundred))

	sign := ""
	if major.IsNegative() {
		sign = "-"
		major = major.Abs()
	}

	whole := major.IntPart()
	cents := major.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()

	return fmt.Sprintf("%s%s%s.%02d", sign, c.symbol, c.printer.Sprintf("%d", whole), cents)
}

// ToMinorUnits converts a display amount to minor units, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts minor units to an exact display amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
