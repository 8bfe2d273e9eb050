package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies priced in whole units only. Every other currency rounds to
// two decimal places when an amount leaves the pricing pipeline.
var zeroDecimalCurrencies = map[string]struct{}{
	"NPR": {},
	"INR": {},
	"JPY": {},
	"KRW": {},
	"VND": {},
	"IDR": {},
}

// DecimalPlaces returns how many fractional digits the currency carries.
func DecimalPlaces(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[normalize(currency)]; ok {
		return 0
	}
	return 2
}

// Round applies the currency rounding policy to an amount.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(DecimalPlaces(currency))
}

// Round2 rounds to two decimal places regardless of currency. Intermediate
// pipeline steps that are defined as round2 in the quote algorithm use this.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Percent returns amount * percent / 100 without rounding.
func Percent(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(decimal.NewFromInt(100))
}

// Convert multiplies an amount by an exchange rate.
func Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

func normalize(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
