package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ellipsis = "..."

var usdPrinter = message.NewPrinter(language.English)

// ShortAddress keeps the first and last four characters of an address.
// Addresses of eight characters or fewer are returned unchanged.
func ShortAddress(address string) string {
	r := []rune(address)
	if len(r) <= 8 {
		return address
	}
	return string(r[:4]) + ellipsis + string(r[len(r)-4:])
}

// FormatUSD renders d as a dollar amount with two decimals and grouping.
// Positive values that round to zero render as "<$0.01".
func FormatUSD(d decimal.Decimal) string {
	rounded := d.Round(2)
	if d.IsPositive() && rounded.IsZero() {
		return "<$0.01"
	}
	return usdPrinter.Sprintf("$%.2f", rounded.InexactFloat64())
}

// EstimateLabel is the text shown next to the amount field.
func EstimateLabel(usd decimal.Decimal) string {
	return "≈ " + FormatUSD(usd) + " USD"
}

// FormatTokenAmount renders an amount with its token symbol.
func FormatTokenAmount(d decimal.Decimal, symbol string) string {
	if symbol == "" {
		return d.String()
	}
	return d.String() + " " + symbol
}
