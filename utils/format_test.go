package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShortAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AB12CD34EF56", "AB12...EF56"},
		{"AB12", "AB12"},
		{"AB12CD34", "AB12CD34"},
		{"AB12CD34E", "AB12...D34E"},
		{"", ""},
		{"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", "7xKX...gAsU"},
		{"ÄÖÜßäöüéèê", "ÄÖÜß...üéèê"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortAddress(tt.in))
		})
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1.05", "$1.05"},
		{"1234.5", "$1,234.50"},
		{"0.004", "<$0.01"},
		{"0.005", "$0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestEstimateLabel(t *testing.T) {
	assert.Equal(t, "≈ $2.50 USD", EstimateLabel(decimal.RequireFromString("2.5")))
}

func TestFormatTokenAmount(t *testing.T) {
	assert.Equal(t, "2.5 TOKEN", FormatTokenAmount(decimal.RequireFromString("2.50"), "TOKEN"))
	assert.Equal(t, "3", FormatTokenAmount(decimal.NewFromInt(3), ""))
}
