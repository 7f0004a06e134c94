package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitwit/walletpay/types"
)

var price = decimal.RequireFromString("0.00042")

func TestParseAmount_Invalid(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "0", "0.0", "-1", "-0.5", "1,5", "NaN", "Infinity", "1.2.3", "0x10",
		"1e999999999", "1e-999999999", "1E3", "2.5e1",
		"0.0000000000000000001", strings.Repeat("9", MaxAmountLength+1)} {
		t.Run(raw, func(t *testing.T) {
			amt := ParseAmount(raw, price)
			assert.Equal(t, raw, amt.Raw)
			assert.False(t, amt.Valid)
			assert.False(t, amt.HasEstimate())
			assert.True(t, amt.USDEstimate.IsZero())
		})
	}
}

func TestParseAmount_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2.5", "0.00105"},
		{"1", "0.00042"},
		{" 10 ", "0.0042"},
		{"0.1", "0.000042"},
		{"1000000", "420"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			amt := ParseAmount(tt.raw, price)
			require.True(t, amt.Valid)
			assert.True(t, amt.HasEstimate())
			assert.True(t, amt.USDEstimate.Equal(decimal.RequireFromString(tt.want)), "got %s", amt.USDEstimate)
			assert.True(t, amt.USDEstimate.Equal(amt.Numeric.Mul(price)))
		})
	}
}

func TestParseAmount_StableAcrossRecomputation(t *testing.T) {
	first := ParseAmount("0.1", price)
	for i := 0; i < 100; i++ {
		again := ParseAmount("0.1", price)
		require.True(t, again.USDEstimate.Equal(first.USDEstimate))
	}
}

func TestCheckPayable(t *testing.T) {
	min := decimal.RequireFromString("0.001")

	assert.NoError(t, CheckPayable(ParseAmount("0.001", price), min))
	assert.NoError(t, CheckPayable(ParseAmount("2.5", price), min))

	err := CheckPayable(ParseAmount("0.0001", price), min)
	assert.True(t, errors.Is(err, types.ErrInvalidAmount))

	err = CheckPayable(ParseAmount("abc", price), min)
	assert.True(t, errors.Is(err, types.ErrInvalidAmount))
}

func TestNormalizeAddress(t *testing.T) {
	key := solana.NewWallet().PublicKey().String()

	got, err := NormalizeAddress(key, false)
	require.NoError(t, err)
	assert.Equal(t, types.FamilySolana, got.Family)
	assert.Equal(t, key, got.Value)

	_, err = NormalizeAddress("0x742d35cc6634c0532925a3b844bc454e4438f44e", false)
	assert.Error(t, err)

	got, err = NormalizeAddress("0x742d35cc6634c0532925a3b844bc454e4438f44e", true)
	require.NoError(t, err)
	assert.Equal(t, types.FamilyEVM, got.Family)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", got.Value)

	_, err = NormalizeAddress("AB12CD34EF56", true)
	assert.Error(t, err)

	_, err = NormalizeAddress("", true)
	assert.Error(t, err)
}
