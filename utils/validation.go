package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/vitwit/walletpay/types"
)

var base58Pattern = regexp.MustCompile("^[1-9A-HJ-NP-Za-km-z]+$")

// Amount input limits. Exponent notation is not accepted: decimal rescales
// through big.Int powers of ten, so "1e999999999" would never finish.
const (
	MaxAmountLength   = 40
	MaxAmountExponent = 18
)

// ValidateAmount checks if an amount string is a valid decimal
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}
	if len(amount) > MaxAmountLength {
		return nil, fmt.Errorf("amount cannot be longer than %d characters", MaxAmountLength)
	}
	if strings.ContainsAny(amount, "eE") {
		return nil, fmt.Errorf("amount cannot use exponent notation")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}
	if exp := dec.Exponent(); exp < -MaxAmountExponent || exp > MaxAmountExponent {
		return nil, fmt.Errorf("amount precision out of range")
	}

	if dec.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &dec, nil
}

// ParseAmount derives a PaymentAmount from what the user typed. The estimate
// is only set when the amount parses to a positive decimal.
func ParseAmount(raw string, unitPrice decimal.Decimal) types.PaymentAmount {
	amt := types.PaymentAmount{Raw: raw}

	dec, err := ValidateAmount(raw)
	if err != nil || !dec.IsPositive() {
		return amt
	}

	amt.Numeric = *dec
	amt.Valid = true
	amt.USDEstimate = dec.Mul(unitPrice)
	return amt
}

// CheckPayable returns ErrInvalidAmount unless amt is valid and at least min.
func CheckPayable(amt types.PaymentAmount, min decimal.Decimal) error {
	if !amt.Valid {
		return types.NewError(types.ReasonInvalidAmount, "amount is not a positive number", nil)
	}
	if amt.Numeric.LessThan(min) {
		return types.NewError(types.ReasonInvalidAmount, fmt.Sprintf("amount is below the minimum of %s", min), nil)
	}
	return nil
}

// ValidateSolanaAddress parses a base58 encoded ed25519 public key.
func ValidateSolanaAddress(address string) (solana.PublicKey, error) {
	if address == "" {
		return solana.PublicKey{}, fmt.Errorf("address cannot be empty")
	}
	if !base58Pattern.MatchString(address) {
		return solana.PublicKey{}, fmt.Errorf("solana address must be valid base58")
	}

	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid solana address: %w", err)
	}
	return pk, nil
}

// NormalizeAddress validates an address reported by a wallet. Solana keys are
// always accepted; 0x hex addresses only when allowEVM is set, and are
// returned checksummed.
func NormalizeAddress(address string, allowEVM bool) (types.NormalizedAddress, error) {
	address = strings.TrimSpace(address)

	if pk, err := ValidateSolanaAddress(address); err == nil {
		return types.NormalizedAddress{Value: pk.String(), Family: types.FamilySolana}, nil
	}

	if allowEVM && common.IsHexAddress(address) {
		return types.NormalizedAddress{
			Value:  common.HexToAddress(address).Hex(),
			Family: types.FamilyEVM,
		}, nil
	}

	return types.NormalizedAddress{}, fmt.Errorf("unrecognized wallet address %q", ShortAddress(address))
}
