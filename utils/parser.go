package utils

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vitwit/walletpay/types"
)

// EnvPrefix is prepended to every environment variable read by ConfigFromEnv.
const EnvPrefix = "WALLETPAY_"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateConfig, types.Config{})
}

// validateConfig adds the checks struct tags cannot express.
func validateConfig(sl validator.StructLevel) {
	var cfg types.Config
	switch v := sl.Current().Interface().(type) {
	case types.Config:
		cfg = v
	case *types.Config:
		cfg = *v
	default:
		return
	}

	if cfg.MinAmount != "" {
		d, err := decimal.NewFromString(cfg.MinAmount)
		if err != nil || !d.IsPositive() {
			sl.ReportError(cfg.MinAmount, "MinAmount", "minAmount", "positive", "")
		}
	}
}

// ValidateConfig runs struct validation on cfg.
func ValidateConfig(cfg *types.Config) error {
	if cfg == nil {
		return types.NewError(types.ReasonUnknown, "config is nil", nil)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ParseConfig parses and validates a Config from JSON. Fields missing from
// data keep their DefaultConfig values.
func ParseConfig(data []byte) (*types.Config, error) {
	cfg := types.DefaultConfig()

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse walletpay config: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFromEnv overlays WALLETPAY_* environment variables on base, or on
// DefaultConfig when base is nil, and validates the result.
func ConfigFromEnv(base *types.Config) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if base != nil {
		c := *base
		cfg = &c
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SerializeSession converts a session snapshot to JSON
func SerializeSession(s types.PaymentSession) ([]byte, error) {
	return json.Marshal(s)
}
