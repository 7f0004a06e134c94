package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderKind identifies which injected wallet object was detected
type ProviderKind string

const (
	ProviderNone     ProviderKind = "none"
	ProviderPhantom  ProviderKind = "phantom"
	ProviderSolflare ProviderKind = "solflare"
	ProviderUnknown  ProviderKind = "unknown"
)

func (p ProviderKind) String() string {
	return string(p)
}

// Present reports whether any wallet object was found.
func (p ProviderKind) Present() bool {
	return p != "" && p != ProviderNone
}

// DisplayName is the brand name shown to users.
func (p ProviderKind) DisplayName() string {
	switch p {
	case ProviderPhantom:
		return "Phantom"
	case ProviderSolflare:
		return "Solflare"
	case ProviderUnknown:
		return "Wallet"
	default:
		return ""
	}
}

// WalletConnection is the adapter's view of the external wallet.
type WalletConnection struct {
	Provider ProviderKind `json:"provider"`

	// Address is set only while connected.
	Address string `json:"address,omitempty"`
}

// Connected is true iff an address is set
func (w WalletConnection) Connected() bool {
	return w.Address != ""
}

// UnitPrice is the fixed USD price of one token used for the estimate shown
// next to the amount field. It is not a live price feed.
var UnitPrice = decimal.RequireFromString("0.00042")

// PaymentAmount is the user-entered amount plus its derived display value.
type PaymentAmount struct {
	// Raw is exactly what the user typed.
	Raw string `json:"raw"`

	Numeric decimal.Decimal `json:"numeric"`

	// Valid is false when Raw is empty, unparsable or not positive.
	Valid bool `json:"valid"`

	// USDEstimate is Numeric * UnitPrice. Zero and meaningless when !Valid.
	USDEstimate decimal.Decimal `json:"usdEstimate"`
}

// HasEstimate reports whether the USD estimate should be displayed.
func (a PaymentAmount) HasEstimate() bool {
	return a.Valid
}

// Status of a payment session
type Status string

const (
	StatusIdle           Status = "idle"
	StatusWalletRequired Status = "walletRequired"
	StatusSubmitting     Status = "submitting"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether s ends a session.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// PaymentSession is the state of one "Pay" attempt.
type PaymentSession struct {
	ID          string        `json:"id"`
	Status      Status        `json:"status"`
	Reason      FailureReason `json:"reason,omitempty"`
	Message     string        `json:"message"`
	StartedAt   time.Time     `json:"startedAt,omitempty"`
	CompletedAt time.Time     `json:"completedAt,omitempty"`
	Reference   string        `json:"reference,omitempty"`
}

// Config contains global configuration for the walletpay library
type Config struct {
	LogLevel      string `json:"logLevel,omitempty" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics bool   `json:"enableMetrics,omitempty" env:"ENABLE_METRICS"`

	// SubmissionTimeout moves a stuck submission to failed. Zero disables it.
	SubmissionTimeout time.Duration `json:"submissionTimeout,omitempty" env:"SUBMISSION_TIMEOUT" validate:"gte=0"`

	// MinAmount is the smallest payable amount, as a decimal string.
	MinAmount string `json:"minAmount" env:"MIN_AMOUNT" validate:"required,numeric"`

	ClearAmountOnSuccess bool   `json:"clearAmountOnSuccess,omitempty" env:"CLEAR_AMOUNT_ON_SUCCESS"`
	TokenSymbol          string `json:"tokenSymbol" env:"TOKEN_SYMBOL" validate:"required,max=12"`

	// SimulatedDelay is how long the simulated submitter "processes" a payment.
	SimulatedDelay time.Duration `json:"simulatedDelay,omitempty" env:"SIMULATED_DELAY" validate:"gte=0"`
}

// DefaultConfig returns the configuration used by the promotional page.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		SubmissionTimeout:    60 * time.Second,
		MinAmount:            "0.000001",
		ClearAmountOnSuccess: true,
		TokenSymbol:          "TOKEN",
		SimulatedDelay:       2 * time.Second,
	}
}

// MinAmountDecimal parses MinAmount. Invalid values fall back to the default.
func (c *Config) MinAmountDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(c.MinAmount)
	if err != nil || !d.IsPositive() {
		return decimal.RequireFromString(DefaultConfig().MinAmount)
	}
	return d
}
