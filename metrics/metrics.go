package metrics

import "time"

// Recorder receives walletpay events and latencies.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Event names
const (
	EventWalletConnect       = "wallet_connect"
	EventWalletConnectFailed = "wallet_connect_failed"
	EventWalletDisconnect    = "wallet_disconnect"
	EventPayClicked          = "pay_clicked"
	EventAmountInvalid       = "amount_invalid"
	EventSessionStarted      = "session_started"
	EventSessionSucceeded    = "session_succeeded"
	EventSessionFailed       = "session_failed"
)

// Operation names for latency
const (
	OpSubmission    = "submission"
	OpWalletConnect = "wallet_connect"
)
