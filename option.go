package walletpay

import (
	"time"

	"github.com/vitwit/walletpay/logger"
	"github.com/vitwit/walletpay/metrics"
	"github.com/vitwit/walletpay/submission"
)

type Option func(*WalletPay)

func WithLogger(l logger.Logger) Option {
	return func(w *WalletPay) {
		w.logger = l
	}
}

func WithMetrics(m metrics.Recorder) Option {
	return func(w *WalletPay) {
		w.metrics = m
	}
}

// WithTimeout overrides Config.SubmissionTimeout. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(w *WalletPay) {
		w.timeout = &d
	}
}

// WithSubmitter replaces the simulated submitter.
func WithSubmitter(s submission.Submitter) Option {
	return func(w *WalletPay) {
		w.submitter = s
	}
}

// WithWalletApproval makes each payment ask the connected wallet to sign an
// approval message instead of using the simulated submitter.
func WithWalletApproval() Option {
	return func(w *WalletPay) {
		w.approval = true
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *WalletPay) {
		w.now = now
	}
}
