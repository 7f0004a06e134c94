// Package walletpay implements the wallet-gated payment session of a
// promotional token page: wallet detection, connection, amount entry with a
// USD estimate, and a single in-flight payment attempt per click.
package walletpay

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vitwit/walletpay/clients"
	"github.com/vitwit/walletpay/logger"
	"github.com/vitwit/walletpay/metrics"
	"github.com/vitwit/walletpay/session"
	"github.com/vitwit/walletpay/submission"
	"github.com/vitwit/walletpay/types"
	"github.com/vitwit/walletpay/utils"
	"github.com/vitwit/walletpay/wallet"
)

// WalletPay wires a wallet adapter, a submitter and the session controller
// for one page.
type WalletPay struct {
	config *types.Config

	logger    logger.Logger
	metrics   metrics.Recorder
	registry  *prometheus.Registry
	timeout   *time.Duration
	submitter submission.Submitter
	approval  bool
	now       func() time.Time

	adapter    *wallet.Adapter
	controller *session.Controller
}

// New validates cfg, probes ns for a wallet and renders the initial state
// on view. A nil cfg uses types.DefaultConfig.
func New(cfg *types.Config, ns clients.Namespace, view session.View, opts ...Option) (*WalletPay, error) {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	w := &WalletPay{config: cfg}
	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.NewZapLogger(cfg.LogLevel)
	}
	if w.metrics == nil {
		if cfg.EnableMetrics {
			w.registry = prometheus.NewRegistry()
			w.metrics = metrics.NewPrometheusRecorder(w.registry)
		} else {
			w.metrics = metrics.NoopRecorder{}
		}
	}

	w.adapter = wallet.NewAdapter(ns, wallet.WithLogger(w.logger), wallet.WithMetrics(w.metrics))

	if w.submitter == nil {
		if w.approval {
			w.submitter = submission.NewApprovalSubmitter(w.adapter)
		} else {
			w.submitter = submission.NewSimulatedSubmitter(cfg.SimulatedDelay)
		}
	}

	scfg := session.ConfigFrom(cfg)
	if w.timeout != nil {
		scfg.Timeout = *w.timeout
	}

	copts := []session.Option{
		session.WithLogger(w.logger),
		session.WithMetrics(w.metrics),
	}
	if w.now != nil {
		copts = append(copts, session.WithClock(w.now))
	}
	w.controller = session.NewController(w.adapter, w.submitter, view, scfg, copts...)

	w.logger.Info("walletpay ready", map[string]any{
		"provider": w.adapter.Connection().Provider.String(),
		"version":  Version,
	})
	return w, nil
}

// NewWithDefaults is New with the default configuration.
func NewWithDefaults(ns clients.Namespace, view session.View, opts ...Option) (*WalletPay, error) {
	return New(types.DefaultConfig(), ns, view, opts...)
}

// SetAmount records the raw amount input.
func (w *WalletPay) SetAmount(raw string) types.PaymentAmount {
	return w.controller.SetAmount(raw)
}

// Pay handles a Pay click.
func (w *WalletPay) Pay() types.PaymentSession {
	return w.controller.Pay()
}

// Connect asks the detected wallet to connect.
func (w *WalletPay) Connect(ctx context.Context) error {
	return w.controller.Connect(ctx)
}

// Disconnect disconnects the wallet.
func (w *WalletPay) Disconnect(ctx context.Context) error {
	return w.controller.Disconnect(ctx)
}

func (w *WalletPay) Amount() types.PaymentAmount {
	return w.controller.Amount()
}

func (w *WalletPay) Session() types.PaymentSession {
	return w.controller.Session()
}

// Wallet returns the connection as currently displayed.
func (w *WalletPay) Wallet() types.WalletConnection {
	return w.controller.Wallet()
}

// Probe re-inspects the namespace without side effects.
func (w *WalletPay) Probe() types.WalletConnection {
	return w.adapter.Probe()
}

// Wait blocks until no submission is in flight.
func (w *WalletPay) Wait() {
	w.controller.Wait()
}

// Config returns the validated configuration.
func (w *WalletPay) Config() types.Config {
	return *w.config
}

// Gatherer exposes the metrics registry created for Config.EnableMetrics.
// It is nil when metrics are disabled or a recorder was supplied.
func (w *WalletPay) Gatherer() prometheus.Gatherer {
	if w.registry == nil {
		return nil
	}
	return w.registry
}

// Close stops the controller, then detaches from the wallet.
func (w *WalletPay) Close() {
	w.controller.Close()
	w.adapter.Close()
	if z, ok := w.logger.(*logger.ZapLogger); ok {
		_ = z.Sync()
	}
}

// Version information
const (
	Version = "1.0.0"
)

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	return map[string]interface{}{
		"library_version": Version,
		"supported_wallets": []string{
			types.ProviderPhantom.String(),
			types.ProviderSolflare.String(),
			types.ProviderUnknown.String(),
		},
		"injection_points": append([]string(nil), clients.InjectionPoints...),
	}
}
