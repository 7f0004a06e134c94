// Package session drives the Pay button: amount entry, the USD estimate and
// the idle → submitting → succeeded/failed sequence of a payment session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitwit/walletpay/logger"
	"github.com/vitwit/walletpay/metrics"
	"github.com/vitwit/walletpay/submission"
	"github.com/vitwit/walletpay/types"
	"github.com/vitwit/walletpay/utils"
)

// Wallet is what the controller needs from the wallet adapter.
type Wallet interface {
	Connection() types.WalletConnection
	Subscribe(fn func(types.WalletConnection)) (unsubscribe func())
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
}

// Config holds the controller's fixed parameters.
type Config struct {
	UnitPrice decimal.Decimal
	MinAmount decimal.Decimal

	// Timeout is the soft submission timeout. Zero disables it.
	Timeout time.Duration

	ClearAmountOnSuccess bool
	TokenSymbol          string
}

// ConfigFrom builds a controller Config from the library config.
func ConfigFrom(cfg *types.Config) Config {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	return Config{
		UnitPrice:            types.UnitPrice,
		MinAmount:            cfg.MinAmountDecimal(),
		Timeout:              cfg.SubmissionTimeout,
		ClearAmountOnSuccess: cfg.ClearAmountOnSuccess,
		TokenSymbol:          cfg.TokenSymbol,
	}
}

// Controller owns the PaymentAmount and PaymentSession. Every event, whether
// from the UI or from the wallet, is applied under one lock, so the
// controller behaves like the single-threaded page it models.
type Controller struct {
	wallet    Wallet
	submitter submission.Submitter
	view      View
	cfg       Config
	log       logger.Logger
	metrics   metrics.Recorder
	now       func() time.Time

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()

	mu      sync.Mutex
	amount  types.PaymentAmount
	session types.PaymentSession
	conn    types.WalletConnection
	notice  string
	gen     uint64
	pending *types.WalletConnection
	closed  bool
}

type Option func(*Controller)

func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithClock replaces time.Now for StartedAt and CompletedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController subscribes to w and renders the initial idle state on v.
func NewController(w Wallet, s submission.Submitter, v View, cfg Config, opts ...Option) *Controller {
	if v == nil {
		v = NopView{}
	}
	if cfg.UnitPrice.IsZero() {
		cfg.UnitPrice = types.UnitPrice
	}
	if !cfg.MinAmount.IsPositive() {
		cfg.MinAmount = types.DefaultConfig().MinAmountDecimal()
	}

	c := &Controller{
		wallet:    w,
		submitter: s,
		view:      v,
		cfg:       cfg,
		log:       logger.NoopLogger{},
		metrics:   metrics.NoopRecorder{},
		now:       time.Now,
		session:   types.PaymentSession{Status: types.StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(map[string]any{"component": "session"})
	c.ctx, c.cancel = context.WithCancel(context.Background())

	// Subscribe before the snapshot so no change slips between the two.
	c.unsubscribe = w.Subscribe(c.onWallet)

	c.mu.Lock()
	c.conn = w.Connection()
	c.render()
	c.mu.Unlock()

	return c
}

// SetAmount records what the user typed and recomputes the estimate.
func (c *Controller) SetAmount(raw string) types.PaymentAmount {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.amount = utils.ParseAmount(raw, c.cfg.UnitPrice)

	// Editing dismisses the inline validation message.
	if c.session.Status == types.StatusIdle && c.session.Reason == types.ReasonInvalidAmount {
		c.session = types.PaymentSession{Status: types.StatusIdle}
	}

	c.render()
	return c.amount
}

// Pay handles a click on the Pay button and returns the resulting session.
// While a submission is in flight it does nothing.
func (c *Controller) Pay() types.PaymentSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.session
	}

	live := c.wallet.Connection()
	labels := map[string]string{"provider": live.Provider.String()}
	c.metrics.IncCounter(metrics.EventPayClicked, labels)

	if c.session.Status == types.StatusSubmitting {
		c.log.Debug("pay ignored while submitting", map[string]any{"session_id": c.session.ID})
		return c.session
	}
	if c.session.Status.Terminal() {
		c.session = types.PaymentSession{Status: types.StatusIdle}
	}
	c.conn = live
	c.notice = ""

	switch {
	case !c.conn.Provider.Present():
		c.session = types.PaymentSession{
			ID:          uuid.NewString(),
			Status:      types.StatusFailed,
			Reason:      types.ReasonNoWalletFound,
			Message:     types.ReasonNoWalletFound.Message(),
			CompletedAt: c.now(),
		}
		labels["reason"] = types.ReasonNoWalletFound.String()
		c.metrics.IncCounter(metrics.EventSessionFailed, labels)
		c.log.Info("payment failed", c.fields())

	case !c.conn.Connected():
		id := c.session.ID
		if id == "" {
			id = uuid.NewString()
		}
		c.session = types.PaymentSession{
			ID:      id,
			Status:  types.StatusWalletRequired,
			Message: MessageWalletRequired,
		}
		c.log.Info("wallet required", c.fields())

	default:
		if err := utils.CheckPayable(c.amount, c.cfg.MinAmount); err != nil {
			c.session = types.PaymentSession{
				Status:  types.StatusIdle,
				Reason:  types.ReasonInvalidAmount,
				Message: types.ReasonInvalidAmount.Message(),
			}
			labels["reason"] = types.ReasonInvalidAmount.String()
			c.metrics.IncCounter(metrics.EventAmountInvalid, labels)
			c.log.Debug("invalid amount", map[string]any{"raw": c.amount.Raw, "error": err})
		} else {
			c.start()
		}
	}

	c.render()
	return c.session
}

// start moves an idle session to submitting and launches the submission.
// Caller holds c.mu.
func (c *Controller) start() {
	c.gen++
	c.session = types.PaymentSession{
		ID:        uuid.NewString(),
		Status:    types.StatusSubmitting,
		Message:   MessageSubmitting,
		StartedAt: c.now(),
	}

	req := &submission.Request{
		SessionID:   c.session.ID,
		Provider:    c.conn.Provider,
		Payer:       c.conn.Address,
		Amount:      c.amount.Numeric,
		USDEstimate: c.amount.USDEstimate,
		TokenSymbol: c.cfg.TokenSymbol,
	}

	c.metrics.IncCounter(metrics.EventSessionStarted, map[string]string{"provider": c.conn.Provider.String()})
	c.log.Info("payment submitting", logger.Merge(c.fields(), map[string]any{
		"amount": req.Amount.String(),
		"payer":  utils.ShortAddress(req.Payer),
	}))

	c.wg.Add(1)
	go c.run(c.gen, req)
}

type outcome struct {
	receipt *submission.Receipt
	err     error
}

func (c *Controller) run(gen uint64, req *submission.Request) {
	defer c.wg.Done()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		var out outcome
		defer func() {
			if r := recover(); r != nil {
				out = outcome{err: types.NewError(types.ReasonUnknown, "submission panicked", fmt.Errorf("%v", r))}
			}
			done <- out
		}()
		out.receipt, out.err = c.submitter.Submit(ctx, req)
	}()

	// A submitter that ignores ctx is abandoned when the soft timeout fires.
	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: ctx.Err()}
	}

	// Whatever the submitter reported, a failure after the deadline is a timeout.
	if out.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.err = types.NewError(types.ReasonSubmissionTimedOut, types.ErrSubmissionTimedOut.Message, out.err)
	}

	c.finish(gen, req, out)
}

func (c *Controller) finish(gen uint64, req *submission.Request, out outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.session.Status != types.StatusSubmitting {
		return
	}

	completed := c.now()
	labels := map[string]string{"provider": req.Provider.String()}
	c.metrics.ObserveLatency(metrics.OpSubmission, completed.Sub(c.session.StartedAt), labels)

	c.session.CompletedAt = completed
	if out.err == nil {
		c.session.Status = types.StatusSucceeded
		c.session.Message = MessageSucceeded
		if out.receipt != nil {
			c.session.Reference = out.receipt.Reference
		}
		if c.cfg.ClearAmountOnSuccess {
			c.amount = types.PaymentAmount{}
			c.view.ClearAmount()
		}
		c.metrics.IncCounter(metrics.EventSessionSucceeded, labels)
		c.log.Info("payment succeeded", logger.Merge(c.fields(), map[string]any{"reference": c.session.Reference}))
	} else {
		reason := types.ReasonOf(out.err)
		if reason == types.ReasonNone || reason == types.ReasonInvalidAmount {
			reason = types.ReasonUnknown
		}
		c.session.Status = types.StatusFailed
		c.session.Reason = reason
		c.session.Message = reason.Message()
		labels["reason"] = reason.String()
		c.metrics.IncCounter(metrics.EventSessionFailed, labels)
		c.log.Warn("payment failed", logger.Merge(c.fields(), map[string]any{"error": out.err}))
	}

	if c.pending != nil {
		conn := *c.pending
		c.pending = nil
		c.applyWallet(conn)
	}

	c.render()
}

// onWallet receives connection changes from the adapter. Changes arriving
// mid-submission are held until the session is terminal.
func (c *Controller) onWallet(conn types.WalletConnection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.session.Status == types.StatusSubmitting {
		c.pending = &conn
		c.log.Debug("wallet change deferred", logger.Merge(c.fields(), map[string]any{"connected": conn.Connected()}))
		return
	}

	c.notice = ""
	c.applyWallet(conn)
	c.render()
}

// applyWallet updates the cached connection. It re-arms a session waiting on
// the wallet but never touches a terminal outcome. Caller holds c.mu.
func (c *Controller) applyWallet(conn types.WalletConnection) {
	c.conn = conn

	if c.session.Status == types.StatusWalletRequired && conn.Connected() {
		c.log.Info("wallet connected, session re-armed", c.fields())
		c.session = types.PaymentSession{Status: types.StatusIdle}
	}
}

// Connect runs the user's explicit "connect wallet" action. Failures are
// shown in the message region without changing the session status.
func (c *Controller) Connect(ctx context.Context) error {
	_, err := c.wallet.Connect(ctx)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed && c.session.Status != types.StatusSubmitting {
		c.notice = types.ReasonOf(err).Message()
		c.render()
	}
	return err
}

// Disconnect runs the user's explicit "disconnect" action.
func (c *Controller) Disconnect(ctx context.Context) error {
	return c.wallet.Disconnect(ctx)
}

// Amount returns the current amount.
func (c *Controller) Amount() types.PaymentAmount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amount
}

// Session returns a snapshot of the current session.
func (c *Controller) Session() types.PaymentSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Wallet returns the connection as last applied by the controller.
func (c *Controller) Wallet() types.WalletConnection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Wait blocks until no submission is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close unsubscribes from the wallet, cancels any in-flight submission and
// waits for it to settle.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) fields() map[string]any {
	f := map[string]any{
		"status":   c.session.Status.String(),
		"provider": c.conn.Provider.String(),
	}
	if c.session.ID != "" {
		f["session_id"] = c.session.ID
	}
	if c.session.Reason != types.ReasonNone {
		f["reason"] = c.session.Reason.String()
	}
	return f
}

// render writes the whole state to the view. Caller holds c.mu.
func (c *Controller) render() {
	switch c.session.Status {
	case types.StatusSubmitting:
		c.view.SetPayButton(LabelProcessing, true)
	case types.StatusFailed:
		c.view.SetPayButton(LabelTryAgain, false)
	default:
		c.view.SetPayButton(LabelPay, false)
	}

	switch {
	case c.notice != "":
		c.view.SetMessage(MessageError, c.notice)
	case c.session.Status == types.StatusSucceeded:
		c.view.SetMessage(MessageSuccess, c.session.Message)
	case c.session.Status == types.StatusFailed, c.session.Reason == types.ReasonInvalidAmount:
		c.view.SetMessage(MessageError, c.session.Message)
	case c.session.Message != "":
		c.view.SetMessage(MessageInfo, c.session.Message)
	default:
		c.view.SetMessage(MessageNone, "")
	}

	if c.amount.HasEstimate() {
		c.view.SetEstimate(utils.EstimateLabel(c.amount.USDEstimate), true)
	} else {
		c.view.SetEstimate("", false)
	}

	switch {
	case c.conn.Connected():
		c.view.SetWallet(utils.ShortAddress(c.conn.Address), true)
	case c.conn.Provider.Present():
		c.view.SetWallet(LabelConnectPrefix+c.conn.Provider.DisplayName(), false)
	default:
		c.view.SetWallet(LabelInstallWallet, false)
	}
}
