// Package wallet wraps whichever wallet object the page finds injected into
// the global namespace behind one capability surface, and republishes the
// wallet's own connect/disconnect notifications to subscribers.
package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vitwit/walletpay/clients"
	"github.com/vitwit/walletpay/logger"
	"github.com/vitwit/walletpay/metrics"
	"github.com/vitwit/walletpay/types"
	"github.com/vitwit/walletpay/utils"
)

// Adapter owns the page's WalletConnection. The rest of the module only sees
// WalletConnection values and subscription callbacks, never the raw object.
type Adapter struct {
	ns      clients.Namespace
	log     logger.Logger
	metrics metrics.Recorder

	// pubMu orders publications so subscribers observe changes in the
	// order they were applied.
	pubMu sync.Mutex

	mu       sync.RWMutex
	provider clients.Provider
	conn     types.WalletConnection
	subs     map[int]func(types.WalletConnection)
	nextSub  int
	offs     []func()
}

type Option func(*Adapter)

func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(a *Adapter) {
		if r != nil {
			a.metrics = r
		}
	}
}

// Probe inspects ns for a supported wallet. It has no side effects and
// reports absence as ProviderNone.
func Probe(ns clients.Namespace) types.WalletConnection {
	return types.WalletConnection{Provider: kindOf(clients.Detect(ns))}
}

// NewAdapter probes ns and, when a wallet is found, registers for its own
// connect/disconnect notifications. The connection starts disconnected.
func NewAdapter(ns clients.Namespace, opts ...Option) *Adapter {
	a := &Adapter{
		ns:      ns,
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
		subs:    make(map[int]func(types.WalletConnection)),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.provider = clients.Detect(ns)
	a.conn = types.WalletConnection{Provider: kindOf(a.provider)}
	a.log = a.log.With(map[string]any{"provider": a.conn.Provider.String()})

	if a.provider != nil {
		a.attach(a.provider)
	}

	a.log.Debug("wallet probed", nil)
	return a
}

func (a *Adapter) attach(p clients.Provider) {
	var offs []func()

	err := clients.Guard("register listeners", func() error {
		offs = append(offs, p.OnConnect(a.handleConnect))
		offs = append(offs, p.OnDisconnect(a.handleDisconnect))
		return nil
	})
	if err != nil {
		a.log.Warn("failed to register wallet listeners", map[string]any{"error": err})
	}
	a.offs = offs
}

// Probe re-inspects the namespace without touching the adapter's state.
func (a *Adapter) Probe() types.WalletConnection {
	return Probe(a.ns)
}

// Connection returns the cached connection.
func (a *Adapter) Connection() types.WalletConnection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.conn
}

// CurrentAddress returns the last known address. It never prompts.
func (a *Adapter) CurrentAddress() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.conn.Address, a.conn.Connected()
}

// Connect asks the wallet to connect. It fails with ErrNoWalletFound, without
// calling anything, when no wallet was detected, and with ErrUserRejected
// when the user declines. The call returns when ctx is done even if the
// wallet never answers.
func (a *Adapter) Connect(ctx context.Context) (string, error) {
	a.mu.RLock()
	p := a.provider
	a.mu.RUnlock()

	labels := map[string]string{"provider": kindOf(p).String()}

	if p == nil {
		labels["reason"] = types.ReasonNoWalletFound.String()
		a.metrics.IncCounter(metrics.EventWalletConnectFailed, labels)
		return "", types.ErrNoWalletFound
	}

	start := time.Now()
	var raw string
	err := call(ctx, "wallet connect", func(ctx context.Context) error {
		var err error
		raw, err = p.Connect(ctx)
		return err
	})
	a.metrics.ObserveLatency(metrics.OpWalletConnect, time.Since(start), labels)

	if err == nil {
		var addr types.NormalizedAddress
		addr, err = utils.NormalizeAddress(raw, p.Kind() == types.ProviderUnknown)
		if err != nil {
			err = types.NewError(types.ReasonUnknown, "wallet returned an invalid address", err)
		} else {
			raw = addr.Value
		}
	}

	if err != nil {
		labels["reason"] = types.ReasonOf(err).String()
		a.metrics.IncCounter(metrics.EventWalletConnectFailed, labels)
		a.log.Info("wallet connect failed", map[string]any{"reason": labels["reason"], "error": err})
		return "", err
	}

	a.setAddress(raw)
	a.metrics.IncCounter(metrics.EventWalletConnect, labels)
	a.log.Info("wallet connected", map[string]any{"address": utils.ShortAddress(raw)})
	return raw, nil
}

// Disconnect asks the wallet to disconnect and clears the cached address.
// It always succeeds; wallet errors are only logged.
func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.RLock()
	p, wasConnected := a.provider, a.conn.Connected()
	a.mu.RUnlock()

	if p != nil {
		err := call(ctx, "wallet disconnect", p.Disconnect)
		if err != nil {
			a.log.Warn("wallet disconnect returned an error", map[string]any{"error": err})
		}
	}

	a.setAddress("")
	if wasConnected {
		a.metrics.IncCounter(metrics.EventWalletDisconnect, map[string]string{"provider": kindOf(p).String()})
		a.log.Info("wallet disconnected", nil)
	}
	return nil
}

// SignMessage asks the connected wallet to sign msg.
func (a *Adapter) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	a.mu.RLock()
	p, cached := a.provider, a.conn
	a.mu.RUnlock()

	if p == nil {
		return nil, types.ErrNoWalletFound
	}
	if !cached.Connected() {
		return nil, types.NewError(types.ReasonUnknown, "wallet is not connected", nil)
	}

	// The wallet must still hold the account the page shows.
	var live string
	_ = clients.Guard("current address", func() error {
		live = p.CurrentAddress()
		return nil
	})
	if addr, err := utils.NormalizeAddress(live, p.Kind() == types.ProviderUnknown); err != nil || addr.Value != cached.Address {
		return nil, types.NewError(types.ReasonUnknown, "wallet account changed", err)
	}

	signer, ok := p.(clients.MessageSigner)
	if !ok {
		return nil, types.NewError(types.ReasonUnknown, "wallet cannot sign messages", nil)
	}

	var sig []byte
	err := call(ctx, "sign message", func(ctx context.Context) error {
		var err error
		sig, err = signer.SignMessage(ctx, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// Subscribe registers fn for connection changes, including those the wallet
// fires on its own. The returned func unsubscribes.
func (a *Adapter) Subscribe(fn func(types.WalletConnection)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

// Close detaches from the wallet and resets to ProviderNone, as on page
// unload.
func (a *Adapter) Close() {
	a.mu.Lock()
	offs := a.offs
	a.offs = nil
	a.provider = nil
	a.conn = types.WalletConnection{Provider: types.ProviderNone}
	a.subs = make(map[int]func(types.WalletConnection))
	a.mu.Unlock()

	for _, off := range offs {
		if off == nil {
			continue
		}
		_ = clients.Guard("remove listener", func() error {
			off()
			return nil
		})
	}
}

func (a *Adapter) handleConnect(raw string) {
	a.mu.RLock()
	p := a.provider
	a.mu.RUnlock()
	if p == nil {
		return
	}

	addr, err := utils.NormalizeAddress(raw, p.Kind() == types.ProviderUnknown)
	if err != nil {
		a.log.Warn("ignoring wallet notification with invalid address", map[string]any{"error": err})
		return
	}

	if a.setAddress(addr.Value) {
		a.log.Info("wallet connected externally", map[string]any{"address": utils.ShortAddress(addr.Value)})
	}
}

func (a *Adapter) handleDisconnect() {
	if a.setAddress("") {
		a.log.Info("wallet disconnected externally", nil)
	}
}

// setAddress updates the cached connection and publishes it when it
// changed. It reports whether anything changed.
func (a *Adapter) setAddress(addr string) bool {
	a.pubMu.Lock()
	defer a.pubMu.Unlock()

	a.mu.Lock()
	if a.provider == nil || a.conn.Address == addr {
		a.mu.Unlock()
		return false
	}
	a.conn.Address = addr
	conn := a.conn

	ids := make([]int, 0, len(a.subs))
	for id := range a.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(types.WalletConnection), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, a.subs[id])
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(conn)
	}
	return true
}

// call runs fn against the injected object. Panics become Unknown errors and
// the wait ends when ctx is done.
func call(ctx context.Context, op string, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- clients.Guard(op, func() error { return fn(ctx) })
	}()

	select {
	case err := <-done:
		return clients.Classify(op, err)
	case <-ctx.Done():
		return clients.Classify(op, ctx.Err())
	}
}

func kindOf(p clients.Provider) types.ProviderKind {
	if p == nil {
		return types.ProviderNone
	}
	return p.Kind()
}
