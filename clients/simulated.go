package clients

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
)

// SimulatedWallet is an in-memory wallet extension. It backs the simulated
// Phantom, Solflare and generic objects used by the console example and by
// tests. Prompts are answered by the approval func, after an optional delay.
type SimulatedWallet struct {
	mu        sync.Mutex
	key       solana.PrivateKey
	connected bool
	approve   func(op string) error
	delay     time.Duration
	listeners map[string]map[int]func(args ...any)
	nextID    int
	prompts   int
}

// NewSimulatedWallet creates a wallet holding a fresh random key.
func NewSimulatedWallet() (*SimulatedWallet, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, err
	}
	return &SimulatedWallet{
		key:       key,
		listeners: make(map[string]map[int]func(args ...any)),
	}, nil
}

// SetApproval installs the func deciding every prompt. nil approves all.
func (w *SimulatedWallet) SetApproval(fn func(op string) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.approve = fn
}

// RejectAll makes every prompt fail as if the user clicked "Cancel".
func (w *SimulatedWallet) RejectAll() {
	w.SetApproval(func(string) error { return ErrRejected })
}

// SetDelay sets how long the user "thinks" before answering a prompt.
func (w *SimulatedWallet) SetDelay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

// Address is the wallet's base58 public key, connected or not.
func (w *SimulatedWallet) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.key.PublicKey().String()
}

// Prompts is the number of approval prompts shown so far.
func (w *SimulatedWallet) Prompts() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.prompts
}

func (w *SimulatedWallet) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *SimulatedWallet) PublicKey() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.connected {
		return ""
	}
	return w.key.PublicKey().String()
}

func (w *SimulatedWallet) prompt(ctx context.Context, op string) error {
	w.mu.Lock()
	w.prompts++
	delay, approve := w.delay, w.approve
	w.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	if approve != nil {
		return approve(op)
	}
	return nil
}

func (w *SimulatedWallet) connect(ctx context.Context) (string, error) {
	if w.IsConnected() {
		return w.Address(), nil
	}
	if err := w.prompt(ctx, "connect"); err != nil {
		return "", err
	}

	w.mu.Lock()
	w.connected = true
	pk := w.key.PublicKey().String()
	w.mu.Unlock()

	w.emit("connect", pk)
	return pk, nil
}

func (w *SimulatedWallet) disconnect(context.Context) error {
	w.mu.Lock()
	was := w.connected
	w.connected = false
	w.mu.Unlock()

	if was {
		w.emit("disconnect")
	}
	return nil
}

func (w *SimulatedWallet) sign(ctx context.Context, msg []byte) ([]byte, error) {
	if !w.IsConnected() {
		return nil, &ProviderError{Code: CodeUnauthorized, Message: "wallet not connected"}
	}
	if err := w.prompt(ctx, "signMessage"); err != nil {
		return nil, err
	}

	w.mu.Lock()
	key := w.key
	w.mu.Unlock()

	sig, err := key.Sign(msg)
	if err != nil {
		return nil, &ProviderError{Code: CodeInternal, Message: err.Error()}
	}
	return sig[:], nil
}

// SwitchAccount simulates the user picking another account in the
// extension. Listeners see a single "accountChanged" with the new key.
func (w *SimulatedWallet) SwitchAccount() (string, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	w.key = key
	w.connected = true
	pk := key.PublicKey().String()
	w.mu.Unlock()

	w.emit("accountChanged", pk)
	return pk, nil
}

// ConnectFromExtension simulates the user connecting from the extension UI.
func (w *SimulatedWallet) ConnectFromExtension() string {
	w.mu.Lock()
	w.connected = true
	pk := w.key.PublicKey().String()
	w.mu.Unlock()

	w.emit("connect", pk)
	return pk
}

// DisconnectFromExtension simulates the user disconnecting the site from
// the extension UI.
func (w *SimulatedWallet) DisconnectFromExtension() {
	_ = w.disconnect(context.Background())
}

func (w *SimulatedWallet) on(event string, handler func(args ...any)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.listeners[event] == nil {
		w.listeners[event] = make(map[int]func(args ...any))
	}
	id := w.nextID
	w.nextID++
	w.listeners[event][id] = handler

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners[event], id)
	}
}

// Listeners reports how many handlers are registered across all events.
func (w *SimulatedWallet) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, hs := range w.listeners {
		n += len(hs)
	}
	return n
}

func (w *SimulatedWallet) emit(event string, args ...any) {
	w.mu.Lock()
	ids := make([]int, 0, len(w.listeners[event]))
	for id := range w.listeners[event] {
		ids = append(ids, id)
	}
	handlers := make([]func(args ...any), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, w.listeners[event][id])
	}
	w.mu.Unlock()

	for _, h := range handlers {
		h(args...)
	}
}

// SimulatedPhantom exposes a SimulatedWallet with Phantom's shape.
type SimulatedPhantom struct {
	*SimulatedWallet
}

var _ PhantomObject = SimulatedPhantom{}

func (SimulatedPhantom) IsPhantom() bool { return true }

func (p SimulatedPhantom) Connect(ctx context.Context) (PhantomConnectResult, error) {
	pk, err := p.connect(ctx)
	return PhantomConnectResult{PublicKey: pk}, err
}

func (p SimulatedPhantom) Disconnect(ctx context.Context) error { return p.disconnect(ctx) }

func (p SimulatedPhantom) On(event string, handler func(args ...any)) func() {
	return p.on(event, handler)
}

func (p SimulatedPhantom) SignMessage(ctx context.Context, msg []byte) (PhantomSignedMessage, error) {
	sig, err := p.sign(ctx, msg)
	if err != nil {
		return PhantomSignedMessage{}, err
	}
	return PhantomSignedMessage{Signature: sig, PublicKey: p.PublicKey()}, nil
}

// SimulatedSolflare exposes a SimulatedWallet with Solflare's shape.
type SimulatedSolflare struct {
	*SimulatedWallet
}

var _ SolflareObject = SimulatedSolflare{}

func (SimulatedSolflare) IsSolflare() bool { return true }

func (s SimulatedSolflare) Connect(ctx context.Context) (bool, error) {
	if _, err := s.connect(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s SimulatedSolflare) Disconnect(ctx context.Context) error { return s.disconnect(ctx) }

// On maps "accountChanged" onto "connect", which is what Solflare fires.
func (s SimulatedSolflare) On(event string, handler func()) func() {
	off := s.on(event, func(...any) { handler() })
	if event != "connect" {
		return off
	}
	return combine(off, s.on("accountChanged", func(...any) { handler() }))
}

func (s SimulatedSolflare) SignMessage(ctx context.Context, msg []byte, _ string) ([]byte, error) {
	return s.sign(ctx, msg)
}

// SimulatedGeneric exposes a SimulatedWallet with the unbranded shape.
type SimulatedGeneric struct {
	*SimulatedWallet
}

var _ GenericObject = SimulatedGeneric{}

func (g SimulatedGeneric) Connect(ctx context.Context) (string, error) { return g.connect(ctx) }

func (g SimulatedGeneric) Disconnect(ctx context.Context) error { return g.disconnect(ctx) }

func (g SimulatedGeneric) Subscribe(event string, fn func(address string)) func() {
	handler := func(args ...any) { fn(firstString(args)) }
	off := g.on(event, handler)
	if event != "connect" {
		return off
	}
	return combine(off, g.on("accountChanged", handler))
}

func (g SimulatedGeneric) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	return g.sign(ctx, msg)
}
