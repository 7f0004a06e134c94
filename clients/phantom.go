package clients

import (
	"context"

	"github.com/vitwit/walletpay/types"
)

// PhantomConnectResult is what Phantom's connect resolves with.
type PhantomConnectResult struct {
	PublicKey string `json:"publicKey"`
}

// PhantomObject is the shape Phantom injects at phantom.solana (and, for
// older versions, at solana).
type PhantomObject interface {
	IsPhantom() bool
	Connect(ctx context.Context) (PhantomConnectResult, error)
	Disconnect(ctx context.Context) error
	IsConnected() bool
	PublicKey() string

	// On registers handler for "connect" (publicKey), "disconnect" () and
	// "accountChanged" (publicKey or nil).
	On(event string, handler func(args ...any)) (off func())
}

// PhantomSignedMessage is what Phantom's signMessage resolves with.
type PhantomSignedMessage struct {
	Signature []byte
	PublicKey string
}

type phantomSigner interface {
	SignMessage(ctx context.Context, msg []byte) (PhantomSignedMessage, error)
}

// PhantomProvider adapts a PhantomObject to Provider.
type PhantomProvider struct {
	obj PhantomObject
}

var _ Provider = (*PhantomProvider)(nil)

func NewPhantomProvider(obj PhantomObject) *PhantomProvider {
	return &PhantomProvider{obj: obj}
}

func (p *PhantomProvider) Kind() types.ProviderKind { return types.ProviderPhantom }

func (p *PhantomProvider) Connect(ctx context.Context) (string, error) {
	res, err := p.obj.Connect(ctx)
	if err != nil {
		return "", err
	}
	return res.PublicKey, nil
}

func (p *PhantomProvider) Disconnect(ctx context.Context) error {
	return p.obj.Disconnect(ctx)
}

func (p *PhantomProvider) CurrentAddress() string {
	if !p.obj.IsConnected() {
		return ""
	}
	return p.obj.PublicKey()
}

// OnConnect fires on "connect" and on "accountChanged" with a new key.
func (p *PhantomProvider) OnConnect(fn func(address string)) func() {
	handler := func(args ...any) {
		if pk := firstString(args); pk != "" {
			fn(pk)
		}
	}
	return combine(p.obj.On("connect", handler), p.obj.On("accountChanged", handler))
}

// OnDisconnect fires on "disconnect" and on "accountChanged" with no key.
func (p *PhantomProvider) OnDisconnect(fn func()) func() {
	return combine(
		p.obj.On("disconnect", func(...any) { fn() }),
		p.obj.On("accountChanged", func(args ...any) {
			if firstString(args) == "" {
				fn()
			}
		}),
	)
}

func (p *PhantomProvider) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	s, ok := p.obj.(phantomSigner)
	if !ok {
		return nil, &ProviderError{Code: CodeUnsupported, Message: "signMessage not supported"}
	}
	res, err := s.SignMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	return res.Signature, nil
}

func firstString(args []any) string {
	if len(args) == 0 {
		return ""
	}
	switch v := args[0].(type) {
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	default:
		return ""
	}
}

func combine(offs ...func()) func() {
	return func() {
		for _, off := range offs {
			if off != nil {
				off()
			}
		}
	}
}
