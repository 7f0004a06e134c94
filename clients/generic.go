package clients

import (
	"context"

	"github.com/vitwit/walletpay/types"
)

// GenericObject is the minimal wallet-like shape accepted from injection
// points that carry no brand flag.
type GenericObject interface {
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	IsConnected() bool
	PublicKey() string

	// Subscribe registers for "connect" (address) and "disconnect" ("").
	Subscribe(event string, fn func(address string)) (off func())
}

type genericSigner interface {
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

// GenericProvider adapts a GenericObject to Provider. It reports
// ProviderUnknown.
type GenericProvider struct {
	obj GenericObject
}

var _ Provider = (*GenericProvider)(nil)

func NewGenericProvider(obj GenericObject) *GenericProvider {
	return &GenericProvider{obj: obj}
}

func (p *GenericProvider) Kind() types.ProviderKind { return types.ProviderUnknown }

func (p *GenericProvider) Connect(ctx context.Context) (string, error) {
	return p.obj.Connect(ctx)
}

func (p *GenericProvider) Disconnect(ctx context.Context) error {
	return p.obj.Disconnect(ctx)
}

func (p *GenericProvider) CurrentAddress() string {
	if !p.obj.IsConnected() {
		return ""
	}
	return p.obj.PublicKey()
}

func (p *GenericProvider) OnConnect(fn func(address string)) func() {
	return p.obj.Subscribe("connect", func(address string) {
		if address != "" {
			fn(address)
		}
	})
}

func (p *GenericProvider) OnDisconnect(fn func()) func() {
	return p.obj.Subscribe("disconnect", func(string) { fn() })
}

func (p *GenericProvider) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	s, ok := p.obj.(genericSigner)
	if !ok {
		return nil, &ProviderError{Code: CodeUnsupported, Message: "signMessage not supported"}
	}
	return s.SignMessage(ctx, msg)
}
