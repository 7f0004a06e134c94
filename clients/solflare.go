package clients

import (
	"context"
	"errors"

	"github.com/vitwit/walletpay/types"
)

// SolflareObject is the shape Solflare injects at solflare. Unlike Phantom,
// connect resolves with a flag and the key is read from PublicKey afterwards.
type SolflareObject interface {
	IsSolflare() bool
	Connect(ctx context.Context) (bool, error)
	Disconnect(ctx context.Context) error
	IsConnected() bool
	PublicKey() string
	On(event string, handler func()) (off func())
}

type solflareSigner interface {
	SignMessage(ctx context.Context, msg []byte, display string) ([]byte, error)
}

// SolflareProvider adapts a SolflareObject to Provider.
type SolflareProvider struct {
	obj SolflareObject
}

var _ Provider = (*SolflareProvider)(nil)

func NewSolflareProvider(obj SolflareObject) *SolflareProvider {
	return &SolflareProvider{obj: obj}
}

func (p *SolflareProvider) Kind() types.ProviderKind { return types.ProviderSolflare }

func (p *SolflareProvider) Connect(ctx context.Context) (string, error) {
	ok, err := p.obj.Connect(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrRejected
	}

	pk := p.obj.PublicKey()
	if pk == "" {
		return "", errors.New("solflare connected without a public key")
	}
	return pk, nil
}

func (p *SolflareProvider) Disconnect(ctx context.Context) error {
	return p.obj.Disconnect(ctx)
}

func (p *SolflareProvider) CurrentAddress() string {
	if !p.obj.IsConnected() {
		return ""
	}
	return p.obj.PublicKey()
}

func (p *SolflareProvider) OnConnect(fn func(address string)) func() {
	return p.obj.On("connect", func() {
		if pk := p.obj.PublicKey(); pk != "" {
			fn(pk)
		}
	})
}

func (p *SolflareProvider) OnDisconnect(fn func()) func() {
	return p.obj.On("disconnect", fn)
}

func (p *SolflareProvider) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	s, ok := p.obj.(solflareSigner)
	if !ok {
		return nil, &ProviderError{Code: CodeUnsupported, Message: "signMessage not supported"}
	}
	return s.SignMessage(ctx, msg, "utf8")
}
