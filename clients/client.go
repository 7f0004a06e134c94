package clients

import (
	"context"

	"github.com/vitwit/walletpay/types"
)

// Provider is the single capability surface every injected wallet is
// normalized to. Implementations wrap exactly one injected object shape.
type Provider interface {
	Kind() types.ProviderKind

	// Connect asks the wallet for approval and returns the raw address it
	// reports. It may block until the user answers the extension prompt.
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error

	// CurrentAddress reads the object's public key without prompting.
	CurrentAddress() string

	// OnConnect and OnDisconnect register for notifications the wallet
	// fires on its own. They return a func that removes the listener.
	OnConnect(fn func(address string)) (off func())
	OnDisconnect(fn func()) (off func())
}

// MessageSigner is implemented by providers that can sign arbitrary bytes.
type MessageSigner interface {
	SignMessage(ctx context.Context, msg []byte) (signature []byte, err error)
}

// Namespace stands in for the browser global namespace wallets inject into.
type Namespace interface {
	Lookup(name string) (any, bool)
}

// MapNamespace is a Namespace backed by a map.
type MapNamespace map[string]any

func (m MapNamespace) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok && v != nil
}
