package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitwit/walletpay/types"
)

func newWallet(t *testing.T) *SimulatedWallet {
	t.Helper()
	w, err := NewSimulatedWallet()
	require.NoError(t, err)
	return w
}

type notPhantom struct {
	SimulatedPhantom
}

func (notPhantom) IsPhantom() bool { return false }

type explodingPhantom struct {
	SimulatedPhantom
}

func (explodingPhantom) IsPhantom() bool { panic("getter threw") }

func TestDetect(t *testing.T) {
	w := newWallet(t)
	phantom := SimulatedPhantom{SimulatedWallet: w}
	solflare := SimulatedSolflare{SimulatedWallet: w}
	generic := SimulatedGeneric{SimulatedWallet: w}

	tests := []struct {
		name string
		ns   Namespace
		want types.ProviderKind
	}{
		{"nil namespace", nil, types.ProviderNone},
		{"empty", MapNamespace{}, types.ProviderNone},
		{"phantom", MapNamespace{KeyPhantom: phantom}, types.ProviderPhantom},
		{"solflare", MapNamespace{KeySolflare: solflare}, types.ProviderSolflare},
		{"phantom wins over solflare", MapNamespace{KeySolflare: solflare, KeyPhantom: phantom}, types.ProviderPhantom},
		{"legacy solana slot with phantom", MapNamespace{KeySolana: phantom}, types.ProviderPhantom},
		{"legacy solana slot with solflare", MapNamespace{KeySolana: solflare}, types.ProviderSolflare},
		{"generic solana", MapNamespace{KeySolana: generic}, types.ProviderUnknown},
		{"ethereum", MapNamespace{KeyEthereum: generic}, types.ProviderUnknown},
		{"solana before ethereum", MapNamespace{KeyEthereum: generic, KeySolana: solflare}, types.ProviderSolflare},
		{"wrong shape is ignored", MapNamespace{KeyPhantom: "not a wallet"}, types.ProviderNone},
		{"flag not set", MapNamespace{KeyPhantom: notPhantom{phantom}}, types.ProviderNone},
		{"panicking object falls through", MapNamespace{KeyPhantom: explodingPhantom{phantom}, KeySolflare: solflare}, types.ProviderSolflare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got types.ProviderKind = types.ProviderNone
			assert.NotPanics(t, func() {
				if p := Detect(tt.ns); p != nil {
					got = p.Kind()
				}
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviders_ConnectAndEvents(t *testing.T) {
	w := newWallet(t)

	providers := map[string]Provider{
		"phantom":  NewPhantomProvider(SimulatedPhantom{SimulatedWallet: w}),
		"solflare": NewSolflareProvider(SimulatedSolflare{SimulatedWallet: w}),
		"generic":  NewGenericProvider(SimulatedGeneric{SimulatedWallet: w}),
	}

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			var connects []string
			var disconnects int
			offConnect := p.OnConnect(func(addr string) { connects = append(connects, addr) })
			offDisconnect := p.OnDisconnect(func() { disconnects++ })

			addr, err := p.Connect(context.Background())
			require.NoError(t, err)
			assert.Equal(t, w.Address(), addr)
			assert.Equal(t, addr, p.CurrentAddress())

			switched, err := w.SwitchAccount()
			require.NoError(t, err)

			require.NoError(t, p.Disconnect(context.Background()))
			assert.Empty(t, p.CurrentAddress())

			require.Len(t, connects, 2)
			assert.Equal(t, addr, connects[0])
			assert.Equal(t, switched, connects[1])
			assert.Equal(t, 1, disconnects)

			offConnect()
			offDisconnect()
			assert.Zero(t, w.Listeners())
		})
	}
}

func TestProviders_Rejection(t *testing.T) {
	w := newWallet(t)
	w.RejectAll()

	for _, p := range []Provider{
		NewPhantomProvider(SimulatedPhantom{SimulatedWallet: w}),
		NewSolflareProvider(SimulatedSolflare{SimulatedWallet: w}),
		NewGenericProvider(SimulatedGeneric{SimulatedWallet: w}),
	} {
		_, err := p.Connect(context.Background())
		require.Error(t, err, p.Kind())
		assert.ErrorIs(t, Classify("connect", err), types.ErrUserRejected, p.Kind())
	}
}
