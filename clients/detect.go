package clients

// Injection points in the order they are probed. The first one holding a
// supported object wins.
const (
	KeyPhantom  = "phantom.solana"
	KeySolflare = "solflare"
	KeySolana   = "solana"
	KeyEthereum = "ethereum"
)

var InjectionPoints = []string{KeyPhantom, KeySolflare, KeySolana, KeyEthereum}

// Detect returns the highest priority provider found in ns, or nil when no
// supported wallet object is present. It never panics, even if an injected
// object does while being inspected.
func Detect(ns Namespace) Provider {
	if ns == nil {
		return nil
	}

	for _, key := range InjectionPoints {
		obj, ok := ns.Lookup(key)
		if !ok {
			continue
		}
		if p := adapt(key, obj); p != nil {
			return p
		}
	}
	return nil
}

func adapt(key string, obj any) (p Provider) {
	defer func() {
		if recover() != nil {
			p = nil
		}
	}()

	switch key {
	case KeyPhantom:
		if o, ok := obj.(PhantomObject); ok && o.IsPhantom() {
			return NewPhantomProvider(o)
		}
	case KeySolflare:
		if o, ok := obj.(SolflareObject); ok && o.IsSolflare() {
			return NewSolflareProvider(o)
		}
	case KeySolana:
		if o, ok := obj.(PhantomObject); ok && o.IsPhantom() {
			return NewPhantomProvider(o)
		}
		if o, ok := obj.(SolflareObject); ok && o.IsSolflare() {
			return NewSolflareProvider(o)
		}
		if o, ok := obj.(GenericObject); ok {
			return NewGenericProvider(o)
		}
	case KeyEthereum:
		if o, ok := obj.(GenericObject); ok {
			return NewGenericProvider(o)
		}
	}
	return nil
}
