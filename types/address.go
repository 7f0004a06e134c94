package types

// AddressFamily classifies a wallet address by the chain that issued it.
type AddressFamily string

const (
	FamilySolana AddressFamily = "solana"
	FamilyEVM    AddressFamily = "evm"
)

// NormalizedAddress is an address accepted from a provider after validation.
type NormalizedAddress struct {
	Value  string
	Family AddressFamily
}
