package common

type Network string

const (
	NetworkXahauMainnet Network = "xahau-mainnet"
	NetworkXahauTestnet Network = "xahau-testnet"
	NetworkXRPLMainnet  Network = "xrpl-mainnet"
	NetworkXRPLTestnet  Network = "xrpl-testnet"
)

// NetworkParams holds the per-network constants the scanner relies on.
type NetworkParams struct {
	// NativeCurrency is the ticker of the native asset (1 unit = 1,000,000 drops).
	NativeCurrency string

	// Hooks is true on networks that carry Hook/URIToken ledger objects.
	Hooks bool
}

var networkParams = map[Network]NetworkParams{
	NetworkXahauMainnet: {NativeCurrency: "XAH", Hooks: true},
	NetworkXahauTestnet: {NativeCurrency: "XAH", Hooks: true},
	NetworkXRPLMainnet:  {NativeCurrency: "XRP"},
	NetworkXRPLTestnet:  {NativeCurrency: "XRP"},
}

func (n Network) IsSupported() bool {
	_, ok := networkParams[n]
	return ok
}

func (n Network) Params() NetworkParams {
	return networkParams[n]
}

func (n Network) String() string {
	return string(n)
}
