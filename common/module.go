package common

// Module names a snapshot producing component.
type Module string

const (
	ModuleTokens      Module = "tokens"
	ModuleNFTs        Module = "nfts"
	ModuleLedgerStats Module = "ledgerstats"
	ModuleSupply      Module = "supply"
	ModuleHooks       Module = "hooks"
	ModuleURITokens   Module = "uritokens"
)

func (m Module) String() string {
	return string(m)
}
