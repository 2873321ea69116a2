package ledgerobject

import "sort"

// AccountRoot flags.
const (
	LsfPasswordSpent                 uint32 = 0x00010000
	LsfRequireDestTag                uint32 = 0x00020000
	LsfRequireAuth                   uint32 = 0x00040000
	LsfDisallowXRP                   uint32 = 0x00080000
	LsfDisableMaster                 uint32 = 0x00100000
	LsfNoFreeze                      uint32 = 0x00200000
	LsfGlobalFreeze                  uint32 = 0x00400000
	LsfDefaultRipple                 uint32 = 0x00800000
	LsfDepositAuth                   uint32 = 0x01000000
	LsfDisallowIncomingNFTokenOffer  uint32 = 0x04000000
	LsfDisallowIncomingCheck         uint32 = 0x08000000
	LsfDisallowIncomingPayChan       uint32 = 0x10000000
	LsfDisallowIncomingTrustline     uint32 = 0x20000000
	LsfAllowTrustLineClawback        uint32 = 0x80000000
)

// Offer flags.
const (
	LsfPassive uint32 = 0x00010000
	LsfSell    uint32 = 0x00020000
)

// RippleState flags.
const (
	LsfLowReserve   uint32 = 0x00010000
	LsfHighReserve  uint32 = 0x00020000
	LsfLowAuth      uint32 = 0x00040000
	LsfHighAuth     uint32 = 0x00080000
	LsfLowNoRipple  uint32 = 0x00100000
	LsfHighNoRipple uint32 = 0x00200000
	LsfLowFreeze    uint32 = 0x00400000
	LsfHighFreeze   uint32 = 0x00800000
)

// SignerList, NFTokenOffer and URIToken flags.
const (
	LsfOneOwnerCount uint32 = 0x00010000
	LsfSellNFToken   uint32 = 0x00000001
	LsfBurnable      uint32 = 0x00000001
)

type flagDef struct {
	name string
	mask uint32
}

var flagDefs = map[EntryType][]flagDef{
	EntryTypeAccountRoot: {
		{"lsfPasswordSpent", LsfPasswordSpent},
		{"lsfRequireDestTag", LsfRequireDestTag},
		{"lsfRequireAuth", LsfRequireAuth},
		{"lsfDisallowXRP", LsfDisallowXRP},
		{"lsfDisableMaster", LsfDisableMaster},
		{"lsfNoFreeze", LsfNoFreeze},
		{"lsfGlobalFreeze", LsfGlobalFreeze},
		{"lsfDefaultRipple", LsfDefaultRipple},
		{"lsfDepositAuth", LsfDepositAuth},
		{"lsfDisallowIncomingNFTokenOffer", LsfDisallowIncomingNFTokenOffer},
		{"lsfDisallowIncomingCheck", LsfDisallowIncomingCheck},
		{"lsfDisallowIncomingPayChan", LsfDisallowIncomingPayChan},
		{"lsfDisallowIncomingTrustline", LsfDisallowIncomingTrustline},
		{"lsfAllowTrustLineClawback", LsfAllowTrustLineClawback},
	},
	EntryTypeOffer: {
		{"lsfPassive", LsfPassive},
		{"lsfSell", LsfSell},
	},
	EntryTypeRippleState: {
		{"lsfLowReserve", LsfLowReserve},
		{"lsfHighReserve", LsfHighReserve},
		{"lsfLowAuth", LsfLowAuth},
		{"lsfHighAuth", LsfHighAuth},
		{"lsfLowNoRipple", LsfLowNoRipple},
		{"lsfHighNoRipple", LsfHighNoRipple},
		{"lsfLowFreeze", LsfLowFreeze},
		{"lsfHighFreeze", LsfHighFreeze},
	},
	EntryTypeSignerList: {
		{"lsfOneOwnerCount", LsfOneOwnerCount},
	},
	EntryTypeNFTokenOffer: {
		{"lsfSellNFToken", LsfSellNFToken},
	},
	EntryTypeURIToken: {
		{"lsfBurnable", LsfBurnable},
	},
}

// DecodeFlags returns the named flags of t and whether each is set in flags.
// Types without named flags return nil.
func DecodeFlags(t EntryType, flags uint32) map[string]bool {
	defs, ok := flagDefs[t]
	if !ok {
		return nil
	}
	decoded := make(map[string]bool, len(defs))
	for _, d := range defs {
		decoded[d.name] = flags&d.mask != 0
	}
	return decoded
}

// FlagNames returns the sorted flag names known for t.
func FlagNames(t EntryType) []string {
	defs := flagDefs[t]
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.name)
	}
	sort.Strings(names)
	return names
}
