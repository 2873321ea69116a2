package ledgerobject

import "strings"

// EntryType is the closed set of ledger entry types the scanner knows.
type EntryType uint8

const (
	EntryTypeUnknown EntryType = iota
	EntryTypeAccountRoot
	EntryTypeAmendments
	EntryTypeAMM
	EntryTypeBridge
	EntryTypeCheck
	EntryTypeDepositPreauth
	EntryTypeDID
	EntryTypeDirectoryNode
	EntryTypeEmittedTxn
	EntryTypeEscrow
	EntryTypeFeeSettings
	EntryTypeHook
	EntryTypeHookDefinition
	EntryTypeHookState
	EntryTypeImportVLSequence
	EntryTypeLedgerHashes
	EntryTypeNegativeUNL
	EntryTypeNFTokenOffer
	EntryTypeNFTokenPage
	EntryTypeOffer
	EntryTypeOracle
	EntryTypePayChannel
	EntryTypeRippleState
	EntryTypeSignerList
	EntryTypeTicket
	EntryTypeUNLReport
	EntryTypeURIToken
	EntryTypeXChainOwnedClaimID
	EntryTypeXChainOwnedCreateAccountClaimID
)

var entryTypeNames = [...]string{
	EntryTypeUnknown:                         "Unknown",
	EntryTypeAccountRoot:                     "AccountRoot",
	EntryTypeAmendments:                      "Amendments",
	EntryTypeAMM:                             "AMM",
	EntryTypeBridge:                          "Bridge",
	EntryTypeCheck:                           "Check",
	EntryTypeDepositPreauth:                  "DepositPreauth",
	EntryTypeDID:                             "DID",
	EntryTypeDirectoryNode:                   "DirectoryNode",
	EntryTypeEmittedTxn:                      "EmittedTxn",
	EntryTypeEscrow:                          "Escrow",
	EntryTypeFeeSettings:                     "FeeSettings",
	EntryTypeHook:                            "Hook",
	EntryTypeHookDefinition:                  "HookDefinition",
	EntryTypeHookState:                       "HookState",
	EntryTypeImportVLSequence:                "ImportVLSequence",
	EntryTypeLedgerHashes:                    "LedgerHashes",
	EntryTypeNegativeUNL:                     "NegativeUNL",
	EntryTypeNFTokenOffer:                    "NFTokenOffer",
	EntryTypeNFTokenPage:                     "NFTokenPage",
	EntryTypeOffer:                           "Offer",
	EntryTypeOracle:                          "Oracle",
	EntryTypePayChannel:                      "PayChannel",
	EntryTypeRippleState:                     "RippleState",
	EntryTypeSignerList:                      "SignerList",
	EntryTypeTicket:                          "Ticket",
	EntryTypeUNLReport:                       "UNLReport",
	EntryTypeURIToken:                        "URIToken",
	EntryTypeXChainOwnedClaimID:              "XChainOwnedClaimID",
	EntryTypeXChainOwnedCreateAccountClaimID: "XChainOwnedCreateAccountClaimID",
}

var entryTypesByName = func() map[string]EntryType {
	m := make(map[string]EntryType, len(entryTypeNames))
	for t, name := range entryTypeNames {
		m[name] = EntryType(t)
	}
	return m
}()

// ParseEntryType maps a LedgerEntryType name to its EntryType.
// Unrecognized names map to EntryTypeUnknown.
func ParseEntryType(name string) EntryType {
	if t, ok := entryTypesByName[name]; ok {
		return t
	}
	return EntryTypeUnknown
}

func (t EntryType) String() string {
	if int(t) < len(entryTypeNames) {
		return entryTypeNames[t]
	}
	return entryTypeNames[EntryTypeUnknown]
}

// Key is the lowercase bucket name used in structural statistics.
func (t EntryType) Key() string {
	return strings.ToLower(t.String())
}

// EntryTypeSet is a set of entry types used for processor dispatch.
type EntryTypeSet uint64

func NewEntryTypeSet(types ...EntryType) EntryTypeSet {
	var s EntryTypeSet
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

func (s EntryTypeSet) Has(t EntryType) bool {
	return s&(1<<t) != 0
}
