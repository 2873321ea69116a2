package supply

import (
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/pkg/xrpl/addresscodec"
)

// IsBlackholed reports whether the account can no longer authorize any
// transaction. Known sentinel accounts always are. Otherwise the master key
// must be disabled, the regular key absent or itself a sentinel, and no
// signer list may exist at the account's derived signer list index.
func (c *Calculator) IsBlackholed(account *ledgerobject.AccountRoot) bool {
	if _, ok := c.blackholes[account.Account]; ok {
		return true
	}
	if account.Flags&ledgerobject.LsfDisableMaster == 0 {
		return false
	}
	if account.RegularKey != "" {
		if _, ok := c.blackholes[account.RegularKey]; !ok {
			return false
		}
	}
	return !c.hasSignerList(account.Account)
}

func (c *Calculator) hasSignerList(address string) bool {
	id, err := addresscodec.DecodeAddress(address)
	if err != nil {
		return false
	}
	_, ok := c.signerLists[addresscodec.SignerListIndex(id)]
	return ok
}
