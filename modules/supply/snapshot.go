package supply

import (
	"encoding/json"

	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/modules/ledgerstats"
	"github.com/gaze-network/ledger-scanner/pkg/decimals"
)

const SnapshotFile = "supply.json"

// Snapshot is the published supply document. Amounts are in native units.
type Snapshot struct {
	types.SnapshotHeader
	NativeCurrency string      `json:"native_currency"`
	Accounts       uint64      `json:"accounts"`
	Existing       json.Number `json:"existing"`
	Reserves       Reserves    `json:"reserves"`
	Supply         Breakdown   `json:"supply"`

	// LedgerData is null when the structural statistics disagree with the supply totals.
	LedgerData map[string]ledgerstats.TypeStat `json:"ledger_data"`
}

type Reserves struct {
	Account json.Number `json:"account"`
	Owner   json.Number `json:"owner"`
}

type Breakdown struct {
	Circulating       json.Number `json:"circulating"`
	TotalBalance      json.Number `json:"total_balance"`
	TotalReserved     json.Number `json:"total_reserved"`
	TransientReserves json.Number `json:"total_transient_reserves"`
	InEscrow          json.Number `json:"in_escrow"`
	InPayChannels     json.Number `json:"in_paychannels"`
	InTreasury        json.Number `json:"in_treasury"`
	InTreasuryLocked  json.Number `json:"in_treasury_locked"`
}

func native(drops int64) json.Number {
	return json.Number(decimals.FromDrops(drops).String())
}

func buildSnapshot(header types.LedgerHeader, nativeCurrency string, t Totals, ledgerData map[string]ledgerstats.TypeStat) Snapshot {
	return Snapshot{
		SnapshotHeader: header.SnapshotHeader(),
		NativeCurrency: nativeCurrency,
		Accounts:       t.Accounts,
		Existing:       native(t.Existing()),
		Reserves: Reserves{
			Account: native(t.AccountReserve),
			Owner:   native(t.OwnerReserve),
		},
		Supply: Breakdown{
			Circulating:       native(t.Circulating),
			TotalBalance:      native(t.Balance),
			TotalReserved:     native(t.Reserved),
			TransientReserves: native(t.TransientReserves),
			InEscrow:          native(t.Escrow),
			InPayChannels:     native(t.PayChannels),
			InTreasury:        native(t.Treasury),
			InTreasuryLocked:  native(t.TreasuryLocked),
		},
		LedgerData: ledgerData,
	}
}
