package ledgerstats

import "github.com/gaze-network/ledger-scanner/core/types"

const SnapshotFile = "ledgerdata.json"

type Snapshot struct {
	types.SnapshotHeader
	LedgerData map[string]TypeStat `json:"ledger_data"`
}
