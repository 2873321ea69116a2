package entity

import (
	"time"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/types"
)

// Pass is one recorded scan pass.
type Pass struct {
	ID              int64             `json:"id"`
	Network         common.Network    `json:"network"`
	LedgerIndex     types.LedgerIndex `json:"ledger_index"`
	LedgerHash      string            `json:"ledger_hash"`
	LedgerCloseTime time.Time         `json:"ledger_close_time"`
	Generation      string            `json:"generation,omitempty"`
	Pages           uint64            `json:"pages"`
	Objects         uint64            `json:"objects"`
	Duration        time.Duration     `json:"duration"`

	// CirculatingDrops and ExistingDrops are nil for failed passes.
	CirculatingDrops *int64 `json:"circulating_drops,omitempty"`
	ExistingDrops    *int64 `json:"existing_drops,omitempty"`

	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}
