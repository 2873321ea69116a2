package history

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/modules/history/datagateway"
	"github.com/gaze-network/ledger-scanner/modules/history/entity"
	"github.com/gaze-network/ledger-scanner/modules/supply"
)

// SupplySource returns the supply totals of the last finalized pass.
type SupplySource interface {
	Last() (supply.Totals, bool)
}

var _ scanner.Recorder = (*Recorder)(nil)

// Recorder stores every scan pass in the history data gateway.
type Recorder struct {
	network common.Network
	dg      datagateway.HistoryDataGateway
	supply  SupplySource
}

func NewRecorder(network common.Network, dg datagateway.HistoryDataGateway, supply SupplySource) *Recorder {
	return &Recorder{network: network, dg: dg, supply: supply}
}

func (r *Recorder) RecordPass(ctx context.Context, result scanner.PassResult) error {
	pass := entity.Pass{
		Network:     r.network,
		LedgerIndex: result.Header.Index,
		LedgerHash:  result.Header.Hash,
		Generation:  result.Generation,
		Pages:       result.Pages,
		Objects:     result.Objects,
		Duration:    result.Duration,
		StartedAt:   result.StartedAt,
	}
	if result.Header.CloseTime != 0 {
		pass.LedgerCloseTime = result.Header.CloseTimeUnix()
	}

	if result.Failed() {
		pass.Error = result.Err.Error()
	} else if r.supply != nil {
		if totals, ok := r.supply.Last(); ok {
			circulating, existing := totals.Circulating, totals.Existing()
			pass.CirculatingDrops = &circulating
			pass.ExistingDrops = &existing
		}
	}

	if err := r.dg.CreatePass(ctx, pass); err != nil {
		return errors.Wrap(err, "can't record scan pass")
	}
	return nil
}
