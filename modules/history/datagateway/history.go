package datagateway

import (
	"context"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/modules/history/entity"
)

type HistoryDataGateway interface {
	CreatePass(ctx context.Context, pass entity.Pass) error
	GetPasses(ctx context.Context, network common.Network, limit, offset int32) ([]entity.Pass, error)

	// GetLatestSuccessfulPass returns errs.NotFound when no pass succeeded yet.
	GetLatestSuccessfulPass(ctx context.Context, network common.Network) (entity.Pass, error)
}
