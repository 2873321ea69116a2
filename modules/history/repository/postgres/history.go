package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/modules/history/datagateway"
	"github.com/gaze-network/ledger-scanner/modules/history/entity"
	"github.com/gaze-network/ledger-scanner/modules/history/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

var _ datagateway.HistoryDataGateway = (*Repository)(nil)

func (r *Repository) CreatePass(ctx context.Context, pass entity.Pass) error {
	if err := r.queries.CreateScanPass(ctx, mapPassTypeToParams(pass)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetPasses(ctx context.Context, network common.Network, limit, offset int32) ([]entity.Pass, error) {
	models, err := r.queries.GetScanPasses(ctx, gen.GetScanPassesParams{
		Network: network.String(),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.Map(models, func(m gen.ScanPass, _ int) entity.Pass { return mapPassModelToType(m) }), nil
}

func (r *Repository) GetLatestSuccessfulPass(ctx context.Context, network common.Network) (entity.Pass, error) {
	model, err := r.queries.GetLatestSuccessfulScanPass(ctx, network.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Pass{}, errors.WithStack(errs.NotFound)
		}
		return entity.Pass{}, errors.Wrap(err, "error during query")
	}
	return mapPassModelToType(model), nil
}
