package postgres

import (
	"testing"
	"time"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/modules/history/entity"
	"github.com/gaze-network/ledger-scanner/modules/history/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestMapPass(t *testing.T) {
	startedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	closeTime := startedAt.Add(-time.Minute)

	t.Run("successful", func(t *testing.T) {
		pass := entity.Pass{
			Network:          common.NetworkXahauMainnet,
			LedgerIndex:      100,
			LedgerHash:       "ABC",
			LedgerCloseTime:  closeTime,
			Generation:       "1-100",
			Pages:            3,
			Objects:          250_000,
			Duration:         90 * time.Second,
			CirculatingDrops: lo.ToPtr(int64(5_000_000)),
			ExistingDrops:    lo.ToPtr(int64(6_000_000)),
			StartedAt:        startedAt,
		}

		params := mapPassTypeToParams(pass)
		assert.Equal(t, int64(90_000), params.DurationMs)
		assert.False(t, params.Error.Valid)
		assert.Equal(t, pgtype.Int8{Int64: 5_000_000, Valid: true}, params.CirculatingDrops)

		model := gen.ScanPass{
			ID:               1,
			Network:          params.Network,
			LedgerIndex:      params.LedgerIndex,
			LedgerHash:       params.LedgerHash,
			LedgerCloseTime:  params.LedgerCloseTime,
			Generation:       params.Generation,
			Pages:            params.Pages,
			Objects:          params.Objects,
			DurationMs:       params.DurationMs,
			CirculatingDrops: params.CirculatingDrops,
			ExistingDrops:    params.ExistingDrops,
			Error:            params.Error,
			StartedAt:        params.StartedAt,
		}
		pass.ID = 1
		assert.Equal(t, pass, mapPassModelToType(model))
	})
	t.Run("failed", func(t *testing.T) {
		pass := entity.Pass{
			Network:   common.NetworkXRPLMainnet,
			Error:     "retry exhausted",
			StartedAt: startedAt,
		}

		params := mapPassTypeToParams(pass)
		assert.Equal(t, pgtype.Text{String: "retry exhausted", Valid: true}, params.Error)
		assert.False(t, params.LedgerCloseTime.Valid)
		assert.False(t, params.CirculatingDrops.Valid)
		assert.Nil(t, ptrFromInt8(params.ExistingDrops))
	})
}
