package postgres

import (
	"time"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/modules/history/entity"
	"github.com/gaze-network/ledger-scanner/modules/history/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
)

func int8FromPtr(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func ptrFromInt8(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timeFromTimestamptz(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func mapPassTypeToParams(src entity.Pass) gen.CreateScanPassParams {
	var errText pgtype.Text
	if src.Error != "" {
		errText = pgtype.Text{String: src.Error, Valid: true}
	}
	return gen.CreateScanPassParams{
		Network:          src.Network.String(),
		LedgerIndex:      int64(src.LedgerIndex),
		LedgerHash:       src.LedgerHash,
		LedgerCloseTime:  timestamptz(src.LedgerCloseTime),
		Generation:       src.Generation,
		Pages:            int64(src.Pages),
		Objects:          int64(src.Objects),
		DurationMs:       src.Duration.Milliseconds(),
		CirculatingDrops: int8FromPtr(src.CirculatingDrops),
		ExistingDrops:    int8FromPtr(src.ExistingDrops),
		Error:            errText,
		StartedAt:        timestamptz(src.StartedAt),
	}
}

func mapPassModelToType(src gen.ScanPass) entity.Pass {
	return entity.Pass{
		ID:               src.ID,
		Network:          common.Network(src.Network),
		LedgerIndex:      types.LedgerIndex(src.LedgerIndex),
		LedgerHash:       src.LedgerHash,
		LedgerCloseTime:  timeFromTimestamptz(src.LedgerCloseTime),
		Generation:       src.Generation,
		Pages:            uint64(src.Pages),
		Objects:          uint64(src.Objects),
		Duration:         time.Duration(src.DurationMs) * time.Millisecond,
		CirculatingDrops: ptrFromInt8(src.CirculatingDrops),
		ExistingDrops:    ptrFromInt8(src.ExistingDrops),
		Error:            src.Error.String,
		StartedAt:        timeFromTimestamptz(src.StartedAt),
	}
}
