package nfts

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/pkg/parquetutils"
	"github.com/samber/lo"
)

const (
	SnapshotPrefix = "nfts"
	ParquetFile    = "nfts.parquet"
)

type Snapshot struct {
	types.SnapshotHeader
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
	NFTs  []NFToken `json:"nfts"`
}

func buildSnapshot(ctx context.Context, header types.LedgerHeader, tokens []NFToken, pageSize int) ([]snapshot.Artifact, error) {
	pages := 1
	if len(tokens) > 0 {
		pages = (len(tokens) + pageSize - 1) / pageSize
	}
	sh := header.SnapshotHeader()
	artifacts, err := snapshot.PaginateJSON(ctx, SnapshotPrefix, tokens, pageSize, func(page int, items []NFToken) any {
		return Snapshot{SnapshotHeader: sh, Page: page, Pages: pages, NFTs: items}
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't paginate nft snapshot")
	}
	return artifacts, nil
}

type parquetRecord struct {
	NFTokenID   string `parquet:"name=nftoken_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Issuer      string `parquet:"name=issuer, type=BYTE_ARRAY, convertedtype=UTF8"`
	Owner       string `parquet:"name=owner, type=BYTE_ARRAY, convertedtype=UTF8"`
	Taxon       int64  `parquet:"name=taxon, type=INT64"`
	TransferFee int32  `parquet:"name=transfer_fee, type=INT32"`
	Flags       int32  `parquet:"name=flags, type=INT32"`
	Sequence    int64  `parquet:"name=sequence, type=INT64"`
	URI         string `parquet:"name=uri, type=BYTE_ARRAY, convertedtype=UTF8"`
	BuyOffers   int64  `parquet:"name=buy_offers, type=INT64"`
	SellOffers  int64  `parquet:"name=sell_offers, type=INT64"`
}

func buildParquet(tokens []NFToken) (snapshot.Artifact, error) {
	records := lo.Map(tokens, func(t NFToken, _ int) parquetRecord {
		return parquetRecord{
			NFTokenID:   t.NFTokenID,
			Issuer:      t.Issuer,
			Owner:       t.Owner,
			Taxon:       int64(t.Taxon),
			TransferFee: int32(t.TransferFee),
			Flags:       int32(t.Flags),
			Sequence:    int64(t.Sequence),
			URI:         t.URI,
			BuyOffers:   int64(t.BuyOffers),
			SellOffers:  int64(t.SellOffers),
		}
	})
	data, err := parquetutils.WriteAll(records)
	if err != nil {
		return snapshot.Artifact{}, errors.Wrap(err, "can't encode nft parquet")
	}
	return snapshot.Artifact{Name: ParquetFile, Raw: data}, nil
}
