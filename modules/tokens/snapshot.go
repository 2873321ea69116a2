package tokens

import (
	"encoding/json"
	"sort"

	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/samber/lo"
)

const SnapshotFile = "tokens.json"

type Snapshot struct {
	types.SnapshotHeader
	Issuers map[string]IssuerTokens `json:"issuers"`
}

type IssuerTokens struct {
	Tokens []Token `json:"tokens"`
}

type Token struct {
	Currency   string      `json:"currency"`
	Amount     json.Number `json:"amount"`
	Trustlines uint64      `json:"trustlines"`
	Holders    uint64      `json:"holders"`
	Offers     uint64      `json:"offers"`
}

// buildSnapshot groups the aggregates by issuer. Pairs only seen through
// offers (offers > 0 and no positive amount) are left out.
func buildSnapshot(header types.LedgerHeader, aggregates map[string]*Aggregate) Snapshot {
	published := lo.Filter(lo.Values(aggregates), func(agg *Aggregate, _ int) bool {
		return !(agg.Offers > 0 && !agg.Amount.IsPositive())
	})

	issuers := make(map[string]IssuerTokens)
	for issuer, aggs := range lo.GroupBy(published, func(agg *Aggregate) string { return agg.Issuer }) {
		sort.Slice(aggs, func(i, j int) bool { return aggs[i].Currency < aggs[j].Currency })
		issuers[issuer] = IssuerTokens{
			Tokens: lo.Map(aggs, func(agg *Aggregate, _ int) Token {
				return Token{
					Currency:   agg.Currency,
					Amount:     json.Number(agg.Amount.String()),
					Trustlines: agg.Trustlines,
					Holders:    agg.Holders,
					Offers:     agg.Offers,
				}
			}),
		}
	}

	return Snapshot{
		SnapshotHeader: header.SnapshotHeader(),
		Issuers:        issuers,
	}
}
