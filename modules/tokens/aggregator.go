package tokens

import (
	"context"

	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/shopspring/decimal"
)

// Aggregate is the running total of one issued currency.
type Aggregate struct {
	Issuer   string
	Currency string

	// Amount is the sum of the absolute trust line balances.
	Amount     decimal.Decimal
	Trustlines uint64
	Holders    uint64
	Offers     uint64
}

// Key is issuer + "_" + currency.
func Key(issuer, currency string) string {
	return issuer + "_" + currency
}

// Aggregator keeps per (issuer, currency) supply, holder and offer counters.
type Aggregator struct {
	excluded   map[string]struct{}
	aggregates map[string]*Aggregate
}

func New(config Config) *Aggregator {
	excluded := make(map[string]struct{}, len(DefaultExcludedIssuers)+len(config.ExcludedIssuers))
	for _, issuer := range DefaultExcludedIssuers {
		excluded[issuer] = struct{}{}
	}
	for _, issuer := range config.ExcludedIssuers {
		excluded[issuer] = struct{}{}
	}
	return &Aggregator{
		excluded:   excluded,
		aggregates: make(map[string]*Aggregate),
	}
}

var acceptedTypes = ledgerobject.NewEntryTypeSet(ledgerobject.EntryTypeRippleState, ledgerobject.EntryTypeOffer)

func (a *Aggregator) Name() string {
	return common.ModuleTokens.String()
}

func (a *Aggregator) Accepts(t ledgerobject.EntryType) bool {
	return acceptedTypes.Has(t)
}

func (a *Aggregator) Reset() {
	a.aggregates = make(map[string]*Aggregate)
}

func (a *Aggregator) Process(_ context.Context, obj *ledgerobject.Object) error {
	switch entry := obj.Entry.(type) {
	case *ledgerobject.RippleState:
		a.processTrustline(entry)
	case *ledgerobject.Offer:
		a.processOfferLeg(entry.TakerGets)
		a.processOfferLeg(entry.TakerPays)
	}
	return nil
}

func (a *Aggregator) processTrustline(rs *ledgerobject.RippleState) {
	issuer, ok := InferIssuer(rs)
	if !ok || a.isExcluded(issuer) {
		return
	}
	agg := a.aggregate(issuer, rs.Balance.Currency)
	amount := rs.Balance.Value.Abs()
	agg.Amount = agg.Amount.Add(amount)
	agg.Trustlines++
	if amount.IsPositive() {
		agg.Holders++
	}
}

func (a *Aggregator) processOfferLeg(leg ledgerobject.Amount) {
	if !leg.IsIssued() || a.isExcluded(leg.Issuer) {
		return
	}
	a.aggregate(leg.Issuer, leg.Currency).Offers++
}

func (a *Aggregator) aggregate(issuer, currency string) *Aggregate {
	key := Key(issuer, currency)
	agg, ok := a.aggregates[key]
	if !ok {
		agg = &Aggregate{Issuer: issuer, Currency: currency, Amount: decimal.Zero}
		a.aggregates[key] = agg
	}
	return agg
}

func (a *Aggregator) isExcluded(issuer string) bool {
	_, ok := a.excluded[issuer]
	return ok
}

// Get returns the running aggregate of a pair.
func (a *Aggregator) Get(issuer, currency string) (Aggregate, bool) {
	agg, ok := a.aggregates[Key(issuer, currency)]
	if !ok {
		return Aggregate{}, false
	}
	return *agg, true
}

func (a *Aggregator) Finalize(_ context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error) {
	doc := buildSnapshot(header, a.aggregates)
	a.Reset()
	return []snapshot.Artifact{{Name: SnapshotFile, Value: doc}}, nil
}

// InferIssuer determines the issuing side of a trust line.
//
// A non-zero balance is owed by the issuer: positive means the high side
// issues, negative the low side. With a zero balance the side holding a
// non-zero limit is the holder and the other side the issuer; when both or
// neither side has a limit the issuer is undetermined.
func InferIssuer(rs *ledgerobject.RippleState) (string, bool) {
	switch rs.Balance.Value.Sign() {
	case 1:
		return rs.HighLimit.Issuer, rs.HighLimit.Issuer != ""
	case -1:
		return rs.LowLimit.Issuer, rs.LowLimit.Issuer != ""
	}

	highLimit := !rs.HighLimit.Value.IsZero()
	lowLimit := !rs.LowLimit.Value.IsZero()
	switch {
	case highLimit && !lowLimit:
		return rs.LowLimit.Issuer, rs.LowLimit.Issuer != ""
	case lowLimit && !highLimit:
		return rs.HighLimit.Issuer, rs.HighLimit.Issuer != ""
	default:
		return "", false
	}
}
