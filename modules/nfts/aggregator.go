package nfts

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

// NFToken is one token of the published NFT set.
type NFToken struct {
	NFTokenID   string `json:"NFTokenID"`
	Issuer      string `json:"Issuer"`
	Owner       string `json:"Owner"`
	Taxon       uint32 `json:"Taxon"`
	TransferFee uint16 `json:"TransferFee"`
	Flags       uint16 `json:"Flags"`
	Sequence    uint32 `json:"Sequence"`
	URI         string `json:"URI,omitempty"`
	BuyOffers   uint64 `json:"buy_offers"`
	SellOffers  uint64 `json:"sell_offers"`
}

// Aggregator reconstructs NFT ownership from NFTokenPage objects and
// counts NFTokenOffer objects per token.
type Aggregator struct {
	config   Config
	pageSize int
	tokens   map[string]*NFToken
}

func New(config Config, pageSize int) *Aggregator {
	return &Aggregator{
		config:   config,
		pageSize: pageSize,
		tokens:   make(map[string]*NFToken),
	}
}

var acceptedTypes = ledgerobject.NewEntryTypeSet(ledgerobject.EntryTypeNFTokenPage, ledgerobject.EntryTypeNFTokenOffer)

func (a *Aggregator) Name() string {
	return common.ModuleNFTs.String()
}

func (a *Aggregator) Accepts(t ledgerobject.EntryType) bool {
	return acceptedTypes.Has(t)
}

func (a *Aggregator) Reset() {
	a.tokens = make(map[string]*NFToken)
}

func (a *Aggregator) Process(ctx context.Context, obj *ledgerobject.Object) error {
	switch entry := obj.Entry.(type) {
	case *ledgerobject.NFTokenPage:
		return errors.WithStack(a.processPage(obj.Index, entry))
	case *ledgerobject.NFTokenOffer:
		a.processOffer(ctx, obj.Index, entry)
	}
	return nil
}

func (a *Aggregator) processPage(index string, page *ledgerobject.NFTokenPage) error {
	owner, err := OwnerFromPageIndex(index)
	if err != nil {
		return errors.WithStack(err)
	}
	for _, wrapper := range page.NFTokens {
		id := wrapper.NFToken.NFTokenID
		token, err := a.token(id)
		if err != nil {
			return errors.Wrapf(err, "page %s", index)
		}
		token.Owner = owner
		token.URI = wrapper.NFToken.URI
	}
	return nil
}

func (a *Aggregator) processOffer(ctx context.Context, index string, offer *ledgerobject.NFTokenOffer) {
	token, err := a.token(offer.NFTokenID)
	if err != nil {
		logger.WarnContext(ctx, "skip NFTokenOffer with invalid token id",
			slogx.String("index", index),
			slogx.Error(err),
		)
		return
	}
	if offer.IsSell() {
		token.SellOffers++
	} else {
		token.BuyOffers++
	}
}

// token returns the entry for id, creating an ownerless placeholder when
// the token has not been seen on a page yet.
func (a *Aggregator) token(id string) (*NFToken, error) {
	if token, ok := a.tokens[id]; ok {
		return token, nil
	}
	parsed, err := ParseTokenID(id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	token := &NFToken{
		NFTokenID:   id,
		Issuer:      parsed.Issuer,
		Taxon:       parsed.Taxon,
		TransferFee: parsed.TransferFee,
		Flags:       parsed.Flags,
		Sequence:    parsed.Sequence,
	}
	a.tokens[id] = token
	return token, nil
}

// Tokens returns the tokens listed on a page, sorted by NFTokenID. Tokens
// only referenced by offers are not on any page and count as burned.
func (a *Aggregator) Tokens() []NFToken {
	tokens := make([]NFToken, 0, len(a.tokens))
	for _, token := range a.tokens {
		if token.Owner != "" {
			tokens = append(tokens, *token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].NFTokenID < tokens[j].NFTokenID })
	return tokens
}

func (a *Aggregator) Finalize(ctx context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error) {
	tokens := a.Tokens()
	a.Reset()

	artifacts, err := buildSnapshot(ctx, header, tokens, a.pageSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if a.config.Parquet {
		parquet, err := buildParquet(tokens)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		artifacts = append(artifacts, parquet)
	}

	logger.InfoContext(ctx, "nft set built",
		slogx.String("module", a.Name()),
		slogx.Int("tokens", len(tokens)),
		slogx.Int("files", len(artifacts)),
	)
	return artifacts, nil
}
