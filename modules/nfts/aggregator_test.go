package nfts

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/pkg/xrpl/addresscodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issuerAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	issuerHex     = "B5F762798A53D543A014CAF8B297CFF8F2F937E8"
	oneAddress    = "rrrrrrrrrrrrrrrrrrrrBZbvji"
)

func tokenID(t *testing.T, flags, fee uint16, taxon, seq uint32) string {
	t.Helper()
	issuer, err := addresscodec.DecodeAddress(issuerAddress)
	require.NoError(t, err)

	raw := make([]byte, TokenIDLength)
	binary.BigEndian.PutUint16(raw[0:2], flags)
	binary.BigEndian.PutUint16(raw[2:4], fee)
	copy(raw[4:24], issuer[:])
	binary.BigEndian.PutUint32(raw[24:28], UnscrambleTaxon(taxon, seq))
	binary.BigEndian.PutUint32(raw[28:32], seq)
	return strings.ToUpper(hex.EncodeToString(raw))
}

func pageIndex(accountHex string) string {
	return accountHex + strings.Repeat("F", 24)
}

func page(index string, ids ...string) *ledgerobject.Object {
	p := &ledgerobject.NFTokenPage{}
	for _, id := range ids {
		var w ledgerobject.NFTokenWrapper
		w.NFToken.NFTokenID = id
		w.NFToken.URI = "697066733A2F2F"
		p.NFTokens = append(p.NFTokens, w)
	}
	return &ledgerobject.Object{Index: index, Type: ledgerobject.EntryTypeNFTokenPage, Entry: p}
}

func nftOffer(id string, sell bool) *ledgerobject.Object {
	var flags uint32
	if sell {
		flags = ledgerobject.LsfSellNFToken
	}
	return &ledgerobject.Object{
		Type:  ledgerobject.EntryTypeNFTokenOffer,
		Entry: &ledgerobject.NFTokenOffer{NFTokenID: id, Flags: flags},
	}
}

func TestUnscrambleTaxon(t *testing.T) {
	testcases := []struct {
		name     string
		taxon    uint32
		sequence uint32
		expected uint32
	}{
		{name: "zero_sequence", taxon: 0, sequence: 0, expected: 2459},
		{name: "small", taxon: 1, sequence: 1, expected: 1 ^ 384162460},
		{name: "wrapping", taxon: 0, sequence: 0xFFFFFFFF, expected: 3910809754},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UnscrambleTaxon(tc.taxon, tc.sequence))
			assert.Equal(t, tc.taxon, UnscrambleTaxon(UnscrambleTaxon(tc.taxon, tc.sequence), tc.sequence))
		})
	}
}

func TestParseTokenID(t *testing.T) {
	id := tokenID(t, 8, 500, 42, 7)

	parsed, err := ParseTokenID(id)
	require.NoError(t, err)
	assert.Equal(t, TokenID{Flags: 8, TransferFee: 500, Issuer: issuerAddress, Taxon: 42, Sequence: 7}, parsed)

	_, err = ParseTokenID("00")
	assert.Error(t, err)
	_, err = ParseTokenID("zz")
	assert.Error(t, err)
}

func TestOwnerFromPageIndex(t *testing.T) {
	owner, err := OwnerFromPageIndex(pageIndex(issuerHex))
	require.NoError(t, err)
	assert.Equal(t, issuerAddress, owner)

	_, err = OwnerFromPageIndex("ABCD")
	assert.Error(t, err)
}

func TestAggregatorOffersBeforePage(t *testing.T) {
	ctx := context.Background()
	agg := New(Config{}, 100)

	minted := tokenID(t, 8, 0, 1, 1)
	burned := tokenID(t, 8, 0, 1, 2)

	objs := []*ledgerobject.Object{
		nftOffer(minted, true),
		nftOffer(minted, false),
		nftOffer(minted, false),
		nftOffer(burned, true),
		page(pageIndex(issuerHex), minted),
	}
	for _, obj := range objs {
		require.NoError(t, agg.Process(ctx, obj))
	}

	tokens := agg.Tokens()
	require.Len(t, tokens, 1)
	assert.Equal(t, minted, tokens[0].NFTokenID)
	assert.Equal(t, issuerAddress, tokens[0].Owner)
	assert.Equal(t, issuerAddress, tokens[0].Issuer)
	assert.EqualValues(t, 1, tokens[0].Taxon)
	assert.EqualValues(t, 1, tokens[0].SellOffers)
	assert.EqualValues(t, 2, tokens[0].BuyOffers)
}

func TestAggregatorOwnershipAcrossPasses(t *testing.T) {
	ctx := context.Background()
	agg := New(Config{}, 100)
	id := tokenID(t, 0, 0, 3, 9)
	header := types.LedgerHeader{Index: 10}

	require.NoError(t, agg.Process(ctx, page(pageIndex(issuerHex), id)))
	require.NoError(t, agg.Process(ctx, nftOffer(id, true)))
	_, err := agg.Finalize(ctx, header)
	require.NoError(t, err)

	other := strings.Repeat("0", 39) + "1"
	require.NoError(t, agg.Process(ctx, page(pageIndex(other), id)))

	tokens := agg.Tokens()
	require.Len(t, tokens, 1)
	assert.Equal(t, oneAddress, tokens[0].Owner)
	assert.Zero(t, tokens[0].SellOffers)
}

func TestAggregatorFinalizePaginates(t *testing.T) {
	ctx := context.Background()
	agg := New(Config{Parquet: true}, 2)

	ids := []string{tokenID(t, 0, 0, 1, 1), tokenID(t, 0, 0, 1, 2), tokenID(t, 0, 0, 1, 3)}
	require.NoError(t, agg.Process(ctx, page(pageIndex(issuerHex), ids...)))
	require.NoError(t, agg.Process(ctx, nftOffer(tokenID(t, 0, 0, 1, 4), false)))

	artifacts, err := agg.Finalize(ctx, types.LedgerHeader{Index: 77})
	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	assert.Equal(t, snapshot.PageName(SnapshotPrefix, 1), artifacts[0].Name)
	assert.Equal(t, snapshot.PageName(SnapshotPrefix, 2), artifacts[1].Name)
	assert.Equal(t, ParquetFile, artifacts[2].Name)
	assert.NotEmpty(t, artifacts[2].Raw)

	var first, second Snapshot
	require.NoError(t, json.Unmarshal(artifacts[0].Raw, &first))
	require.NoError(t, json.Unmarshal(artifacts[1].Raw, &second))
	assert.EqualValues(t, 77, first.LedgerIndex)
	assert.Equal(t, 2, first.Pages)
	assert.Len(t, first.NFTs, 2)
	assert.Len(t, second.NFTs, 1)

	assert.Empty(t, agg.Tokens())
}

func TestAggregatorFinalizeEmpty(t *testing.T) {
	agg := New(Config{}, 10)
	artifacts, err := agg.Finalize(context.Background(), types.LedgerHeader{Index: 1})
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	var doc Snapshot
	require.NoError(t, json.Unmarshal(artifacts[0].Raw, &doc))
	assert.Empty(t, doc.NFTs)
	assert.Equal(t, 1, doc.Pages)
}

func TestAggregatorAccepts(t *testing.T) {
	agg := New(Config{}, 10)
	assert.True(t, agg.Accepts(ledgerobject.EntryTypeNFTokenPage))
	assert.True(t, agg.Accepts(ledgerobject.EntryTypeNFTokenOffer))
	assert.False(t, agg.Accepts(ledgerobject.EntryTypeOffer))
}
