package ledgerobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAccountRoot(t *testing.T) {
	raw := json.RawMessage(`{
		"LedgerEntryType": "AccountRoot",
		"Account": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
		"Balance": "25000000",
		"Flags": 1048576,
		"OwnerCount": 3,
		"Sequence": 1,
		"index": "AB"
	}`)

	obj, err := NewDecoder().Decode("AB", "11006122", raw)
	require.NoError(t, err)

	assert.Equal(t, EntryTypeAccountRoot, obj.Type)
	assert.Equal(t, "accountroot", obj.Type.Key())
	assert.Equal(t, 4, obj.Size)
	assert.NotContains(t, obj.Fields, "index")
	assert.Equal(t, LsfDisableMaster, obj.Flags())

	acc, ok := obj.Entry.(*AccountRoot)
	require.True(t, ok)
	assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", acc.Account)
	assert.True(t, acc.Balance.Native)
	assert.Equal(t, int64(25000000), acc.Balance.Drops)
	assert.Equal(t, uint32(3), acc.OwnerCount)
	assert.Empty(t, acc.RegularKey)
}

func TestDecodeRippleState(t *testing.T) {
	raw := json.RawMessage(`{
		"LedgerEntryType": "RippleState",
		"Balance": {"currency": "USD", "issuer": "rrrrrrrrrrrrrrrrrrrrBZbvji", "value": "-1.5e2"},
		"HighLimit": {"currency": "USD", "issuer": "rHigh", "value": "0"},
		"LowLimit": {"currency": "USD", "issuer": "rLow", "value": "1000"},
		"Flags": 131072
	}`)

	obj, err := NewDecoder().Decode("CD", "", raw)
	require.NoError(t, err)

	rs, ok := obj.Entry.(*RippleState)
	require.True(t, ok)
	assert.False(t, rs.Balance.Native)
	assert.True(t, rs.Balance.Value.Equal(decimal.NewFromInt(-150)))
	assert.Equal(t, "rHigh", rs.HighLimit.Issuer)
	assert.True(t, rs.LowLimit.Value.Equal(decimal.NewFromInt(1000)))

	var compact int
	{
		b, err := json.Marshal(json.RawMessage(raw))
		require.NoError(t, err)
		compact = len(b)
	}
	assert.Equal(t, compact, obj.Size)
}

func TestDecodeUnknownType(t *testing.T) {
	obj, err := NewDecoder().Decode("EF", "00", json.RawMessage(`{"LedgerEntryType": "SomethingNew", "Flags": 0}`))
	require.NoError(t, err)
	assert.Equal(t, EntryTypeUnknown, obj.Type)
	assert.Equal(t, "SomethingNew", obj.TypeName)
	assert.IsType(t, &Generic{}, obj.Entry)
}

func TestDecodeInvalid(t *testing.T) {
	testcases := []struct {
		name string
		raw  string
	}{
		{name: "not_json", raw: `{`},
		{name: "missing_type", raw: `{"Flags": 0}`},
		{name: "bad_balance", raw: `{"LedgerEntryType": "AccountRoot", "Balance": "abc"}`},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDecoder().Decode("00", "", json.RawMessage(tc.raw))
			assert.Error(t, err)
		})
	}
}

func TestFeeSettingsReserves(t *testing.T) {
	testcases := []struct {
		name          string
		raw           string
		base, owner   int64
		expectedFound bool
	}{
		{name: "drops_fields", raw: `{"LedgerEntryType": "FeeSettings", "ReserveBaseDrops": "10000000", "ReserveIncrementDrops": "2000000"}`, base: 10000000, owner: 2000000, expectedFound: true},
		{name: "legacy_fields", raw: `{"LedgerEntryType": "FeeSettings", "ReserveBase": 20000000, "ReserveIncrement": 5000000}`, base: 20000000, owner: 5000000, expectedFound: true},
		{name: "absent", raw: `{"LedgerEntryType": "FeeSettings", "BaseFee": "a"}`},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := NewDecoder().Decode("FE", "", json.RawMessage(tc.raw))
			require.NoError(t, err)
			fs := obj.Entry.(*FeeSettings)
			base, owner, ok := fs.Reserves()
			assert.Equal(t, tc.expectedFound, ok)
			assert.Equal(t, tc.base, base)
			assert.Equal(t, tc.owner, owner)
		})
	}
}

func TestDecodeFlags(t *testing.T) {
	flags := DecodeFlags(EntryTypeAccountRoot, LsfGlobalFreeze|LsfDefaultRipple)
	assert.True(t, flags["lsfGlobalFreeze"])
	assert.True(t, flags["lsfDefaultRipple"])
	assert.False(t, flags["lsfRequireAuth"])

	offer := DecodeFlags(EntryTypeOffer, LsfSell)
	assert.Equal(t, map[string]bool{"lsfPassive": false, "lsfSell": true}, offer)

	trustline := DecodeFlags(EntryTypeRippleState, LsfLowFreeze|LsfHighReserve)
	assert.True(t, trustline["lsfLowFreeze"])
	assert.True(t, trustline["lsfHighReserve"])
	assert.False(t, trustline["lsfHighFreeze"])

	assert.Nil(t, DecodeFlags(EntryTypeLedgerHashes, 1))
	assert.Equal(t, []string{"lsfPassive", "lsfSell"}, FlagNames(EntryTypeOffer))
}

func TestEntryTypeSet(t *testing.T) {
	s := NewEntryTypeSet(EntryTypeOffer, EntryTypeRippleState)
	assert.True(t, s.Has(EntryTypeOffer))
	assert.True(t, s.Has(EntryTypeRippleState))
	assert.False(t, s.Has(EntryTypeAccountRoot))
	assert.Equal(t, EntryTypeXChainOwnedCreateAccountClaimID, ParseEntryType("XChainOwnedCreateAccountClaimID"))
}

func TestNFTokenOfferIsSell(t *testing.T) {
	assert.True(t, (&NFTokenOffer{Flags: 1}).IsSell())
	assert.False(t, (&NFTokenOffer{Flags: 0}).IsSell())
	assert.False(t, (&NFTokenOffer{Flags: 2}).IsSell())
}
