package ledgerstats

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, index, binaryHex, raw string) *ledgerobject.Object {
	t.Helper()
	obj, err := ledgerobject.NewDecoder().Decode(index, binaryHex, json.RawMessage(raw))
	require.NoError(t, err)
	return obj
}

func fixture(t *testing.T) []*ledgerobject.Object {
	return []*ledgerobject.Object{
		decode(t, "A1", "AABBCCDD", `{"LedgerEntryType":"AccountRoot","Account":"rA","Balance":"1000","Flags":1048576,"OwnerCount":0,"Domain":"","index":"A1"}`),
		decode(t, "A2", "AABBCCDDEEFF", `{"LedgerEntryType":"AccountRoot","Account":"rB","Balance":"2500","Flags":0,"OwnerCount":2,"RegularKey":"rA","index":"A2"}`),
		decode(t, "R1", "AABB", `{"LedgerEntryType":"RippleState","Balance":{"currency":"USD","issuer":"rrrrrrrrrrrrrrrrrrrrBZbvji","value":"5"},"Flags":65536,"index":"R1"}`),
		decode(t, "D1", "AABBCCDDEEFF0011", `{"LedgerEntryType":"DirectoryNode","Indexes":["X","Y"],"Owner":"rA","Flags":0}`),
	}
}

func TestAggregatorStats(t *testing.T) {
	ctx := context.Background()
	agg := New()
	for _, obj := range fixture(t) {
		require.NoError(t, agg.Process(ctx, obj))
	}

	stats := agg.Stats()
	require.Len(t, stats, 3)

	accounts := stats["accountroot"]
	assert.EqualValues(t, 2, accounts.Count)
	assert.EqualValues(t, 10, accounts.Size)
	assert.Equal(t, 50.0, accounts.Percentage)
	assert.EqualValues(t, 2, accounts.PropertyCount["Account"])
	assert.EqualValues(t, 2, accounts.PropertyCount["Balance"])
	assert.EqualValues(t, 1, accounts.PropertyCount["Flags"])
	assert.EqualValues(t, 1, accounts.PropertyCount["RegularKey"])
	assert.EqualValues(t, 1, accounts.PropertyCount["OwnerCount"])
	assert.NotContains(t, accounts.PropertyCount, "Domain")
	assert.NotContains(t, accounts.PropertyCount, "index")
	assert.EqualValues(t, 1, accounts.Flags["lsfDisableMaster"])

	total, ok := accounts.ValueTotal("Balance")
	require.True(t, ok)
	assert.True(t, total.Equals(uint128.From64(3500)))
	assert.Equal(t, json.Number("3500"), accounts.SpecialData["BalanceValueTotal"])
	assert.InDelta(t, 2, accounts.SpecialData["AccountUniqueAccounts"], 0.5)

	trustlines := stats["ripplestate"]
	assert.EqualValues(t, 1, trustlines.Count)
	assert.Equal(t, 10.0, trustlines.Percentage)
	assert.EqualValues(t, 1, trustlines.Flags["lsfLowReserve"])
	_, ok = trustlines.ValueTotal("Balance")
	assert.False(t, ok)

	dirs := stats["directorynode"]
	assert.Equal(t, 40.0, dirs.Percentage)
	assert.Equal(t, map[int]uint64{2: 1}, dirs.SpecialData["IndexesHistogram"])
}

func TestAggregatorUnknownType(t *testing.T) {
	agg := New()
	obj := decode(t, "F1", "", `{"LedgerEntryType":"FutureThing","Flags":0}`)
	require.NoError(t, agg.Process(context.Background(), obj))

	stats := agg.Stats()
	require.Contains(t, stats, "futurething")
	assert.EqualValues(t, len(`{"LedgerEntryType":"FutureThing","Flags":0}`), stats["futurething"].Size)
	assert.Equal(t, 100.0, stats["futurething"].Percentage)
}

func TestAggregatorFinalize(t *testing.T) {
	ctx := context.Background()
	agg := New()
	assert.Nil(t, agg.Last())

	run := func() []byte {
		for _, obj := range fixture(t) {
			require.NoError(t, agg.Process(ctx, obj))
		}
		artifacts, err := agg.Finalize(ctx, types.LedgerHeader{Index: 5, Hash: "H"})
		require.NoError(t, err)
		require.Len(t, artifacts, 1)
		assert.Equal(t, SnapshotFile, artifacts[0].Name)
		data, err := json.Marshal(artifacts[0].Value)
		require.NoError(t, err)
		return data
	}

	first := run()
	second := run()
	assert.JSONEq(t, string(first), string(second))
	assert.Empty(t, agg.Stats())
	assert.EqualValues(t, 2, agg.Last()["accountroot"].Count)
}

func TestPercentage(t *testing.T) {
	testcases := []struct {
		size, total uint64
		expected    float64
	}{
		{size: 0, total: 0, expected: 0},
		{size: 1, total: 3, expected: 33.333333},
		{size: 2, total: 3, expected: 66.666667},
		{size: 5, total: 5, expected: 100},
	}
	for _, tc := range testcases {
		assert.Equal(t, tc.expected, percentage(tc.size, tc.total))
	}
}

func TestNativeDrops(t *testing.T) {
	testcases := []struct {
		name     string
		value    any
		expected uint64
		ok       bool
	}{
		{name: "drops", value: "123", expected: 123, ok: true},
		{name: "issued", value: map[string]any{"value": "1"}},
		{name: "empty", value: ""},
		{name: "negative", value: "-1"},
		{name: "overflow", value: "99999999999999999999999"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			drops, ok := nativeDrops(tc.value)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, drops)
		})
	}
}
