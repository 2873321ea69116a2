package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerIndexUnmarshal(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected LedgerIndex
		wantErr  bool
	}{
		{name: "number", input: `12345`, expected: 12345},
		{name: "string", input: `"12345"`, expected: 12345},
		{name: "null", input: `null`, expected: 0},
		{name: "garbage", input: `"validated"`, wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var l LedgerIndex
			err := json.Unmarshal([]byte(tc.input), &l)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, l)
		})
	}
}

func TestLedgerHeaderCloseTime(t *testing.T) {
	h := LedgerHeader{Index: 1, CloseTime: 0}
	assert.Equal(t, int64(946684800000), h.CloseTimeMs())
	assert.Equal(t, 2000, h.CloseTimeUnix().Year())

	sh := LedgerHeader{Index: 7, Hash: "AB", CloseTime: 10, CloseTimeHuman: "2000-Jan-01"}.SnapshotHeader()
	assert.Equal(t, LedgerIndex(7), sh.LedgerIndex)
	assert.Equal(t, int64(946684810000), sh.LedgerCloseMs)
}

func TestStateEntryUnmarshal(t *testing.T) {
	var page LedgerDataPage
	err := json.Unmarshal([]byte(`{
		"ledger_index": 5,
		"marker": "M1",
		"state": [
			{"data": "1100612200", "index": "AA"},
			{"LedgerEntryType": "AccountRoot", "index": "BB"}
		]
	}`), &page)
	require.NoError(t, err)
	require.Len(t, page.State, 2)

	assert.Equal(t, "AA", page.State[0].Index)
	assert.Equal(t, "1100612200", page.State[0].Data)
	assert.Nil(t, page.State[0].JSON)

	assert.Equal(t, "BB", page.State[1].Index)
	assert.Empty(t, page.State[1].Data)
	assert.JSONEq(t, `{"LedgerEntryType": "AccountRoot", "index": "BB"}`, string(page.State[1].JSON))
}
