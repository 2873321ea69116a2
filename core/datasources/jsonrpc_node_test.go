package datasources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRPCServer(t *testing.T, handle func(method string, params map[string]any) string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			Method string           `json:"method"`
			Params []map[string]any `json:"params"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req.Params, 1)
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		_, _ = io.WriteString(w, handle(req.Method, req.Params[0]))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJSONRPCNodeLedgerData(t *testing.T) {
	var received map[string]any
	server := newRPCServer(t, func(method string, params map[string]any) string {
		assert.Equal(t, "ledger_data", method)
		received = params
		return `{"result": {"ledger_index": 100, "ledger_hash": "H", "marker": "M2", "state": [{"data": "11", "index": "A1"}], "status": "success"}}`
	})

	node, err := NewJSONRPCNode(server.URL, httpclient.Config{})
	require.NoError(t, err)

	page, err := node.LedgerData(context.Background(), types.LedgerDataRequest{Marker: "M1", Limit: 10, Binary: true, Type: "account"})
	require.NoError(t, err)

	assert.Equal(t, "validated", received["ledger_index"])
	assert.Equal(t, "M1", received["marker"])
	assert.Equal(t, float64(10), received["limit"])
	assert.Equal(t, true, received["binary"])
	assert.Equal(t, "account", received["type"])

	assert.Equal(t, types.LedgerIndex(100), page.LedgerIndex)
	assert.Equal(t, "M2", page.Marker)
	require.Len(t, page.State, 1)
	assert.Equal(t, "A1", page.State[0].Index)
}

func TestJSONRPCNodeLedger(t *testing.T) {
	server := newRPCServer(t, func(method string, params map[string]any) string {
		assert.Equal(t, "ledger", method)
		assert.Equal(t, float64(100), params["ledger_index"])
		return `{"result": {"ledger_hash": "ABCD", "ledger_index": 100, "ledger": {"close_time": 10, "close_time_human": "2000-Jan-01 00:00:10.000000000 UTC", "ledger_index": "100"}, "status": "success"}}`
	})

	node, err := NewJSONRPCNode(server.URL, httpclient.Config{})
	require.NoError(t, err)

	header, err := node.Ledger(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, types.LedgerHeader{
		Index:          100,
		Hash:           "ABCD",
		CloseTime:      10,
		CloseTimeHuman: "2000-Jan-01 00:00:10.000000000 UTC",
	}, *header)
}

func TestJSONRPCNodeErrors(t *testing.T) {
	server := newRPCServer(t, func(string, map[string]any) string {
		return `{"result": {"error": "lgrNotFound", "error_message": "ledgerNotFound", "status": "error"}}`
	})

	node, err := NewJSONRPCNode(server.URL, httpclient.Config{})
	require.NoError(t, err)

	_, err = node.LedgerData(context.Background(), types.LedgerDataRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.Transient))
}
