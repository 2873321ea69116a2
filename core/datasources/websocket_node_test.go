package datasources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebsocketServer(t *testing.T, handle func(req map[string]any) []map[string]any) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req map[string]any
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			for _, msg := range handle(req) {
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWebsocketNodeLedgerData(t *testing.T) {
	url := newWebsocketServer(t, func(req map[string]any) []map[string]any {
		assert.Equal(t, "ledger_data", req["command"])
		return []map[string]any{
			// unrelated stream message is skipped
			{"type": "ledgerClosed", "ledger_index": 1},
			{"id": req["id"], "type": "response", "status": "success", "result": map[string]any{
				"ledger_index": 7,
				"state":        []map[string]any{{"data": "00", "index": "X"}},
			}},
		}
	})

	node := NewWebsocketNode(url, nil, 5*time.Second)
	defer node.Close()

	for i := 0; i < 2; i++ {
		page, err := node.LedgerData(context.Background(), types.LedgerDataRequest{Limit: 1, Binary: true})
		require.NoError(t, err)
		assert.Equal(t, types.LedgerIndex(7), page.LedgerIndex)
		assert.Empty(t, page.Marker)
		require.Len(t, page.State, 1)
	}
}

func TestWebsocketNodeErrorResponse(t *testing.T) {
	url := newWebsocketServer(t, func(req map[string]any) []map[string]any {
		return []map[string]any{
			{"id": req["id"], "type": "response", "status": "error", "error": "lgrNotFound", "error_message": "ledgerNotFound"},
		}
	})

	node := NewWebsocketNode(url, nil, 5*time.Second)
	defer node.Close()

	_, err := node.Ledger(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.Transient))
}

func TestWebsocketNodeDialFailure(t *testing.T) {
	node := NewWebsocketNode("ws://127.0.0.1:1", nil, time.Second)
	_, err := node.Ledger(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.Transient))
}
