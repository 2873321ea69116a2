package datasources

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/gorilla/websocket"
)

var _ LedgerNode = (*WebsocketNode)(nil)

// WebsocketNode talks to a node over its WebSocket API. Requests are
// serialized over one connection, which is re-dialed after any failure.
type WebsocketNode struct {
	url     string
	header  http.Header
	timeout time.Duration
	dialer  *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

func NewWebsocketNode(url string, headers map[string]string, timeout time.Duration) *WebsocketNode {
	header := make(http.Header, len(headers))
	for k, v := range headers {
		header.Set(k, v)
	}
	return &WebsocketNode{
		url:     url,
		header:  header,
		timeout: timeout,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

func (n *WebsocketNode) Name() string {
	return "websocket"
}

func (n *WebsocketNode) LedgerData(ctx context.Context, req types.LedgerDataRequest) (*types.LedgerDataPage, error) {
	params := newLedgerDataParams(req)
	params.Command = "ledger_data"

	var page types.LedgerDataPage
	if err := n.request(ctx, params.Command, func(id uint64) any {
		params.ID = id
		return params
	}, &page); err != nil {
		return nil, errors.WithStack(err)
	}
	return &page, nil
}

func (n *WebsocketNode) Ledger(ctx context.Context, index types.LedgerIndex) (*types.LedgerHeader, error) {
	params := ledgerParams{Command: "ledger", LedgerIndex: ledgerIndexParam(index)}

	var result ledgerResult
	if err := n.request(ctx, params.Command, func(id uint64) any {
		params.ID = id
		return params
	}, &result); err != nil {
		return nil, errors.WithStack(err)
	}
	return result.header(), nil
}

func (n *WebsocketNode) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closeConn()
}

type wsResponse struct {
	ID     uint64          `json:"id"`
	Type   string          `json:"type"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	resultStatus
}

func (n *WebsocketNode) request(ctx context.Context, command string, build func(id uint64) any, out any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	conn, err := n.connect(ctx)
	if err != nil {
		return errors.Wrapf(errs.Transient, "%s: can't connect to %s: %v", command, n.url, err)
	}

	n.nextID++
	id := n.nextID

	deadline := time.Time{}
	if n.timeout > 0 {
		deadline = time.Now().Add(n.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteJSON(build(id)); err != nil {
		return n.connErr(command, err)
	}

	for {
		var msg wsResponse
		if err := conn.ReadJSON(&msg); err != nil {
			return n.connErr(command, err)
		}
		if msg.Type != "response" || msg.ID != id {
			continue
		}
		if msg.Status == "error" {
			msg.resultStatus.Status = msg.Status
			return msg.resultStatus.err(command)
		}
		return decodeResult(command, msg.Result, out)
	}
}

func (n *WebsocketNode) connect(ctx context.Context) (*websocket.Conn, error) {
	if n.conn != nil {
		return n.conn, nil
	}
	conn, _, err := n.dialer.DialContext(ctx, n.url, n.header)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.DebugContext(ctx, "connected to node", slogx.String("url", n.url), slogx.String("transport", n.Name()))
	n.conn = conn
	return conn, nil
}

// connErr drops the connection so the next request re-dials.
func (n *WebsocketNode) connErr(command string, err error) error {
	_ = n.closeConn()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrapf(errs.Timeout, "%s: %v", command, err)
	}
	return errors.Wrapf(errs.Transient, "%s: %v", command, err)
}

func (n *WebsocketNode) closeConn() error {
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return errors.WithStack(err)
}
