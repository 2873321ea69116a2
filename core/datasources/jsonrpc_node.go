package datasources

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/pkg/httpclient"
	"github.com/valyala/fasthttp"
)

var _ LedgerNode = (*JSONRPCNode)(nil)

// JSONRPCNode talks to a node's JSON-RPC (HTTP POST) endpoint.
type JSONRPCNode struct {
	client *httpclient.Client
}

func NewJSONRPCNode(url string, config httpclient.Config) (*JSONRPCNode, error) {
	client, err := httpclient.New(url, config)
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &JSONRPCNode{client: client}, nil
}

func (n *JSONRPCNode) Name() string {
	return "jsonrpc"
}

func (n *JSONRPCNode) LedgerData(ctx context.Context, req types.LedgerDataRequest) (*types.LedgerDataPage, error) {
	var page types.LedgerDataPage
	if err := n.call(ctx, "ledger_data", newLedgerDataParams(req), &page); err != nil {
		return nil, errors.WithStack(err)
	}
	return &page, nil
}

func (n *JSONRPCNode) Ledger(ctx context.Context, index types.LedgerIndex) (*types.LedgerHeader, error) {
	var result ledgerResult
	if err := n.call(ctx, "ledger", ledgerParams{LedgerIndex: ledgerIndexParam(index)}, &result); err != nil {
		return nil, errors.WithStack(err)
	}
	return result.header(), nil
}

func (n *JSONRPCNode) Close() error {
	return nil
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
}

func (n *JSONRPCNode) call(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}})
	if err != nil {
		return errors.Wrapf(err, "can't marshal %s request", method)
	}

	resp, err := n.client.Post(ctx, "", httpclient.RequestOptions{Body: body})
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return errors.Wrapf(errs.Timeout, "%s: %v", method, err)
		}
		return errors.Wrapf(errs.Transient, "%s: %v", method, err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return errors.Wrapf(errs.Transient, "%s: unexpected status code %d", method, code)
	}

	var envelope rpcResponse
	if err := resp.UnmarshalBody(&envelope); err != nil {
		return errors.Wrapf(errs.Transient, "%s: %v", method, err)
	}
	return decodeResult(method, envelope.Result, out)
}
