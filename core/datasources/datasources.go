package datasources

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
)

// LedgerNode is a node that serves full ledger state.
type LedgerNode interface {
	Name() string

	// LedgerData fetches one page of ledger state objects.
	LedgerData(ctx context.Context, req types.LedgerDataRequest) (*types.LedgerDataPage, error)

	// Ledger fetches the header of a closed ledger.
	Ledger(ctx context.Context, index types.LedgerIndex) (*types.LedgerHeader, error)

	Close() error
}

type ledgerDataParams struct {
	ID          uint64 `json:"id,omitempty"`
	Command     string `json:"command,omitempty"`
	LedgerIndex any    `json:"ledger_index"`
	Marker      string `json:"marker,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Binary      bool   `json:"binary"`
	Type        string `json:"type,omitempty"`
}

func newLedgerDataParams(req types.LedgerDataRequest) ledgerDataParams {
	return ledgerDataParams{
		LedgerIndex: ledgerIndexParam(req.LedgerIndex),
		Marker:      req.Marker,
		Limit:       req.Limit,
		Binary:      req.Binary,
		Type:        req.Type,
	}
}

type ledgerParams struct {
	ID          uint64 `json:"id,omitempty"`
	Command     string `json:"command,omitempty"`
	LedgerIndex any    `json:"ledger_index"`
}

func ledgerIndexParam(index types.LedgerIndex) any {
	if index == 0 {
		return "validated"
	}
	return uint32(index)
}

// resultStatus is the status block every node method result carries.
type resultStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

func (s resultStatus) err(method string) error {
	if s.Error == "" && (s.Status == "" || s.Status == "success") {
		return nil
	}
	msg := s.ErrorMessage
	if msg == "" {
		msg = s.Error
	}
	return errors.Wrapf(errs.Transient, "%s failed: %s (%s)", method, strings.TrimSpace(msg), s.Error)
}

type ledgerResult struct {
	LedgerHash  string            `json:"ledger_hash"`
	LedgerIndex types.LedgerIndex `json:"ledger_index"`
	Ledger      struct {
		LedgerHash     string            `json:"ledger_hash"`
		LedgerIndex    types.LedgerIndex `json:"ledger_index"`
		CloseTime      uint32            `json:"close_time"`
		CloseTimeHuman string            `json:"close_time_human"`
	} `json:"ledger"`
}

func (r ledgerResult) header() *types.LedgerHeader {
	h := &types.LedgerHeader{
		Index:          r.LedgerIndex,
		Hash:           r.LedgerHash,
		CloseTime:      r.Ledger.CloseTime,
		CloseTimeHuman: r.Ledger.CloseTimeHuman,
	}
	if h.Index == 0 {
		h.Index = r.Ledger.LedgerIndex
	}
	if h.Hash == "" {
		h.Hash = r.Ledger.LedgerHash
	}
	return h
}

// decodeResult checks the status of a method result and decodes it into out.
func decodeResult(method string, raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return errors.Wrapf(errs.Transient, "%s: empty result", method)
	}
	var status resultStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return errors.Wrapf(errs.Transient, "%s: malformed result: %v", method, err)
	}
	if err := status.err(method); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(errs.Transient, "%s: malformed result: %v", method, err)
	}
	return nil
}
