package types

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// LedgerDataRequest is one ledger_data page request.
type LedgerDataRequest struct {
	// LedgerIndex zero means the latest validated ledger.
	LedgerIndex LedgerIndex
	Marker      string
	Limit       int
	Binary      bool

	// Type restricts the page to one object type ("account", "nft_page", ...).
	Type string
}

// LedgerDataPage is one ledger_data response.
type LedgerDataPage struct {
	LedgerIndex LedgerIndex  `json:"ledger_index"`
	LedgerHash  string       `json:"ledger_hash"`
	Marker      string       `json:"marker,omitempty"`
	State       []StateEntry `json:"state"`
}

// StateEntry is one object of a page, either in binary form (Data set)
// or in decoded form (JSON set).
type StateEntry struct {
	Index string
	Data  string
	JSON  json.RawMessage
}

func (e *StateEntry) UnmarshalJSON(data []byte) error {
	var probe struct {
		Index string `json:"index"`
		Data  string `json:"data"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return errors.Wrap(err, "invalid state entry")
	}
	e.Index = probe.Index
	e.Data = probe.Data
	e.JSON = nil
	if probe.Data == "" {
		e.JSON = append(json.RawMessage(nil), data...)
	}
	return nil
}
