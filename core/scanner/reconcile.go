package scanner

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
)

// reconcile checks that the binary and the JSON form of a page describe the
// same objects and attaches the decoded form to every binary entry.
func reconcile(binary, decoded *types.LedgerDataPage) ([]types.StateEntry, error) {
	if binary.LedgerIndex != decoded.LedgerIndex {
		return nil, errors.Wrapf(errs.ProtocolMismatch, "ledger index mismatch: binary %d, json %d", binary.LedgerIndex, decoded.LedgerIndex)
	}
	if len(binary.State) != len(decoded.State) {
		return nil, errors.Wrapf(errs.ProtocolMismatch, "page length mismatch: binary %d, json %d", len(binary.State), len(decoded.State))
	}
	if binary.Marker != decoded.Marker {
		return nil, errors.Wrapf(errs.ProtocolMismatch, "marker mismatch: binary %q, json %q", binary.Marker, decoded.Marker)
	}

	entries := make([]types.StateEntry, len(binary.State))
	for i := range binary.State {
		b, d := binary.State[i], decoded.State[i]
		if b.Index != d.Index {
			return nil, errors.Wrapf(errs.ProtocolMismatch, "object index mismatch at %d: binary %s, json %s", i, b.Index, d.Index)
		}
		if b.Data == "" || len(d.JSON) == 0 {
			return nil, errors.Wrapf(errs.ProtocolMismatch, "object %s: missing binary or json form", b.Index)
		}
		entries[i] = types.StateEntry{Index: b.Index, Data: b.Data, JSON: d.JSON}
	}
	return entries, nil
}
