package types

import (
	"bytes"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// RippleEpochOffset is the number of seconds between the Unix epoch and
// 2000-01-01T00:00:00Z, the epoch of ledger close times.
const RippleEpochOffset = 946684800

// LedgerIndex is a ledger sequence number. Nodes return it either as a
// JSON number or as a decimal string depending on the method.
type LedgerIndex uint32

func (l LedgerIndex) String() string {
	return strconv.FormatUint(uint64(l), 10)
}

func (l *LedgerIndex) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return errors.Wrapf(err, "invalid ledger index %q", data)
	}
	*l = LedgerIndex(v)
	return nil
}

// LedgerHeader is the part of a closed ledger header a snapshot is stamped with.
type LedgerHeader struct {
	Index          LedgerIndex `json:"ledger_index"`
	Hash           string      `json:"ledger_hash"`
	CloseTime      uint32      `json:"close_time"`
	CloseTimeHuman string      `json:"close_time_human"`
}

// CloseTimeUnix returns the close time as wall-clock time.
func (h LedgerHeader) CloseTimeUnix() time.Time {
	return time.Unix(int64(h.CloseTime)+RippleEpochOffset, 0).UTC()
}

// CloseTimeMs returns the close time as Unix milliseconds.
func (h LedgerHeader) CloseTimeMs() int64 {
	return (int64(h.CloseTime) + RippleEpochOffset) * 1000
}

// SnapshotHeader is the common prefix of every snapshot document.
type SnapshotHeader struct {
	LedgerIndex   LedgerIndex `json:"ledger_index"`
	LedgerHash    string      `json:"ledger_hash"`
	LedgerClose   string      `json:"ledger_close"`
	LedgerCloseMs int64       `json:"ledger_close_ms"`
}

func (h LedgerHeader) SnapshotHeader() SnapshotHeader {
	return SnapshotHeader{
		LedgerIndex:   h.Index,
		LedgerHash:    h.Hash,
		LedgerClose:   h.CloseTimeHuman,
		LedgerCloseMs: h.CloseTimeMs(),
	}
}
