package ledgerstats

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

// Aggregator computes per entry type structural statistics over every object of a pass.
type Aggregator struct {
	accumulators map[string]*accumulator

	mu   sync.RWMutex
	last map[string]TypeStat
}

func New() *Aggregator {
	return &Aggregator{
		accumulators: make(map[string]*accumulator),
	}
}

func (a *Aggregator) Name() string {
	return common.ModuleLedgerStats.String()
}

func (a *Aggregator) Accepts(ledgerobject.EntryType) bool {
	return true
}

func (a *Aggregator) Reset() {
	a.accumulators = make(map[string]*accumulator)
}

func (a *Aggregator) Process(_ context.Context, obj *ledgerobject.Object) error {
	key := typeKey(obj)
	acc, ok := a.accumulators[key]
	if !ok {
		acc = newAccumulator(obj.Type)
		a.accumulators[key] = acc
	}
	return errors.WithStack(acc.add(obj))
}

// Stats builds the statistics of the objects processed so far.
func (a *Aggregator) Stats() map[string]TypeStat {
	var total uint64
	for _, acc := range a.accumulators {
		total += acc.size
	}
	stats := make(map[string]TypeStat, len(a.accumulators))
	for key, acc := range a.accumulators {
		stats[key] = acc.stat(total)
	}
	return stats
}

// Last returns the statistics of the most recently finalized pass, nil
// before the first one.
func (a *Aggregator) Last() map[string]TypeStat {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

func (a *Aggregator) Finalize(ctx context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error) {
	stats := a.Stats()
	a.Reset()

	a.mu.Lock()
	a.last = stats
	a.mu.Unlock()

	logger.InfoContext(ctx, "ledger statistics built",
		slogx.String("module", a.Name()),
		slogx.Int("types", len(stats)),
	)
	return []snapshot.Artifact{{Name: SnapshotFile, Value: Snapshot{
		SnapshotHeader: header.SnapshotHeader(),
		LedgerData:     stats,
	}}}, nil
}

// typeKey buckets by the lowercase type name as reported by the node, so
// types outside the known set still get their own bucket.
func typeKey(obj *ledgerobject.Object) string {
	if obj.Type == ledgerobject.EntryTypeUnknown && obj.TypeName != "" {
		return strings.ToLower(obj.TypeName)
	}
	return obj.Type.Key()
}

func errOverflow(obj *ledgerobject.Object, field string) error {
	return errors.Wrapf(errs.OverflowUint128, "object %s: %s total", obj.Index, field)
}
