package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	next    string
	indexes []string
}

type fakeNode struct {
	mu       sync.Mutex
	ledger   types.LedgerIndex
	pages    map[string]fakePage
	failures map[string]int
	repeats  map[string]int
	calls    map[string]int
	requests []types.LedgerDataRequest

	// corruptJSON changes the object index of the JSON form of this marker's page.
	corruptJSON map[string]bool
}

func newFakeNode(ledger types.LedgerIndex, pages map[string]fakePage) *fakeNode {
	return &fakeNode{
		ledger:      ledger,
		pages:       pages,
		failures:    make(map[string]int),
		repeats:     make(map[string]int),
		calls:       make(map[string]int),
		corruptJSON: make(map[string]bool),
	}
}

func (n *fakeNode) Name() string { return "fake" }

func (n *fakeNode) Close() error { return nil }

func (n *fakeNode) LedgerData(_ context.Context, req types.LedgerDataRequest) (*types.LedgerDataPage, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls[req.Marker]++
	n.requests = append(n.requests, req)
	if n.failures[req.Marker] > 0 {
		n.failures[req.Marker]--
		return nil, errors.Wrap(errs.Transient, "connection refused")
	}

	page, ok := n.pages[req.Marker]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "marker %q", req.Marker)
	}
	next := page.next
	if n.repeats[req.Marker] > 0 && !req.Binary {
		n.repeats[req.Marker]--
		next = req.Marker
	}

	out := &types.LedgerDataPage{LedgerIndex: n.ledger, LedgerHash: "HASH", Marker: next}
	for i, index := range page.indexes {
		if req.Binary {
			out.State = append(out.State, types.StateEntry{Index: index, Data: "AABBCC"})
			continue
		}
		if i == 0 && n.corruptJSON[req.Marker] {
			index = "CORRUPT"
		}
		raw := fmt.Sprintf(`{"LedgerEntryType":"AccountRoot","Account":"r%s","Balance":"1000000","Flags":0,"OwnerCount":0,"index":%q}`, index, index)
		out.State = append(out.State, types.StateEntry{Index: index, JSON: json.RawMessage(raw)})
	}
	return out, nil
}

func (n *fakeNode) Ledger(_ context.Context, index types.LedgerIndex) (*types.LedgerHeader, error) {
	return &types.LedgerHeader{Index: index, Hash: "HASH", CloseTime: 100}, nil
}

// countingProcessor counts how often each object index was processed.
type countingProcessor struct {
	seen  map[string]int
	sizes map[string]int
}

func newCountingProcessor() *countingProcessor {
	p := &countingProcessor{}
	p.Reset()
	return p
}

func (p *countingProcessor) Name() string { return "counting" }

func (p *countingProcessor) Reset() {
	p.seen = make(map[string]int)
	p.sizes = make(map[string]int)
}

func (p *countingProcessor) Accepts(ledgerobject.EntryType) bool { return true }

func (p *countingProcessor) Process(_ context.Context, obj *ledgerobject.Object) error {
	p.seen[obj.Index]++
	p.sizes[obj.Index] = obj.Size
	return nil
}

func (p *countingProcessor) Finalize(_ context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error) {
	return []snapshot.Artifact{{Name: "counting.json", Value: map[string]any{"ledger_index": header.Index, "objects": len(p.seen)}}}, nil
}

type recorder struct {
	results []PassResult
}

func (r *recorder) RecordPass(_ context.Context, result PassResult) error {
	r.results = append(r.results, result)
	return nil
}

func threePages() map[string]fakePage {
	return map[string]fakePage{
		"":   {next: "m1", indexes: []string{"A", "B"}},
		"m1": {next: "m2", indexes: []string{"C", "D"}},
		"m2": {indexes: []string{"E", "F"}},
	}
}

func newTestScanner(t *testing.T, config Config, node *fakeNode, processors ...Processor) (*Scanner, *snapshot.Store) {
	t.Helper()
	store, err := snapshot.New(snapshot.Config{DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	s := New(config, node, store, processors...)
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s, store
}

func assertSeenOnce(t *testing.T, p *countingProcessor, indexes ...string) {
	t.Helper()
	assert.Len(t, p.seen, len(indexes))
	for _, index := range indexes {
		assert.Equal(t, 1, p.seen[index], "object %s", index)
	}
}

func TestScanFollowsMarkers(t *testing.T) {
	node := newFakeNode(42, threePages())
	p := newCountingProcessor()
	rec := &recorder{}
	s, store := newTestScanner(t, Config{}, node, p)
	s.WithRecorder(rec)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assertSeenOnce(t, p, "A", "B", "C", "D", "E", "F")
	assert.EqualValues(t, 3, result.Pages)
	assert.EqualValues(t, 6, result.Objects)
	assert.EqualValues(t, 42, result.Header.Index)
	assert.Equal(t, StateIdle, s.State())

	gen := store.Current()
	require.NotNil(t, gen)
	assert.EqualValues(t, 42, gen.Header.Index)
	assert.True(t, gen.HasFile("counting.json"))
	assert.False(t, store.Processing())

	require.Len(t, rec.results, 1)
	assert.False(t, rec.results[0].Failed())

	// the first request asks for the validated ledger, later ones are pinned
	require.Len(t, node.requests, 3)
	assert.EqualValues(t, 0, node.requests[0].LedgerIndex)
	assert.EqualValues(t, 42, node.requests[1].LedgerIndex)
	assert.EqualValues(t, 42, node.requests[2].LedgerIndex)
	assert.Equal(t, DefaultPageLimit, node.requests[0].Limit)
}

func TestScanMarkerRepeatNotDoubleCounted(t *testing.T) {
	node := newFakeNode(7, threePages())
	node.repeats["m1"] = 2
	node.failures["m2"] = 1
	p := newCountingProcessor()
	s, _ := newTestScanner(t, Config{}, node, p)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assertSeenOnce(t, p, "A", "B", "C", "D", "E", "F")
	assert.EqualValues(t, 3, result.Pages)
	assert.Equal(t, 3, node.calls["m1"])
	assert.Equal(t, 2, node.calls["m2"])
}

func TestScanRetryCeiling(t *testing.T) {
	node := newFakeNode(10, threePages())
	p := newCountingProcessor()
	s, store := newTestScanner(t, Config{}, node, p)

	_, err := s.Scan(context.Background())
	require.NoError(t, err)
	published := store.Current()
	require.NotNil(t, published)

	node.ledger = 11
	node.failures["m1"] = 100
	node.calls = make(map[string]int)

	result, err := s.Scan(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.RetryExhausted))
	assert.True(t, result.Failed())
	assert.Equal(t, DefaultMaxRetries+1, node.calls["m1"])
	assert.Equal(t, StateFailed, s.State())
	assert.Empty(t, p.seen)

	assert.Equal(t, published.Name, store.Current().Name)
	assert.EqualValues(t, 10, store.Current().Header.Index)
	assert.False(t, store.Processing())
}

func TestScanRetryRecovers(t *testing.T) {
	node := newFakeNode(10, threePages())
	node.failures["m1"] = DefaultMaxRetries
	p := newCountingProcessor()
	s, _ := newTestScanner(t, Config{}, node, p)

	_, err := s.Scan(context.Background())
	require.NoError(t, err)
	assertSeenOnce(t, p, "A", "B", "C", "D", "E", "F")
}

func TestScanReconcile(t *testing.T) {
	node := newFakeNode(5, threePages())
	p := newCountingProcessor()
	s, _ := newTestScanner(t, Config{Reconcile: true}, node, p)

	_, err := s.Scan(context.Background())
	require.NoError(t, err)
	assertSeenOnce(t, p, "A", "B", "C", "D", "E", "F")
	assert.Equal(t, 3, p.sizes["A"])
	assert.Len(t, node.requests, 6)
	assert.True(t, node.requests[0].Binary)
	assert.False(t, node.requests[1].Binary)
	assert.EqualValues(t, 5, node.requests[1].LedgerIndex)
}

func TestScanReconcileMismatchIsFatal(t *testing.T) {
	node := newFakeNode(5, threePages())
	node.corruptJSON["m1"] = true
	p := newCountingProcessor()
	s, store := newTestScanner(t, Config{Reconcile: true}, node, p)

	_, err := s.Scan(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ProtocolMismatch))
	assert.Equal(t, 1, node.calls["m1"]/2)
	assert.Nil(t, store.Current())
	assert.Equal(t, StateFailed, s.State())
}

func TestScanTypeFilters(t *testing.T) {
	node := newFakeNode(9, map[string]fakePage{"": {indexes: []string{"A"}}})
	p := newCountingProcessor()
	s, _ := newTestScanner(t, Config{TypeFilters: []string{"account", "nft_page"}}, node, p)

	_, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, node.requests, 2)
	assert.Equal(t, "account", node.requests[0].Type)
	assert.Equal(t, "nft_page", node.requests[1].Type)
	assert.EqualValues(t, 9, node.requests[1].LedgerIndex)
	assert.Equal(t, 2, p.seen["A"])
}

func TestScanBusy(t *testing.T) {
	node := newFakeNode(1, threePages())
	s, _ := newTestScanner(t, Config{}, node)
	require.True(t, s.guard.TryAcquire())

	_, err := s.Scan(context.Background())
	assert.True(t, errors.Is(err, errs.Busy))
	assert.Equal(t, 1, s.Status().MissedWindows)
	assert.True(t, s.Status().Running)
	assert.Empty(t, node.requests)
}

func TestGuard(t *testing.T) {
	var stuck []int
	g := NewGuard(2, func(missed int) { stuck = append(stuck, missed) })

	require.True(t, g.TryAcquire())
	assert.False(t, g.TryAcquire())
	assert.Empty(t, stuck)
	assert.False(t, g.TryAcquire())
	assert.Equal(t, []int{2}, stuck)
	assert.Equal(t, 2, g.Missed())

	g.Release()
	require.True(t, g.TryAcquire())
	assert.Zero(t, g.Missed())
}

func TestReconcile(t *testing.T) {
	entry := func(index string) types.StateEntry { return types.StateEntry{Index: index, Data: "AA"} }
	jsonEntry := func(index string) types.StateEntry { return types.StateEntry{Index: index, JSON: json.RawMessage(`{}`)} }
	page := func(ledger types.LedgerIndex, marker string, entries ...types.StateEntry) *types.LedgerDataPage {
		return &types.LedgerDataPage{LedgerIndex: ledger, Marker: marker, State: entries}
	}

	testcases := []struct {
		name    string
		binary  *types.LedgerDataPage
		decoded *types.LedgerDataPage
		ok      bool
	}{
		{name: "match", binary: page(1, "m", entry("A"), entry("B")), decoded: page(1, "m", jsonEntry("A"), jsonEntry("B")), ok: true},
		{name: "ledger_index", binary: page(1, "m", entry("A")), decoded: page(2, "m", jsonEntry("A"))},
		{name: "length", binary: page(1, "m", entry("A"), entry("B")), decoded: page(1, "m", jsonEntry("A"))},
		{name: "marker", binary: page(1, "m", entry("A")), decoded: page(1, "n", jsonEntry("A"))},
		{name: "order", binary: page(1, "m", entry("A"), entry("B")), decoded: page(1, "m", jsonEntry("B"), jsonEntry("A"))},
		{name: "missing_json", binary: page(1, "m", entry("A")), decoded: page(1, "m", entry("A"))},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := reconcile(tc.binary, tc.decoded)
			if !tc.ok {
				assert.True(t, errors.Is(err, errs.ProtocolMismatch))
				return
			}
			require.NoError(t, err)
			require.Len(t, entries, len(tc.binary.State))
			for i, e := range entries {
				assert.Equal(t, tc.binary.State[i].Data, e.Data)
				assert.Equal(t, tc.decoded.State[i].JSON, e.JSON)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	at := func(h, m, s int) time.Time { return time.Date(2024, 5, 1, h, m, s, 0, time.UTC) }
	testcases := []struct {
		name     string
		now      time.Time
		minutes  []int
		expected time.Time
	}{
		{name: "later_this_hour", now: at(10, 5, 30), minutes: []int{0, 30}, expected: at(10, 30, 0)},
		{name: "next_hour", now: at(10, 45, 0), minutes: []int{0, 30}, expected: at(11, 0, 0)},
		{name: "exact_minute_is_skipped", now: at(10, 30, 0), minutes: []int{30}, expected: at(11, 30, 0)},
		{name: "unsorted", now: at(10, 5, 0), minutes: []int{50, 10}, expected: at(10, 10, 0)},
		{name: "invalid_ignored", now: at(10, 5, 0), minutes: []int{-1, 75}, expected: at(11, 0, 0)},
		{name: "empty", now: at(23, 59, 59), expected: at(0, 0, 0).AddDate(0, 0, 1)},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NextRun(tc.now, tc.minutes))
		})
	}
}
