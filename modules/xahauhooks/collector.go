package xahauhooks

import (
	"context"
	"maps"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

// Record is a ledger object body as published.
type Record map[string]any

// strippedFields are bookkeeping fields left out of published records.
var strippedFields = []string{"LedgerEntryType", "PreviousTxnID", "PreviousTxnLgrSeq", "OwnerNode"}

// Collector gathers the Xahau Hook and URIToken objects of a pass.
type Collector struct {
	pageSize    int
	hooks       []Record
	definitions []Record
	stateCount  uint64
	uriTokens   []Record
}

func New(pageSize int) *Collector {
	return &Collector{pageSize: pageSize}
}

var acceptedTypes = ledgerobject.NewEntryTypeSet(
	ledgerobject.EntryTypeHook,
	ledgerobject.EntryTypeHookDefinition,
	ledgerobject.EntryTypeHookState,
	ledgerobject.EntryTypeURIToken,
)

func (c *Collector) Name() string {
	return common.ModuleHooks.String()
}

func (c *Collector) Accepts(t ledgerobject.EntryType) bool {
	return acceptedTypes.Has(t)
}

func (c *Collector) Reset() {
	c.hooks = nil
	c.definitions = nil
	c.stateCount = 0
	c.uriTokens = nil
}

func (c *Collector) Process(_ context.Context, obj *ledgerobject.Object) error {
	switch obj.Type {
	case ledgerobject.EntryTypeHook:
		c.hooks = append(c.hooks, record(obj, "index"))
	case ledgerobject.EntryTypeHookDefinition:
		c.definitions = append(c.definitions, record(obj, "index"))
	case ledgerobject.EntryTypeHookState:
		c.stateCount++
	case ledgerobject.EntryTypeURIToken:
		c.uriTokens = append(c.uriTokens, record(obj, "URITokenID"))
	}
	return nil
}

func record(obj *ledgerobject.Object, indexKey string) Record {
	r := make(Record, len(obj.Fields)+1)
	maps.Copy(r, obj.Fields)
	for _, field := range strippedFields {
		delete(r, field)
	}
	r[indexKey] = obj.Index
	return r
}

func sortBy(records []Record, key string) {
	sort.Slice(records, func(i, j int) bool {
		a, _ := records[i][key].(string)
		b, _ := records[j][key].(string)
		return a < b
	})
}

func (c *Collector) Finalize(ctx context.Context, header types.LedgerHeader) ([]snapshot.Artifact, error) {
	hooks, definitions, stateCount, uriTokens := c.hooks, c.definitions, c.stateCount, c.uriTokens
	c.Reset()

	sortBy(hooks, "index")
	sortBy(definitions, "index")
	sortBy(uriTokens, "URITokenID")

	sh := header.SnapshotHeader()
	artifacts := []snapshot.Artifact{{Name: HooksFile, Value: HooksSnapshot{
		SnapshotHeader:  sh,
		Hooks:           nonNil(hooks),
		HookDefinitions: nonNil(definitions),
		HookStateCount:  stateCount,
	}}}

	pages := 1
	if len(uriTokens) > 0 {
		pages = (len(uriTokens) + c.pageSize - 1) / c.pageSize
	}
	uriArtifacts, err := snapshot.PaginateJSON(ctx, URITokensPrefix, uriTokens, c.pageSize, func(page int, items []Record) any {
		return URITokensSnapshot{SnapshotHeader: sh, Page: page, Pages: pages, URITokens: nonNil(items)}
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't paginate uritoken snapshot")
	}

	logger.InfoContext(ctx, "hook objects collected",
		slogx.String("module", c.Name()),
		slogx.Int("hooks", len(hooks)),
		slogx.Int("hook_definitions", len(definitions)),
		slogx.Uint64("hook_states", stateCount),
		slogx.Int("uritokens", len(uriTokens)),
	)
	return append(artifacts, uriArtifacts...), nil
}

func nonNil(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}
