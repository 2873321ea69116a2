package ledgerstats

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/axiomhq/hyperloglog"
	"github.com/gaze-network/ledger-scanner/modules/ledgerobject"
	"github.com/gaze-network/uint128"
)

// TypeStat is the published statistic of one ledger entry type.
type TypeStat struct {
	Count         uint64            `json:"count"`
	Size          uint64            `json:"size"`
	Percentage    float64           `json:"percentage"`
	PropertyCount map[string]uint64 `json:"property_count"`
	Flags         map[string]uint64 `json:"flags,omitempty"`
	SpecialData   map[string]any    `json:"special_data,omitempty"`

	valueTotals map[string]uint128.Uint128
}

// ValueTotal returns the exact running total of a native amount field.
func (s TypeStat) ValueTotal(field string) (uint128.Uint128, bool) {
	v, ok := s.valueTotals[field]
	return v, ok
}

// accountFields are counted by unique value.
var accountFields = []string{"Account", "Destination", "Owner", "Issuer", "RegularKey", "Authorize"}

// valueFields hold native amounts when encoded as a drops string.
var valueFields = []string{"Balance", "Amount", "TakerGets", "TakerPays", "SendMax"}

// histogramFields are arrays whose lengths are bucketed.
var histogramFields = []string{"NFTokens", "Indexes", "SignerEntries", "Hashes", "Hooks"}

type accumulator struct {
	entryType     ledgerobject.EntryType
	count         uint64
	size          uint64
	propertyCount map[string]uint64
	flags         map[string]uint64
	accounts      map[string]*hyperloglog.Sketch
	valueTotals   map[string]uint128.Uint128
	histograms    map[string]map[int]uint64
}

func newAccumulator(t ledgerobject.EntryType) *accumulator {
	return &accumulator{
		entryType:     t,
		propertyCount: make(map[string]uint64),
		flags:         make(map[string]uint64),
		accounts:      make(map[string]*hyperloglog.Sketch),
		valueTotals:   make(map[string]uint128.Uint128),
		histograms:    make(map[string]map[int]uint64),
	}
}

func (a *accumulator) add(obj *ledgerobject.Object) error {
	a.count++
	a.size += uint64(obj.Size)

	for property, value := range obj.Fields {
		if truthy(value) {
			a.propertyCount[property]++
		}
	}

	for name, set := range ledgerobject.DecodeFlags(obj.Type, obj.Flags()) {
		if set {
			a.flags[name]++
		}
	}

	for _, field := range accountFields {
		address, ok := obj.Fields[field].(string)
		if !ok || address == "" {
			continue
		}
		sketch, ok := a.accounts[field]
		if !ok {
			sketch = hyperloglog.New14()
			a.accounts[field] = sketch
		}
		sketch.Insert([]byte(address))
	}

	for _, field := range valueFields {
		drops, ok := nativeDrops(obj.Fields[field])
		if !ok {
			continue
		}
		total, overflow := a.valueTotals[field].AddOverflow(uint128.From64(drops))
		if overflow {
			return errOverflow(obj, field)
		}
		a.valueTotals[field] = total
	}

	for _, field := range histogramFields {
		items, ok := obj.Fields[field].([]any)
		if !ok {
			continue
		}
		histogram, ok := a.histograms[field]
		if !ok {
			histogram = make(map[int]uint64)
			a.histograms[field] = histogram
		}
		histogram[len(items)]++
	}
	return nil
}

func (a *accumulator) stat(totalSize uint64) TypeStat {
	stat := TypeStat{
		Count:         a.count,
		Size:          a.size,
		Percentage:    percentage(a.size, totalSize),
		PropertyCount: a.propertyCount,
		valueTotals:   a.valueTotals,
	}
	if len(a.flags) > 0 || len(ledgerobject.FlagNames(a.entryType)) > 0 {
		stat.Flags = a.flags
	}

	special := make(map[string]any)
	for field, sketch := range a.accounts {
		special[field+"UniqueAccounts"] = sketch.Estimate()
	}
	for field, total := range a.valueTotals {
		special[field+"ValueTotal"] = json.Number(total.String())
	}
	for field, histogram := range a.histograms {
		special[field+"Histogram"] = histogram
	}
	if len(special) > 0 {
		stat.SpecialData = special
	}
	return stat
}

func percentage(size, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(size)*100/float64(total)*1e6) / 1e6
}

// truthy reports whether a decoded property carries a value: non-empty
// strings, non-zero numbers, true, and any array or object.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// nativeDrops returns the drops of a native amount, which the node encodes
// as a decimal string. Issued amounts are objects and are ignored.
func nativeDrops(v any) (uint64, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, false
	}
	drops, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return drops, true
}
