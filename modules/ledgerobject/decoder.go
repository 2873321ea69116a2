package ledgerobject

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
)

// Object is one decoded ledger object.
type Object struct {
	Index string
	Type  EntryType

	// TypeName is the LedgerEntryType as reported by the node, kept for
	// types outside the known set.
	TypeName string

	// Size is the length in bytes of the binary encoding.
	Size int

	// Fields holds every decoded property except "index". Numbers are json.Number.
	Fields map[string]any

	Entry Entry
}

// Flags returns the Flags field, zero when absent.
func (o *Object) Flags() uint32 {
	n, ok := o.Fields["Flags"].(json.Number)
	if !ok {
		return 0
	}
	v, err := n.Int64()
	if err != nil || v < 0 {
		return 0
	}
	return uint32(v)
}

// Decoder turns raw page entries into typed objects.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes one object. binaryHex is the binary encoding in hex and
// may be empty when only the JSON form was fetched, in which case the size
// is the length of the compact JSON encoding.
func (d *Decoder) Decode(index string, binaryHex string, raw json.RawMessage) (*Object, error) {
	fields := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "object %s: can't decode fields: %v", index, err)
	}
	delete(fields, "index")

	typeName, _ := fields["LedgerEntryType"].(string)
	if typeName == "" {
		return nil, errors.Wrapf(errs.InvalidArgument, "object %s: missing LedgerEntryType", index)
	}

	obj := &Object{
		Index:    index,
		Type:     ParseEntryType(typeName),
		TypeName: typeName,
		Fields:   fields,
	}

	if binaryHex != "" {
		obj.Size = len(binaryHex) / 2
	} else {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "object %s: %v", index, err)
		}
		obj.Size = buf.Len()
	}

	entry := newEntry(obj.Type)
	if _, generic := entry.(*Generic); !generic {
		if err := json.Unmarshal(raw, entry); err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "object %s: can't decode %s: %v", index, typeName, err)
		}
	}
	obj.Entry = entry
	return obj, nil
}

func newEntry(t EntryType) Entry {
	switch t {
	case EntryTypeAccountRoot:
		return &AccountRoot{}
	case EntryTypeRippleState:
		return &RippleState{}
	case EntryTypeOffer:
		return &Offer{}
	case EntryTypeNFTokenPage:
		return &NFTokenPage{}
	case EntryTypeNFTokenOffer:
		return &NFTokenOffer{}
	case EntryTypeEscrow:
		return &Escrow{}
	case EntryTypePayChannel:
		return &PayChannel{}
	case EntryTypeSignerList:
		return &SignerList{}
	case EntryTypeFeeSettings:
		return &FeeSettings{}
	case EntryTypeHook:
		return &Hook{}
	case EntryTypeURIToken:
		return &URIToken{}
	default:
		return &Generic{Type: t}
	}
}
