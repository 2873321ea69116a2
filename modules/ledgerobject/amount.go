package ledgerobject

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Amount is either a native amount in drops or an issued currency amount.
type Amount struct {
	Native bool

	// Drops is set for native amounts.
	Drops int64

	Currency string
	Issuer   string
	Value    decimal.Decimal
}

type issuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WithStack(err)
		}
		drops, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid native amount %q", s)
		}
		*a = Amount{Native: true, Drops: drops}
		return nil
	}

	var issued issuedAmount
	if err := json.Unmarshal(data, &issued); err != nil {
		return errors.Wrap(err, "invalid issued amount")
	}
	value := decimal.Zero
	if issued.Value != "" {
		v, err := decimal.NewFromString(issued.Value)
		if err != nil {
			return errors.Wrapf(err, "invalid issued amount value %q", issued.Value)
		}
		value = v
	}
	*a = Amount{Currency: issued.Currency, Issuer: issued.Issuer, Value: value}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Native {
		return json.Marshal(strconv.FormatInt(a.Drops, 10))
	}
	return json.Marshal(issuedAmount{Currency: a.Currency, Issuer: a.Issuer, Value: a.Value.String()})
}

// IsIssued reports whether the amount is an issued currency amount.
func (a Amount) IsIssued() bool {
	return !a.Native && a.Currency != ""
}
