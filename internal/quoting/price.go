package quoting

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UnavailableLabel is how a missing price is shown to customers.
const UnavailableLabel = "Consultar"

// Price is either a known amount or Unavailable.
type Price struct {
	amount decimal.Decimal
	known  bool
}

// Known wraps an amount.
func Known(amount decimal.Decimal) Price {
	return Price{amount: amount, known: true}
}

// Unavailable is the zero Price.
func Unavailable() Price {
	return Price{}
}

// Amount returns the amount and whether there is one.
func (p Price) Amount() (decimal.Decimal, bool) {
	return p.amount, p.known
}

func (p Price) IsKnown() bool { return p.known }

// String renders the amount with two decimals, or the unavailable label.
func (p Price) String() string {
	if !p.known {
		return UnavailableLabel
	}
	return p.amount.StringFixed(2)
}

// MarshalJSON writes a number, or the unavailable label as a string.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.known {
		return json.Marshal(UnavailableLabel)
	}
	return []byte(p.amount.StringFixed(2)), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || bytes.Equal(b, []byte("null")) {
		var s string
		if len(b) > 0 && b[0] == '"' {
			if err := json.Unmarshal(b, &s); err != nil {
				return err
			}
		}
		if s == "" || s == UnavailableLabel {
			*p = Unavailable()
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		*p = Known(d)
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*p = Known(d)
	return nil
}
