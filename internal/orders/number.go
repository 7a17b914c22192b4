package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number holds a numeric request field that may arrive as a JSON number or a
// string. Parsing is deferred so malformed values can be skipped by the
// calculator instead of failing the whole body decode.
type Number struct {
	raw string
	set bool
}

// NumberOf builds a Number from a Go value, mostly for tests and internal callers.
func NumberOf(v any) Number {
	return Number{raw: strings.TrimSpace(fmt.Sprint(v)), set: true}
}

// NumberFromDecimal builds a Number carrying d.
func NumberFromDecimal(d decimal.Decimal) Number {
	return Number{raw: d.String(), set: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number{raw: strings.TrimSpace(s), set: true}
		return nil
	}
	*n = Number{raw: string(data), set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if d, ok := n.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(n.raw)
}

// IsSet reports whether the field was present in the payload.
func (n Number) IsSet() bool {
	return n.set
}

// Raw returns the value as received.
func (n Number) Raw() string {
	return n.raw
}

// Decimal parses the value. ok is false for absent or non numeric input.
func (n Number) Decimal() (decimal.Decimal, bool) {
	if !n.set || n.raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// DiscountSpec is the "remise" field: a percentage such as "10%" or an
// absolute amount given as a number or numeric string.
type DiscountSpec struct {
	raw string
	set bool
}

// ParseDiscount wraps a raw discount value.
func ParseDiscount(raw string) DiscountSpec {
	return DiscountSpec{raw: strings.TrimSpace(raw), set: true}
}

// AbsoluteDiscount builds a spec carrying a fixed amount.
func AbsoluteDiscount(amount decimal.Decimal) DiscountSpec {
	return DiscountSpec{raw: amount.String(), set: true}
}

func (d *DiscountSpec) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*d = DiscountSpec{raw: n.raw, set: n.set}
	return nil
}

func (d DiscountSpec) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.raw)
}

// IsSet reports whether the field was present in the payload.
func (d DiscountSpec) IsSet() bool {
	return d.set
}

// String returns the raw spec.
func (d DiscountSpec) String() string {
	return d.raw
}

// Amount resolves the discount against a gross total. Unparsable or negative
// specs resolve to zero.
func (d DiscountSpec) Amount(gross decimal.Decimal) decimal.Decimal {
	raw := strings.TrimSpace(d.raw)
	if !d.set || raw == "" {
		return decimal.Zero
	}

	if strings.Contains(raw, "%") {
		pct, err := decimal.NewFromString(strings.TrimSpace(strings.Replace(raw, "%", "", 1)))
		if err != nil || pct.IsNegative() {
			return decimal.Zero
		}
		return gross.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(2)
}
