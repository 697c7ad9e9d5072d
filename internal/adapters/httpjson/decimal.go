package httpjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Decimal is a big integer that encodes as a decimal string and decodes
// from either a JSON string or a JSON number
type Decimal struct {
	big.Int
}

// NewDecimal wraps v, treating nil as zero
func NewDecimal(v *big.Int) Decimal {
	var d Decimal
	if v != nil {
		d.Set(v)
	}
	return d
}

// Big returns a copy of the value
func (d Decimal) Big() *big.Int {
	return new(big.Int).Set(&d.Int)
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("decimal must not be null")
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	if _, ok := d.SetString(raw, 10); !ok {
		return fmt.Errorf("invalid decimal %q", raw)
	}
	return nil
}

// OptionalDecimal decodes like Decimal but keeps null and unparseable
// values as nil
type OptionalDecimal struct {
	Value *big.Int
}

func (d OptionalDecimal) MarshalJSON() ([]byte, error) {
	if d.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value.String())
}

func (d *OptionalDecimal) UnmarshalJSON(data []byte) error {
	var dec Decimal
	if err := dec.UnmarshalJSON(data); err != nil {
		d.Value = nil
		return nil
	}
	d.Value = dec.Big()
	return nil
}
