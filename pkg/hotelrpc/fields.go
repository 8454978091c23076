package hotelrpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Many2One decodes a relational field. The backend sends [id, "name"], a bare
// id, or false when the relation is empty.
type Many2One struct {
	ID   int64
	Name string
}

func (m *Many2One) UnmarshalJSON(b []byte) error {
	*m = Many2One{}
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, string(b) == "false", string(b) == "null":
		return nil
	case b[0] == '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		if len(parts) == 0 {
			return nil
		}
		if err := json.Unmarshal(parts[0], &m.ID); err != nil {
			return fmt.Errorf("many2one id: %w", err)
		}
		if len(parts) > 1 {
			var name Text
			if err := json.Unmarshal(parts[1], &name); err != nil {
				return fmt.Errorf("many2one name: %w", err)
			}
			m.Name = string(name)
		}
		return nil
	default:
		return json.Unmarshal(b, &m.ID)
	}
}

func (m Many2One) MarshalJSON() ([]byte, error) {
	if m.ID == 0 {
		return []byte("false"), nil
	}
	return json.Marshal([]any{m.ID, m.Name})
}

// Text is a string field that may arrive as false when empty.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "false" || string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// Amount is a monetary field that may arrive as false when unset.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "false" || string(b) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(b)
}
