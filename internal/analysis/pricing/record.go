package pricing

import (
	"bytes"
	"encoding/json"
)

// Field is an output column of an analysis record.
type Field string

const (
	FieldProductName   Field = "product_name"
	FieldCategory      Field = "category"
	FieldCurrentPrice  Field = "current_price"
	FieldCost          Field = "cost"
	FieldAverageRating Field = "average_rating"
	FieldStockQuantity Field = "stock_quantity"
	FieldMarginPct     Field = "margin_pct"
)

var (
	baseFields     = []Field{FieldProductName, FieldCurrentPrice, FieldCost, FieldMarginPct}
	extendedFields = []Field{FieldProductName, FieldCategory, FieldCurrentPrice, FieldAverageRating, FieldStockQuantity, FieldMarginPct}
)

type entry struct {
	field Field
	value any
}

// Record is an ordered set of field values. It serializes as a JSON object
// with keys in field order.
type Record struct {
	entries []entry
}

func (r *Record) set(field Field, value any) {
	r.entries = append(r.entries, entry{field: field, value: value})
}

// Fields returns the record's fields in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.field
	}
	return out
}

// Value returns the value stored for field.
func (r Record) Value(field Field) (any, bool) {
	for _, e := range r.entries {
		if e.field == field {
			return e.value, true
		}
	}
	return nil, false
}

// Map returns the record as a plain map, for callers that need a generic value.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.entries))
	for _, e := range r.entries {
		out[string(e.field)] = e.value
	}
	return out
}

// MarshalJSON writes the record as an object with keys in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(e.field))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
