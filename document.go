// Document value model.
//
// A Document is an insertion-ordered JSON object. Go maps do not keep key
// order, so keys are tracked in a slice alongside the value map. Nested
// objects decode to *Document and arrays to []any, so order survives at
// every depth. Numbers decode to json.Number and keep their original text.
package oredb

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
)

// IDField is the reserved field holding a document's identifier.
const IDField = "guid"

// Document is a schema-less record. The zero value is an empty document
// ready to use.
type Document struct {
	keys   []string
	fields map[string]any
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{fields: make(map[string]any)}
}

// ParseDocument decodes a single JSON object, preserving field order.
func ParseDocument(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, ErrMalformed
	}
	if data[0] != '{' {
		return nil, ErrNotObject
	}
	return decodeObject(data)
}

// Get returns the value of a field and whether it is present.
func (d *Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.fields[key]
	return v, ok
}

// GetString returns a field's value if it holds a string.
func (d *Document) GetString(key string) (string, bool) {
	s, ok := d.fields[key].(string)
	return s, ok
}

// Set assigns a field and returns d for chaining. New keys are appended;
// an existing key keeps its position.
func (d *Document) Set(key string, value any) *Document {
	if d.fields == nil {
		d.fields = make(map[string]any)
	}
	if _, ok := d.fields[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = value
	return d
}

// Delete removes a field. Reports whether it was present.
func (d *Document) Delete(key string) bool {
	if _, ok := d.fields[key]; !ok {
		return false
	}
	delete(d.fields, key)
	if i := slices.Index(d.keys, key); i >= 0 {
		d.keys = slices.Delete(d.keys, i, i+1)
	}
	return true
}

// Keys returns the field names in order.
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.keys)
}

// Fields yields every field in order.
func (d *Document) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range d.keys {
			if !yield(k, d.fields[k]) {
				return
			}
		}
	}
}

// ID returns the guid field as a string. Numeric guids are rendered in
// their JSON form; any other type yields "".
func (d *Document) ID() string {
	if d == nil {
		return ""
	}
	switch v := d.fields[IDField].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// hasID reports whether the guid field is present and equals id.
func (d *Document) hasID(id string) bool {
	if _, ok := d.fields[IDField]; !ok {
		return false
	}
	return d.ID() == id
}

// Clone returns a deep copy. Values of the decoded model (*Document, []any,
// map[string]any and scalars) are copied recursively.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{
		keys:   slices.Clone(d.keys),
		fields: make(map[string]any, len(d.fields)),
	}
	for k, v := range d.fields {
		c.fields[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case *Document:
		return v.Clone()
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two documents have the same fields in the same
// order with equal encoded values.
func (d *Document) Equal(other *Document) bool {
	a, err := d.MarshalJSON()
	if err != nil {
		return false
	}
	b, err := other.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// MarshalJSON writes the fields in order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.MarshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		val, err := json.MarshalNoEscape(d.fields[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces d with the decoded object.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// normalize converts a caller's document into the decoded value model by
// encoding and decoding it. The result shares nothing with the input.
func normalize(d *Document) (*Document, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return decodeObject(data)
}
