// Encoding and decoding of the backing file.
//
// The file holds one JSON array of objects. Decoding walks the array with
// jsonparser rather than unmarshalling into map[string]any, because the
// walk visits object keys in file order and lets every object become an
// ordered *Document. The content is validated in full first so that a
// truncated or garbled file is rejected before any document is built.
package oredb

import (
	"bytes"
	"fmt"

	"github.com/buger/jsonparser"
	json "github.com/goccy/go-json"
)

// DefaultIndent is the indentation used for the backing file.
const DefaultIndent = "  "

var bom = []byte("\xef\xbb\xbf")

// decode parses backing file content. Empty, whitespace-only and null
// content yield no documents.
func decode(data []byte) ([]*Document, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, bom))
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, ErrMalformed
	}
	if data[0] != '[' {
		return nil, ErrNotArray
	}
	if empty(data) {
		return nil, nil
	}

	var docs []*Document
	var walkErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, offset int, err error) {
		if walkErr != nil {
			return
		}
		if err != nil {
			walkErr = err
			return
		}
		if dt != jsonparser.Object {
			walkErr = fmt.Errorf("%w: %v at offset %d", ErrNotObject, dt, offset)
			return
		}
		doc, err := decodeObject(value)
		if err != nil {
			walkErr = err
			return
		}
		docs = append(docs, doc)
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return docs, nil
}

// decodeObject builds an ordered document from a JSON object. Repeated
// keys keep their first position and take the last value.
func decodeObject(data []byte) (*Document, error) {
	doc := NewDocument()
	if empty(data) {
		return doc, nil
	}
	err := jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		v, err := decodeValue(value, dt)
		if err != nil {
			return err
		}
		doc.Set(string(key), v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return doc, nil
}

func decodeArray(data []byte) ([]any, error) {
	out := []any{}
	if empty(data) {
		return out, nil
	}
	var walkErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
		if walkErr != nil {
			return
		}
		if err != nil {
			walkErr = err
			return
		}
		v, err := decodeValue(value, dt)
		if err != nil {
			walkErr = err
			return
		}
		out = append(out, v)
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeValue(value []byte, dt jsonparser.ValueType) (any, error) {
	switch dt {
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Object:
		return decodeObject(value)
	case jsonparser.Array:
		return decodeArray(value)
	}
	return nil, fmt.Errorf("%w: unexpected %v", ErrMalformed, dt)
}

// empty reports whether data is an object or array with nothing but
// whitespace between its delimiters.
func empty(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) < 2 {
		return false
	}
	return len(bytes.TrimSpace(data[1:len(data)-1])) == 0
}

// encode renders documents as an indented JSON array with a trailing
// newline.
func encode(docs []*Document, indent string) ([]byte, error) {
	if docs == nil {
		docs = []*Document{}
	}
	compact, err := json.MarshalNoEscape(docs)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
