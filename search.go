// Predicate builders for Select and SelectOne.
//
// Fields are addressed by name or by a dotted path into nested objects
// ("address.city"). Equals compares encoded JSON, so a decoded number
// matches the Go int or float of the same value and nested objects compare
// field by field in order.
//
// Match mirrors a text search over one string field. Literal patterns (no
// regex metacharacters) take a fast path through strings.Contains; other
// patterns are compiled once when the predicate is built.
package oredb

import (
	"bytes"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// SearchOptions configures Match.
type SearchOptions struct {
	CaseSensitive bool
}

// Lookup resolves a dotted path through nested documents.
func (d *Document) Lookup(path string) (any, bool) {
	cur := d
	for {
		key, rest, nested := strings.Cut(path, ".")
		v, ok := cur.Get(key)
		if !ok || !nested {
			return v, ok
		}
		next, isDoc := v.(*Document)
		if !isDoc || next == nil {
			return nil, false
		}
		cur, path = next, rest
	}
}

// Has matches documents where the field is present, even if null.
func Has(field string) Predicate {
	return func(d *Document) bool {
		_, ok := d.Lookup(field)
		return ok
	}
}

// Equals matches documents whose field encodes to the same JSON as value.
// A value that cannot be encoded matches nothing.
func Equals(field string, value any) Predicate {
	want, err := json.MarshalNoEscape(value)
	if err != nil {
		return func(*Document) bool { return false }
	}
	return func(d *Document) bool {
		v, ok := d.Lookup(field)
		if !ok {
			return false
		}
		got, err := json.MarshalNoEscape(v)
		return err == nil && bytes.Equal(got, want)
	}
}

// ID matches documents whose guid equals id.
func ID(id string) Predicate {
	return func(d *Document) bool {
		return d.hasID(id)
	}
}

// Match matches documents whose string field matches pattern. A pattern
// that does not compile returns ErrInvalidPattern.
func Match(field, pattern string, opts SearchOptions) (Predicate, error) {
	var match func(string) bool

	if regexp.QuoteMeta(pattern) == pattern {
		if opts.CaseSensitive {
			match = func(s string) bool {
				return strings.Contains(s, pattern)
			}
		} else {
			lower := strings.ToLower(pattern)
			match = func(s string) bool {
				return strings.Contains(strings.ToLower(s), lower)
			}
		}
	} else {
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, ErrInvalidPattern
		}
		match = re.MatchString
	}

	return func(d *Document) bool {
		v, ok := d.Lookup(field)
		if !ok {
			return false
		}
		s, ok := v.(string)
		return ok && match(s)
	}, nil
}

// And matches documents satisfying every predicate.
func And(preds ...Predicate) Predicate {
	return func(d *Document) bool {
		for _, p := range preds {
			if !p.match(d) {
				return false
			}
		}
		return true
	}
}

// Or matches documents satisfying at least one predicate.
func Or(preds ...Predicate) Predicate {
	return func(d *Document) bool {
		for _, p := range preds {
			if p.match(d) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(d *Document) bool {
		return !pred.match(d)
	}
}
