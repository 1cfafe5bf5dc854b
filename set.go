// Document insertion and replacement.
//
// The DB never stores the caller's document. Insert and Update encode the
// document and decode it again, so the stored copy uses the decoded value
// model (json.Number, *Document, []any) and shares nothing with the
// caller. An encoding failure is reported before anything is stored.
//
// Insert writes a generated guid back into the caller's document when the
// guid is missing or blank, so the caller learns the new identifier.
//
// Batch amortises lock acquisition across multiple documents. All inputs
// are prepared before the lock is taken; if any fails, nothing is stored.
package oredb

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Insert appends a document. A guid is generated when the document's guid
// is missing, empty or whitespace. With Config.UniqueIDs an existing guid
// yields ErrExists.
func (db *DB) Insert(doc *Document) error {
	return db.Batch(doc)
}

// Batch inserts documents in slice order under a single lock hold.
func (db *DB) Batch(docs ...*Document) error {
	prepared := make([]*Document, 0, len(docs))
	for _, d := range docs {
		p, err := prepare(d)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		prepared = append(prepared, p)
	}

	if err := db.blockWrite(); err != nil {
		return err
	}
	defer db.mu.Unlock()

	if db.config.UniqueIDs {
		seen := make(map[string]bool, len(prepared))
		for _, p := range prepared {
			id := p.ID()
			if seen[id] || db.indexOf(id) >= 0 {
				return fmt.Errorf("insert %s: %w", id, ErrExists)
			}
			seen[id] = true
		}
	}

	for _, p := range prepared {
		db.records = append(db.records, p)
		if db.bloom != nil {
			db.bloom.Add(p.ID())
		}
	}
	return nil
}

// prepare assigns a guid if needed and returns the copy to store.
func prepare(doc *Document) (*Document, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if strings.TrimSpace(doc.ID()) == "" {
		doc.Set(IDField, uuid.NewString())
	}
	return normalize(doc)
}

// Update replaces the first document whose guid equals id, keeping its
// position. The stored copy's guid is always id, whatever doc carries; the
// caller's document is not modified. Reports false, and changes nothing,
// when no document matches.
func (db *DB) Update(id string, doc *Document) (bool, error) {
	if doc == nil {
		return false, ErrNilDocument
	}
	p, err := normalize(doc)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", id, err)
	}
	p.Set(IDField, id)

	if err := db.blockWrite(); err != nil {
		return false, err
	}
	defer db.mu.Unlock()

	i := db.indexOf(id)
	if i < 0 {
		return false, nil
	}
	db.records[i] = p
	return true, nil
}
