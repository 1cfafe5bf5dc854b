// Low-level read primitives for files next to the backing file.
//
// All access goes through the sandboxed os.Root opened at Open, so a
// backing file name can never resolve outside its directory.
package oredb

import "fmt"

// read loads and decodes a JSON array file relative to root.
func (db *DB) read(name string) ([]*Document, error) {
	data, err := db.root.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	docs, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return docs, nil
}

// snapshot clones docs into a fresh slice.
func snapshot(docs []*Document) []*Document {
	out := make([]*Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}

// indexOf returns the position of the first document with guid id, or -1.
// A lock must be held.
func (db *DB) indexOf(id string) int {
	if !db.mightContain(id) {
		return -1
	}
	for i, d := range db.records {
		if d.hasID(id) {
			return i
		}
	}
	return -1
}

// mightContain consults the bloom filter. Blank ids are never added to the
// filter, so they always fall through to a scan.
func (db *DB) mightContain(id string) bool {
	return db.bloom == nil || id == "" || db.bloom.Contains(id)
}
