// Identifier enumeration.
package oredb

import "iter"

// List yields the guid of every document in order, skipping documents
// without one. Duplicate guids are reported once. See All for the locking
// rules that apply while ranging.
func (db *DB) List() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := db.blockRead(); err != nil {
			yield("", err)
			return
		}
		defer db.mu.RUnlock()

		seen := make(map[string]bool)
		for _, d := range db.records {
			id := d.ID()
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			if !yield(id, nil) {
				return
			}
		}
	}
}
