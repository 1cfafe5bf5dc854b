// Document deletion.
package oredb

import "slices"

// Delete removes every document whose guid equals id and returns how many
// were removed. The remaining documents keep their order. Deleting an
// absent id is not an error.
func (db *DB) Delete(id string) (int, error) {
	if err := db.blockWrite(); err != nil {
		return 0, err
	}
	defer db.mu.Unlock()

	// The bloom filter keeps the id; stale positives fall through to a
	// scan and are dropped at the next commit or reload.
	if !db.mightContain(id) {
		return 0, nil
	}

	before := len(db.records)
	db.records = slices.DeleteFunc(db.records, func(d *Document) bool {
		return d.hasID(id)
	})
	return before - len(db.records), nil
}
