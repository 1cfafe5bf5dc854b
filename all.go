// Lazy enumeration of documents.
//
// All and List hold the read lock for the whole range loop, so writers
// wait until the loop finishes or breaks. The loop body must not call a
// DB method that takes the write lock, or it will deadlock; collect what
// is needed and mutate after the loop. Records is the non-blocking
// alternative when the loop body needs to write.
package oredb

import "iter"

// All yields a copy of every document in order. Callers can break early to
// stop the scan and release the lock.
func (db *DB) All() iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		if err := db.blockRead(); err != nil {
			yield(nil, err)
			return
		}
		defer db.mu.RUnlock()

		for _, d := range db.records {
			if !yield(d.Clone(), nil) {
				return
			}
		}
	}
}
