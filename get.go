// Document retrieval operations.
//
// Every result is a deep copy taken under the read lock, so it stays valid
// after the lock is released and later writes never show through it.
// Predicates run against the live documents while the read lock is held;
// they must not modify the document or call back into the DB.
package oredb

// Predicate selects documents for Select and SelectOne. A nil Predicate
// matches every document.
type Predicate func(*Document) bool

func (p Predicate) match(d *Document) bool {
	return p == nil || p(d)
}

// Records returns a snapshot of every document in insertion order.
func (db *DB) Records() ([]*Document, error) {
	if err := db.blockRead(); err != nil {
		return nil, err
	}
	defer db.mu.RUnlock()

	return snapshot(db.records), nil
}

// Len returns the number of documents.
func (db *DB) Len() (int, error) {
	if err := db.blockRead(); err != nil {
		return 0, err
	}
	defer db.mu.RUnlock()

	return len(db.records), nil
}

// Select returns a snapshot of every document matching pred, in order.
func (db *DB) Select(pred Predicate) ([]*Document, error) {
	if err := db.blockRead(); err != nil {
		return nil, err
	}
	defer db.mu.RUnlock()

	out := []*Document{}
	for _, d := range db.records {
		if pred.match(d) {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

// SelectOne returns the first document matching pred, or ErrNotFound.
func (db *DB) SelectOne(pred Predicate) (*Document, error) {
	if err := db.blockRead(); err != nil {
		return nil, err
	}
	defer db.mu.RUnlock()

	for _, d := range db.records {
		if pred.match(d) {
			return d.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Find returns the first document whose guid equals id, or ErrNotFound.
func (db *DB) Find(id string) (*Document, error) {
	if err := db.blockRead(); err != nil {
		return nil, err
	}
	defer db.mu.RUnlock()

	if i := db.indexOf(id); i >= 0 {
		return db.records[i].Clone(), nil
	}
	return nil, ErrNotFound
}

// Exists reports whether a document with guid id is present. Nothing is
// copied.
func (db *DB) Exists(id string) (bool, error) {
	if err := db.blockRead(); err != nil {
		return false, err
	}
	defer db.mu.RUnlock()

	return db.indexOf(id) >= 0, nil
}
