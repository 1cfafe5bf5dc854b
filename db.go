// Core database type and lifecycle operations.
//
// DB holds the decoded documents in memory, guarded by a sync.RWMutex.
// Reads share the lock and writes, loads and commits take it exclusively.
// A blocked writer stops new readers from acquiring the lock, so a steady
// stream of readers cannot starve writers. Close is idempotent; every
// operation after it returns ErrClosed.
package oredb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// File name suffixes used next to the backing file.
const (
	TempSuffix = ".tmp"  // Commit staging file
	LockSuffix = ".lock" // Advisory lock file (Config.LockFile)
)

// Config holds database configuration options. The zero value is usable.
type Config struct {
	Indent        string             // Indentation for the backing file (default two spaces)
	HashAlgorithm int                // Checksum for Modified: 1=xxHash3, 2=FNV1a, 3=Blake2b
	SyncWrites    bool               // fsync the directory after each commit rename
	Backup        bool               // Keep the previous commit as <name>.bak.zst
	Bloom         bool               // Bloom filter over guids for negative lookups
	UniqueIDs     bool               // Reject inserts whose guid is already present
	LockFile      bool               // Exclusive OS lock on <name>.lock while open
	Logger        *zap.SugaredLogger // Default: no-op
}

// DB represents an open document store.
type DB struct {
	root    *os.Root  // Sandboxed access to the backing file's directory
	name    string    // Backing file name within root
	lock    *fileLock // OS-level lock, nil unless Config.LockFile
	config  Config
	log     *zap.SugaredLogger
	records []*Document
	bloom   *bloom
	sum     string // Checksum of the encoded content at last load or commit
	closed  atomic.Bool
	mu      sync.RWMutex
}

// Open reads the file at path and decodes it into memory. The file must
// exist; empty content, whitespace or a JSON null start an empty store.
// Any failure wraps ErrLoad and no DB is returned.
func Open(path string, config Config) (*DB, error) {
	if config.Indent == "" {
		config.Indent = DefaultIndent
	}
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgXXHash3
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}

	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	db := &DB{
		root:   root,
		name:   filepath.Base(path),
		config: config,
		log:    config.Logger.With("file", path),
	}

	if config.LockFile {
		f, err := root.OpenFile(db.name+LockSuffix, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			root.Close()
			return nil, fmt.Errorf("%w: open lock: %w", ErrLoad, err)
		}
		db.lock = &fileLock{f: f}
		if err := db.lock.Lock(LockExclusive); err != nil {
			db.release()
			return nil, fmt.Errorf("%w: lock: %w", ErrLoad, err)
		}
	}

	if config.Bloom {
		db.bloom = newBloom()
	}

	// An interrupted commit leaves its staging file behind; the backing
	// file itself is untouched until the rename.
	db.cleanup()

	if err := db.load(); err != nil {
		db.release()
		return nil, err
	}
	return db, nil
}

// With opens the store, runs fn and closes the store on every exit path,
// including a panic in fn. The close error is joined with fn's error.
func With(path string, config Config, fn func(*DB) error) (err error) {
	db, err := Open(path, config)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	return fn(db)
}

// Close releases the store. Uncommitted changes are discarded. Calling
// Close more than once is a no-op.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed.Swap(true) {
		return nil
	}
	db.records = nil
	db.bloom = nil
	db.log.Debugw("closed")
	return db.release()
}

// Closed reports whether Close has been called.
func (db *DB) Closed() bool {
	return db.closed.Load()
}

// Path returns the backing file's path.
func (db *DB) Path() string {
	return filepath.Join(db.root.Name(), db.name)
}

// release closes the lock file and the root handle.
func (db *DB) release() error {
	var errs []error
	if db.lock != nil {
		if err := db.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
		f := db.lock.f
		// Drain in-flight flock calls before closing the fd (see lock.go)
		db.lock.setFile(nil)
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := db.root.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// load replaces the in-memory documents with the backing file's content.
// Taken under the write lock even during Open so that every assignment of
// db.records happens with the lock held.
func (db *DB) load() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	docs, err := db.read(db.name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	db.replace(docs)
	db.sum = db.digest()
	db.log.Debugw("loaded", "records", len(docs))
	return nil
}

// replace swaps in a new document set and rebuilds the bloom filter. The
// write lock must be held.
func (db *DB) replace(docs []*Document) {
	if docs == nil {
		docs = []*Document{}
	}
	db.records = docs
	db.reindex()
}

// reindex rebuilds the bloom filter from the current guids. The write
// lock must be held.
func (db *DB) reindex() {
	if db.bloom == nil {
		return
	}
	db.bloom.Reset()
	for _, d := range db.records {
		if id := d.ID(); id != "" {
			db.bloom.Add(id)
		}
	}
}

// digest checksums the encoded in-memory content. A lock must be held.
func (db *DB) digest() string {
	data, err := encode(db.records, db.config.Indent)
	if err != nil {
		return ""
	}
	return checksum(data, db.config.HashAlgorithm)
}

// Blocking methods for concurrency control. On success the caller owns the
// lock and must release it.

func (db *DB) blockWrite() error {
	db.mu.Lock()
	if db.closed.Load() {
		db.mu.Unlock()
		return ErrClosed
	}
	return nil
}

func (db *DB) blockRead() error {
	db.mu.RLock()
	if db.closed.Load() {
		db.mu.RUnlock()
		return ErrClosed
	}
	return nil
}
