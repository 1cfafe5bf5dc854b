// Commit and the atomic file write it relies on.
//
// Commit encodes every document and replaces the backing file in full.
// The new content goes to <name>.tmp first, which is synced and then
// renamed over the backing file, so a failed or interrupted commit leaves
// the previously committed file intact. A crash between create and rename
// at worst orphans the .tmp file, which is removed on the next Open.
//
// The in-memory documents are never touched by Commit, so a failed commit
// can simply be retried.
package oredb

import (
	"fmt"
	"os"
	"time"
)

// Commit writes the current documents to the backing file. Failures wrap
// ErrCommit.
func (db *DB) Commit() error {
	if err := db.blockWrite(); err != nil {
		return err
	}
	defer db.mu.Unlock()

	start := time.Now()
	data, err := encode(db.records, db.config.Indent)
	if err != nil {
		return db.commitErr("encode", err)
	}

	if db.config.Backup {
		if err := db.backup(); err != nil {
			return db.commitErr("backup", err)
		}
	}

	if err := db.writeAtomic(db.name, data); err != nil {
		return db.commitErr("write", err)
	}

	db.sum = checksum(data, db.config.HashAlgorithm)
	db.reindex()
	db.log.Debugw("committed",
		"records", len(db.records),
		"bytes", len(data),
		"elapsed", time.Since(start),
	)
	return nil
}

// Modified reports whether the in-memory content differs from what was
// last loaded or committed.
func (db *DB) Modified() (bool, error) {
	if err := db.blockRead(); err != nil {
		return false, err
	}
	defer db.mu.RUnlock()

	return db.digest() != db.sum, nil
}

func (db *DB) commitErr(stage string, err error) error {
	db.log.Warnw("commit failed", "stage", stage, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrCommit, stage, err)
}

// backup compresses the currently committed file into <name>.bak.zst. A
// missing backing file leaves any existing backup in place.
func (db *DB) backup() error {
	data, err := db.root.ReadFile(db.name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.writeAtomic(db.name+BackupSuffix, compress(data))
}

// writeAtomic replaces name with data via a synced temp file and rename.
// The temp file is removed on failure. The existing file's permissions
// carry over to the replacement.
func (db *DB) writeAtomic(name string, data []byte) (err error) {
	tmp := name + TempSuffix
	f, err := db.root.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			db.root.Remove(tmp)
		}
	}()

	if info, statErr := db.root.Stat(name); statErr == nil {
		f.Chmod(info.Mode().Perm())
	}

	if _, err = f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err = db.root.Rename(tmp, name); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	if db.config.SyncWrites {
		dir, err := db.root.Open(".")
		if err != nil {
			return fmt.Errorf("open dir: %w", err)
		}
		defer dir.Close()
		if err := dir.Sync(); err != nil {
			return fmt.Errorf("sync dir: %w", err)
		}
	}
	return nil
}
