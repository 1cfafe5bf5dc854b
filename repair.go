// Recovery operations: staging cleanup, Reload and Restore.
//
// Reload discards uncommitted changes by decoding the backing file again.
// Restore replaces the in-memory documents with the last backup written by
// Commit (Config.Backup); it does not touch the backing file, so the
// restored state becomes durable only after the next Commit. Both decode
// the full replacement before swapping it in, so a failure leaves the
// in-memory documents exactly as they were.
package oredb

import (
	"fmt"
	"os"
)

// cleanup removes staging files orphaned by an interrupted commit. Only
// regular files are removed.
func (db *DB) cleanup() {
	for _, name := range []string{
		db.name + TempSuffix,
		db.name + BackupSuffix + TempSuffix,
	} {
		info, err := db.root.Lstat(name)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := db.root.Remove(name); err == nil {
			db.log.Debugw("removed stale staging file", "name", name)
		}
	}
}

// Reload discards uncommitted changes and decodes the backing file again.
// Failures wrap ErrLoad.
func (db *DB) Reload() error {
	if err := db.blockWrite(); err != nil {
		return err
	}
	defer db.mu.Unlock()

	docs, err := db.read(db.name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	db.replace(docs)
	db.sum = db.digest()
	db.log.Debugw("reloaded", "records", len(docs))
	return nil
}

// Restore replaces the in-memory documents with the last backup. Returns
// ErrNoBackup if no backup exists; other failures wrap ErrLoad.
func (db *DB) Restore() error {
	if err := db.blockWrite(); err != nil {
		return err
	}
	defer db.mu.Unlock()

	compressed, err := db.root.ReadFile(db.name + BackupSuffix)
	if os.IsNotExist(err) {
		return ErrNoBackup
	}
	if err != nil {
		return fmt.Errorf("%w: read backup: %w", ErrLoad, err)
	}
	data, err := decompress(compressed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	docs, err := decode(data)
	if err != nil {
		return fmt.Errorf("%w: decode backup: %w", ErrLoad, err)
	}
	db.replace(docs)
	db.log.Debugw("restored", "records", len(docs))
	return nil
}
