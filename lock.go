// OS-level advisory locking for Config.LockFile.
//
// The store does not lock its backing file by default; two processes can
// open and commit the same file and the last commit wins. With LockFile
// set, Open takes an exclusive lock on a sidecar <name>.lock file and
// holds it until Close, so a second process opening the same store blocks
// in Open. The sidecar is used because Commit replaces the backing file by
// rename, which would orphan a lock held on the old inode.
//
// fileLock wraps flock(2) / LockFileEx with a mutex that guards the file
// handle's lifetime, so Fd() cannot race with Close() on the same *os.File.
// setFile(nil) drains any in-flight call and turns later calls into no-ops.
package oredb

import (
	"os"
	"sync"
)

// LockMode selects shared or exclusive locking.
type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

type fileLock struct {
	mu sync.Mutex
	f  *os.File
}

// Lock acquires the lock, blocking until it is granted. Returns nil
// immediately once the handle has been cleared.
func (l *fileLock) Lock(mode LockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.lock(mode)
}

// Unlock releases the lock. Returns nil immediately once the handle has
// been cleared.
func (l *fileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.unlock()
}

func (l *fileLock) setFile(f *os.File) {
	l.mu.Lock()
	l.f = f
	l.mu.Unlock()
}
