//go:build unix

package oredb

import "syscall"

// Blocking flock; LOCK_NB is not set.
func (l *fileLock) lock(mode LockMode) error {
	how := syscall.LOCK_SH
	if mode == LockExclusive {
		how = syscall.LOCK_EX
	}
	return syscall.Flock(int(l.f.Fd()), how)
}

func (l *fileLock) unlock() error {
	return syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
}
