//go:build !unix && !windows

package oredb

import "errors"

func (l *fileLock) lock(LockMode) error {
	return errors.ErrUnsupported
}

func (l *fileLock) unlock() error {
	return nil
}
