//go:build windows

package writer

import "os"

// lockFile is a no-op on Windows: robust exclusive locking there requires
// syscall.LockFileEx, which this package does not yet wrap. Single-process
// use (the only supported mode, per this sort's non-goals) is unaffected.
func lockFile(file *os.File) error {
	return nil
}

// unlockFile releases the lock taken by lockFile.
func unlockFile(file *os.File) error {
	return nil
}
