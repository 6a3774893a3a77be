//go:build unix

package wc

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive blocks until an exclusive advisory lock on f is held.
func lockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// writable reports whether the current process may write to path.
func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
