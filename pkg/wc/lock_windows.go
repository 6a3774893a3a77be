//go:build windows

package wc

import (
	"os"

	"golang.org/x/sys/windows"
)

// lockExclusive blocks until an exclusive lock on the first byte of f is
// held. Byte-range locks are the Windows equivalent of flock: they bind
// to the handle and are released when it closes.
func lockExclusive(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, ol)
}

func unlockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, ol)
}

// writable reports whether the current process may write to path.
// Windows access checks require evaluating ACLs; creating a probe file
// is the reliable test.
func writable(path string) bool {
	probe, err := os.CreateTemp(path, ".access-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return true
}
