package wc

import (
	"fmt"
	"os"
)

// Lock is an advisory exclusive lock on a working copy, backed by a lock
// file inside the store plus an OS-level lock on its descriptor. It
// coordinates cooperating obc processes only; it does not constrain
// arbitrary filesystem access. The OS drops the lock when the descriptor
// closes, so a crashed holder releases automatically at process exit.
//
// Lock file presence is not authoritative for exclusivity (the OS lock
// is); a clean Release nonetheless always removes the file.
type Lock struct {
	path string
	f    *os.File
}

// NewLock returns an unacquired lock handle for the working copy at root.
func NewLock(root string, layout Layout) *Lock {
	return &Lock{path: layout.LockPath(root)}
}

// Held reports whether this handle currently holds the lock.
func (l *Lock) Held() bool {
	return l.f != nil
}

// Acquire blocks until the OS-level exclusive lock on the lock file is
// obtained. There is no timeout: protected critical sections are short
// read/modify/write sequences, and blocking surfaces hangs instead of
// masking them. Acquiring on a handle that already holds the lock
// returns ErrLockHeld immediately; the held lock is unaffected.
func (l *Lock) Acquire() error {
	if l.Held() {
		return fmt.Errorf("%s: %w", l.path, ErrLockHeld)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening lock file %s: %w", l.path, err)
	}
	if err := lockExclusive(f); err != nil {
		f.Close()
		return fmt.Errorf("locking %s: %w", l.path, err)
	}
	l.f = f
	return nil
}

// Release drops the OS lock, closes the descriptor, and removes the lock
// file. Releasing an unheld handle returns ErrLockNotHeld. A handle may
// be reacquired after a successful Release.
func (l *Lock) Release() error {
	if !l.Held() {
		return fmt.Errorf("%s: %w", l.path, ErrLockNotHeld)
	}
	f := l.f
	l.f = nil
	if err := unlockFile(f); err != nil {
		f.Close()
		return fmt.Errorf("unlocking %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing lock file %s: %w", l.path, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file %s: %w", l.path, err)
	}
	return nil
}

// WithLock runs fn while holding the working-copy lock for root,
// releasing it on every exit path. A release failure is reported only
// when fn itself succeeded.
func WithLock(root string, layout Layout, fn func() error) (err error) {
	l := NewLock(root, layout)
	if err := l.Acquire(); err != nil {
		return err
	}
	defer func() {
		if rerr := l.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn()
}
