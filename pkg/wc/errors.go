package wc

import (
	"errors"
	"fmt"
	"strings"
)

// Store access errors.
var (
	ErrNotWorkingCopy       = errors.New("not a working copy")
	ErrEntryNotFound        = errors.New("store entry not found")
	ErrAlreadyWorkingCopy   = errors.New("already a working copy")
	ErrInvalidExternalStore = errors.New("external store is not an existing writable directory")
	ErrBadFormatVersion     = errors.New("unsupported store format version")
)

// Lock misuse errors. Both indicate a caller bug; they fail immediately
// and are never retried.
var (
	ErrLockHeld    = errors.New("lock already held")
	ErrLockNotHeld = errors.New("lock not held")
)

// InconsistentError reports a structurally invalid store: required
// entries are absent, or a stored document does not parse. It is raised
// by layers that interpret entry content, never by the classifier.
type InconsistentError struct {
	// Path is the working-copy root.
	Path string

	// Missing lists the absent entries, if any.
	Missing []string

	// Reason describes a document parse failure, if any.
	Reason string
}

func (e *InconsistentError) Error() string {
	msg := fmt.Sprintf("%s: inconsistent working copy", e.Path)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(" (missing: %s)", strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
