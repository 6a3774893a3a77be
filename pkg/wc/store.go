package wc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store provides named read and write access to the metadata entries of
// a working copy. It is a stateless handle over a Layout; every method
// takes the working-copy root path.
//
// Detection and retrieval are deliberately split: the classifier
// predicates (IsProject, IsPackage, Missing) never fail, while Read and
// Write report precisely why a value is unavailable.
type Store struct {
	layout Layout
}

// NewStore returns a Store using the given layout.
func NewStore(layout Layout) *Store {
	return &Store{layout: layout}
}

// DefaultStore returns a Store over the default obc layout.
func DefaultStore() *Store {
	return NewStore(DefaultLayout())
}

// Layout returns the store's on-disk layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// HasStore reports whether root is a directory containing a store
// directory. Symlinked (external) stores count.
func (s *Store) HasStore(root string) bool {
	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return false
	}
	fi, err = os.Stat(s.layout.StorePath(root))
	return err == nil && fi.IsDir()
}

// Read returns the content of the named entry with surrounding
// whitespace stripped. It fails with ErrNotWorkingCopy if root has no
// store, and with ErrEntryNotFound if the entry is absent or not a
// regular file. Other OS failures propagate unchanged, annotated with
// the path.
func (s *Store) Read(root, name string) (string, error) {
	if !s.HasStore(root) {
		return "", fmt.Errorf("%s: %w", root, ErrNotWorkingCopy)
	}
	path := s.layout.EntryPath(root, name)
	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return "", fmt.Errorf("%s: %w", path, ErrEntryNotFound)
	case err != nil:
		return "", fmt.Errorf("stat %s: %w", path, err)
	case !fi.Mode().IsRegular():
		return "", fmt.Errorf("%s: %w", path, ErrEntryNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write stores content as the named entry through an atomic replace. A
// trailing newline is appended when content is non-empty; Read strips it
// back out, so the newline is invisible to readers. Writing the empty
// string produces a zero-byte file. It fails with ErrNotWorkingCopy if
// root has no store; the caller must initialize first.
func (s *Store) Write(root, name, content string) error {
	if !s.HasStore(root) {
		return fmt.Errorf("%s: %w", root, ErrNotWorkingCopy)
	}
	data := []byte(content)
	if len(data) > 0 {
		data = append(data, '\n')
	}
	return AtomicWriteFile(s.layout.EntryPath(root, name), data)
}

// MissingOpts adjusts the existence test performed by Missing.
type MissingOpts struct {
	// Dirs tests each name for directory-ness instead of being a
	// regular file.
	Dirs bool

	// Data resolves names under the store's data directory instead of
	// the store root. Used for payload blobs, not top-level metadata.
	Data bool
}

// Missing reports which of names are absent from the store. If root has
// no store at all, the full input list is returned unchanged. Missing
// never fails.
func (s *Store) Missing(root string, names []string, opts MissingOpts) []string {
	if !s.HasStore(root) {
		return append([]string(nil), names...)
	}
	base := s.layout.StorePath(root)
	if opts.Data {
		base = s.layout.DataPath(root)
	}
	var missing []string
	for _, name := range names {
		fi, err := os.Stat(filepath.Join(base, name))
		switch {
		case err != nil:
			missing = append(missing, name)
		case opts.Dirs && !fi.IsDir():
			missing = append(missing, name)
		case !opts.Dirs && !fi.Mode().IsRegular():
			missing = append(missing, name)
		}
	}
	return missing
}

// DataPath returns the path of a payload entry under the store's data
// directory. The path is computed, not checked for existence.
func (s *Store) DataPath(root, name string) string {
	return filepath.Join(s.layout.DataPath(root), name)
}

// MkdirData creates the payload directory data/name inside the store if
// needed and returns its path. It fails with ErrNotWorkingCopy if root
// has no store.
func (s *Store) MkdirData(root, name string) (string, error) {
	if !s.HasStore(root) {
		return "", fmt.Errorf("%s: %w", root, ErrNotWorkingCopy)
	}
	path := s.DataPath(root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir %s: %w", path, err)
	}
	return path, nil
}
