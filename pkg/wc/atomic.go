package wc

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile replaces the content of filename so that a reader
// observes either the previous fully committed content or the new one,
// never a partial write. The data goes to a fresh temporary file in the
// target's directory (same filesystem, so the final rename is atomic),
// is flushed to disk, and the temporary file is then renamed over the
// target. Any failure before the rename leaves the target untouched and
// removes the temporary file.
//
// This is the only sanctioned path for mutating a store entry; in-place
// writes are not atomic and must not be used.
func AtomicWriteFile(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s over %s: %w", tmpName, filename, err)
	}
	return nil
}
