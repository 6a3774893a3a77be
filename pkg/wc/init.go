package wc

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Init initializes root as a working copy with its own fresh store
// directory. If root does not exist it is created recursively. No
// metadata entries are written; that is the caller's next step.
//
// Failure kinds: ErrAlreadyWorkingCopy if root already has a store
// entry, fs.ErrPermission if root cannot be created or written, plain
// errors for a root that exists but is not a directory. Other OS
// failures propagate unchanged, annotated with the path. A failure
// after the store directory is created rolls it back; a root never
// keeps a partial store.
func (s *Store) Init(root string) error {
	return s.initStore(root, "")
}

// InitExternal initializes root as a working copy whose store is a
// symbolic link to storeDir, an externally owned store directory.
// Several logical roots may share one physical store this way; the data
// directory and lock file are then shared too. It fails with
// ErrInvalidExternalStore if storeDir is not an existing writable
// directory, and with ErrBadFormatVersion if storeDir carries a version
// marker this tool does not support. The external directory's content
// is never duplicated and never removed on rollback.
func (s *Store) InitExternal(root, storeDir string) error {
	if storeDir == "" {
		return fmt.Errorf("external store dir is empty: %w", ErrInvalidExternalStore)
	}
	return s.initStore(root, storeDir)
}

func (s *Store) initStore(root, extStoreDir string) error {
	external := extStoreDir != ""
	if external {
		fi, err := os.Stat(extStoreDir)
		if err != nil || !fi.IsDir() || !writable(extStoreDir) {
			return fmt.Errorf("%s: %w", extStoreDir, ErrInvalidExternalStore)
		}
		if err := checkExternalFormat(extStoreDir); err != nil {
			return err
		}
	}

	storedir := s.layout.StorePath(root)
	if _, err := os.Lstat(storedir); err == nil {
		return fmt.Errorf("%s: %w", root, ErrAlreadyWorkingCopy)
	}
	fi, err := os.Stat(root)
	switch {
	case err == nil && !fi.IsDir():
		return fmt.Errorf("%s exists but is not a directory", root)
	case err == nil:
	case os.IsNotExist(err):
		if err := os.MkdirAll(root, 0o755); err != nil {
			if os.IsPermission(err) {
				return fmt.Errorf("creating %s: %w", root, fs.ErrPermission)
			}
			return fmt.Errorf("creating %s: %w", root, err)
		}
	default:
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !writable(root) {
		return fmt.Errorf("%s: %w", root, fs.ErrPermission)
	}

	if external {
		if err := os.Symlink(extStoreDir, storedir); err != nil {
			return fmt.Errorf("linking store to %s: %w", extStoreDir, err)
		}
	} else {
		if err := os.Mkdir(storedir, 0o755); err != nil {
			return fmt.Errorf("creating store %s: %w", storedir, err)
		}
	}
	if err := s.finishInit(root); err != nil {
		s.rollbackInit(storedir, external)
		return err
	}
	return nil
}

// finishInit stamps the format version (a shared external store keeps
// the one it already carries) and creates the data directory.
func (s *Store) finishInit(root string) error {
	versionPath := s.layout.EntryPath(root, VersionFile)
	if _, err := os.Stat(versionPath); os.IsNotExist(err) {
		if err := AtomicWriteFile(versionPath, []byte(FormatVersion+"\n")); err != nil {
			return err
		}
	}
	dataPath := s.layout.DataPath(root)
	if fi, err := os.Stat(dataPath); err == nil && fi.IsDir() {
		return nil
	}
	if err := os.Mkdir(dataPath, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", dataPath, err)
	}
	return nil
}

// rollbackInit removes a partially created store. An external link is
// unlinked without touching the directory it points to.
func (s *Store) rollbackInit(storedir string, external bool) {
	if external {
		os.Remove(storedir)
	} else {
		os.RemoveAll(storedir)
	}
}

// VerifyFormat checks the store's format version marker. It fails with
// ErrNotWorkingCopy if root has no store, and with ErrBadFormatVersion
// if the marker is missing or records a version this tool does not
// understand.
func (s *Store) VerifyFormat(root string) error {
	if !s.HasStore(root) {
		return fmt.Errorf("%s: %w", root, ErrNotWorkingCopy)
	}
	path := s.layout.EntryPath(root, VersionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: no version marker: %w", path, ErrBadFormatVersion)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if v := strings.TrimSpace(string(data)); v != FormatVersion {
		return fmt.Errorf("%s: version %q: %w", path, v, ErrBadFormatVersion)
	}
	return nil
}

// checkExternalFormat rejects an external store stamped with an
// unsupported format version. An unstamped directory is fine: init
// adopts it and stamps it.
func checkExternalFormat(dir string) error {
	path := filepath.Join(dir, VersionFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if v := strings.TrimSpace(string(data)); v != FormatVersion {
		return fmt.Errorf("%s: version %q: %w", dir, v, ErrBadFormatVersion)
	}
	return nil
}
