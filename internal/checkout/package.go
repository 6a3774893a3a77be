package checkout

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/buildmesh/obc/internal/logging"
	"github.com/buildmesh/obc/internal/manifest"
	"github.com/buildmesh/obc/pkg/wc"
)

// File tracking errors.
var (
	ErrFileTracked    = errors.New("file is already tracked")
	ErrFileNotTracked = errors.New("file is not tracked")
	ErrNoSuchFile     = errors.New("no such file in working copy")
)

// packageEntries are required in a consistent package store.
var packageEntries = []string{wc.EntryAPIURL, wc.EntryProject, wc.EntryPackage, wc.EntryFiles}

// FileState is the working-copy state of one file, computed from its
// manifest entry and the file on disk.
type FileState string

// File states. Content merging is out of scope, so there is no
// conflicted state.
const (
	Unmodified FileState = " "
	Added      FileState = "A"
	Deleted    FileState = "D"
	Modified   FileState = "M"
	Missing    FileState = "!"
	Skipped    FileState = "S"
	Untracked  FileState = "?"
)

// Package is an open package working copy.
type Package struct {
	// Root is the working-copy root directory.
	Root string

	// APIURL is the build-service endpoint this package is tracked
	// against.
	APIURL string

	// Project is the name of the owning project.
	Project string

	// Name is the package name.
	Name string

	store *wc.Store
	files *manifest.FileManifest
	log   *slog.Logger
}

// CheckPackage verifies that root holds a structurally valid package
// working copy: required entries present and the file manifest parsable.
// It returns wc.ErrNotWorkingCopy, an *wc.InconsistentError, or nil.
func CheckPackage(root string, store *wc.Store) error {
	if !store.HasStore(root) {
		return fmt.Errorf("%s: %w", root, wc.ErrNotWorkingCopy)
	}
	if missing := store.Missing(root, packageEntries, wc.MissingOpts{}); len(missing) > 0 {
		return &wc.InconsistentError{Path: root, Missing: missing}
	}
	text, err := store.Read(root, wc.EntryFiles)
	if err != nil {
		return err
	}
	if _, err := manifest.ParseFileManifest(text); err != nil {
		return &wc.InconsistentError{Path: root, Reason: err.Error()}
	}
	return nil
}

// OpenPackage opens an existing package working copy at root.
func OpenPackage(root string, store *wc.Store, log *slog.Logger) (*Package, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := store.VerifyFormat(root); err != nil {
		return nil, err
	}
	if err := CheckPackage(root, store); err != nil {
		return nil, err
	}

	p := &Package{Root: root, store: store, log: log}
	err := wc.WithLock(root, store.Layout(), func() error {
		var err error
		if p.APIURL, err = store.Read(root, wc.EntryAPIURL); err != nil {
			return err
		}
		if p.Project, err = store.Read(root, wc.EntryProject); err != nil {
			return err
		}
		if p.Name, err = store.Read(root, wc.EntryPackage); err != nil {
			return err
		}
		text, err := store.Read(root, wc.EntryFiles)
		if err != nil {
			return err
		}
		p.files, err = manifest.ParseFileManifest(text)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("opened package working copy", "root", root, "package", p.Name)
	return p, nil
}

// CreatePackage initializes root as a standalone package working copy
// and writes its first entries under one lock acquisition. Packages
// nested inside a project are created through Project.AddPackage
// instead.
func CreatePackage(root, apiurl, project, name string, store *wc.Store, log *slog.Logger) (*Package, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := store.Init(root); err != nil {
		return nil, err
	}
	empty, err := manifest.NewFileManifest(name).Marshal()
	if err != nil {
		return nil, err
	}
	err = wc.WithLock(root, store.Layout(), func() error {
		for entry, content := range map[string]string{
			wc.EntryAPIURL:  apiurl,
			wc.EntryProject: project,
			wc.EntryPackage: name,
			wc.EntryFiles:   empty,
		} {
			if err := store.Write(root, entry, content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("created package working copy", "root", root, "package", name)
	return OpenPackage(root, store, log)
}

// Files returns the tracked file names in sorted order.
func (p *Package) Files() []string {
	return p.files.Names()
}

// State returns the working-copy state of name, which does not have to
// exist on disk.
func (p *Package) State(name string) FileState {
	entry := p.files.Find(name)
	if entry == nil {
		return Untracked
	}
	path := filepath.Join(p.Root, name)
	fi, statErr := os.Stat(path)
	exists := statErr == nil && fi.Mode().IsRegular()

	st := FileState(entry.State)
	switch {
	case st == Deleted:
		return Deleted
	case st != Skipped && !exists:
		return Missing
	case st == Unmodified:
		sum, err := fileMD5(path)
		if err != nil || sum != entry.MD5 {
			return Modified
		}
	}
	return st
}

// Track records name in the file manifest with state added. The file
// must exist as a regular file inside the working copy.
func (p *Package) Track(name string) error {
	err := wc.WithLock(p.Root, p.store.Layout(), func() error {
		if p.files.Find(name) != nil {
			return fmt.Errorf("%s: %w", name, ErrFileTracked)
		}
		path := filepath.Join(p.Root, name)
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			return fmt.Errorf("%s: %w", name, ErrNoSuchFile)
		}
		sum, err := fileMD5(path)
		if err != nil {
			return err
		}
		p.files.Set(manifest.FileEntry{
			Name:  name,
			MD5:   sum,
			Size:  fi.Size(),
			MTime: fi.ModTime().Unix(),
			State: manifest.StateAdded,
		})
		return p.flushFiles()
	})
	if err != nil {
		return err
	}
	p.log.Debug("tracked file", "package", p.Name, "file", name)
	return nil
}

// Untrack drops name from the file manifest. The file on disk is left
// alone.
func (p *Package) Untrack(name string) error {
	err := wc.WithLock(p.Root, p.store.Layout(), func() error {
		if p.files.Find(name) == nil {
			return fmt.Errorf("%s: %w", name, ErrFileNotTracked)
		}
		p.files.Remove(name)
		return p.flushFiles()
	})
	if err != nil {
		return err
	}
	p.log.Debug("untracked file", "package", p.Name, "file", name)
	return nil
}

// flushFiles writes the file manifest entry. Callers hold the package
// lock.
func (p *Package) flushFiles() error {
	text, err := p.files.Marshal()
	if err != nil {
		return err
	}
	return p.store.Write(p.Root, wc.EntryFiles, text)
}

// fileMD5 returns the hex md5 digest of the file at path. The build
// service identifies file revisions by md5, so the manifest does too.
func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
