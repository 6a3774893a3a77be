// Package checkout implements project and package working copies on top
// of the metadata store. A project working copy tracks a set of package
// directories; each package's store is a symlink into the project's data
// directory, so project and packages share one physical store tree.
//
// The store guarantees atomicity per entry only. Every logical change
// spanning multiple entries here is wrapped in one lock acquisition.
package checkout

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/buildmesh/obc/internal/logging"
	"github.com/buildmesh/obc/internal/manifest"
	"github.com/buildmesh/obc/pkg/wc"
)

// Package tracking errors.
var (
	ErrPackageTracked    = errors.New("package is already tracked")
	ErrPackageNotTracked = errors.New("package is not tracked")
)

// projectEntries are required in a consistent project store.
var projectEntries = []string{wc.EntryAPIURL, wc.EntryProject, wc.EntryPackages}

// Project is an open project working copy.
type Project struct {
	// Root is the working-copy root directory.
	Root string

	// APIURL is the build-service endpoint this project is tracked
	// against.
	APIURL string

	// Name is the project name.
	Name string

	store    *wc.Store
	packages *manifest.PackageList
	log      *slog.Logger
}

// CheckProject verifies that root holds a structurally valid project
// working copy: required entries present and the package list parsable.
// It returns wc.ErrNotWorkingCopy, an *wc.InconsistentError, or nil.
// No repair is attempted; that is a policy decision for the caller.
func CheckProject(root string, store *wc.Store) error {
	if !store.HasStore(root) {
		return fmt.Errorf("%s: %w", root, wc.ErrNotWorkingCopy)
	}
	if missing := store.Missing(root, projectEntries, wc.MissingOpts{}); len(missing) > 0 {
		return &wc.InconsistentError{Path: root, Missing: missing}
	}
	text, err := store.Read(root, wc.EntryPackages)
	if err != nil {
		return err
	}
	if _, err := manifest.ParsePackageList(text); err != nil {
		return &wc.InconsistentError{Path: root, Reason: err.Error()}
	}
	return nil
}

// OpenProject opens an existing project working copy at root.
func OpenProject(root string, store *wc.Store, log *slog.Logger) (*Project, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := store.VerifyFormat(root); err != nil {
		return nil, err
	}
	if err := CheckProject(root, store); err != nil {
		return nil, err
	}

	p := &Project{Root: root, store: store, log: log}
	err := wc.WithLock(root, store.Layout(), func() error {
		var err error
		if p.APIURL, err = store.Read(root, wc.EntryAPIURL); err != nil {
			return err
		}
		if p.Name, err = store.Read(root, wc.EntryProject); err != nil {
			return err
		}
		text, err := store.Read(root, wc.EntryPackages)
		if err != nil {
			return err
		}
		p.packages, err = manifest.ParsePackageList(text)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("opened project working copy", "root", root, "project", p.Name)
	return p, nil
}

// CreateProject initializes root as a project working copy tracked
// against apiurl and writes its first entries under one lock
// acquisition.
func CreateProject(root, apiurl, name string, store *wc.Store, log *slog.Logger) (*Project, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := store.Init(root); err != nil {
		return nil, err
	}
	empty, err := manifest.NewPackageList().Marshal()
	if err != nil {
		return nil, err
	}
	err = wc.WithLock(root, store.Layout(), func() error {
		if err := store.Write(root, wc.EntryAPIURL, apiurl); err != nil {
			return err
		}
		if err := store.Write(root, wc.EntryProject, name); err != nil {
			return err
		}
		return store.Write(root, wc.EntryPackages, empty)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("created project working copy", "root", root, "project", name)
	return OpenProject(root, store, log)
}

// Packages returns the tracked package names in sorted order.
func (p *Project) Packages() []string {
	return p.packages.Names()
}

// PackageState returns the recorded state of a tracked package, or
// false if name is not tracked.
func (p *Project) PackageState(name string) (string, bool) {
	e := p.packages.Find(name)
	if e == nil {
		return "", false
	}
	return e.State, true
}

// AddPackage creates root/name as a package working copy and tracks it.
// The package's store is a symlink into this project's data directory,
// so both share one physical store tree. The package list is updated
// atomically under the project lock.
func (p *Project) AddPackage(name string) (*Package, error) {
	pkgRoot := filepath.Join(p.Root, name)
	err := wc.WithLock(p.Root, p.store.Layout(), func() error {
		if p.packages.Has(name) {
			return fmt.Errorf("%s: %w", name, ErrPackageTracked)
		}
		dataDir, err := p.store.MkdirData(p.Root, name)
		if err != nil {
			return err
		}
		if err := p.store.InitExternal(pkgRoot, dataDir); err != nil {
			return err
		}
		emptyFiles, err := manifest.NewFileManifest(name).Marshal()
		if err != nil {
			return err
		}
		for entry, content := range map[string]string{
			wc.EntryAPIURL:  p.APIURL,
			wc.EntryProject: p.Name,
			wc.EntryPackage: name,
			wc.EntryFiles:   emptyFiles,
		} {
			if err := p.store.Write(pkgRoot, entry, content); err != nil {
				return err
			}
		}
		p.packages.Set(name, manifest.StateAdded)
		return p.flushPackages()
	})
	if err != nil {
		return nil, err
	}
	p.log.Debug("added package", "project", p.Name, "package", name)
	return OpenPackage(pkgRoot, p.store, p.log)
}

// RemovePackage untracks name and removes its working-copy directory
// together with its data directory under the project's store.
func (p *Project) RemovePackage(name string) error {
	err := wc.WithLock(p.Root, p.store.Layout(), func() error {
		if !p.packages.Has(name) {
			return fmt.Errorf("%s: %w", name, ErrPackageNotTracked)
		}
		pkgRoot := filepath.Join(p.Root, name)
		if err := os.RemoveAll(pkgRoot); err != nil {
			return fmt.Errorf("removing %s: %w", pkgRoot, err)
		}
		dataDir := p.store.DataPath(p.Root, name)
		if err := os.RemoveAll(dataDir); err != nil {
			return fmt.Errorf("removing %s: %w", dataDir, err)
		}
		p.packages.Remove(name)
		return p.flushPackages()
	})
	if err != nil {
		return err
	}
	p.log.Debug("removed package", "project", p.Name, "package", name)
	return nil
}

// flushPackages writes the package list entry. Callers hold the project
// lock.
func (p *Project) flushPackages() error {
	text, err := p.packages.Marshal()
	if err != nil {
		return err
	}
	return p.store.Write(p.Root, wc.EntryPackages, text)
}
