package wc

import (
	"os"
	"path/filepath"
)

// classifierEntries are the entries whose presence decides the working
// copy kind.
var classifierEntries = []string{EntryAPIURL, EntryProject, EntryPackage}

// IsProject reports whether root is a project working copy: apiurl and
// project entries present, package entry absent. Classification is
// lenient: a root with no store, or whose store matches neither kind,
// yields false without error. Only an explicit Read of a missing entry
// fails.
func (s *Store) IsProject(root string) bool {
	missing := s.Missing(root, classifierEntries, MissingOpts{})
	return len(missing) == 1 && missing[0] == EntryPackage
}

// IsPackage reports whether root is a package working copy: apiurl,
// project and package entries all present. IsProject and IsPackage are
// mutually exclusive by construction.
func (s *Store) IsPackage(root string) bool {
	return len(s.Missing(root, classifierEntries, MissingOpts{})) == 0
}

// Parent returns the working copy that owns path. For a file or a
// nonexistent path, that is its containing directory, if that directory
// is a working copy. For an existing working-copy directory, it is the
// parent directory if that is itself a working copy; failing that, a
// store symlinked into a project's data directory is resolved and the
// owning project returned. The second result is false when no parent
// exists.
func (s *Store) Parent(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		dir := filepath.Dir(abs)
		if s.IsProject(dir) || s.IsPackage(dir) {
			return dir, true
		}
		return "", false
	}
	parent := filepath.Dir(abs)
	if parent != abs && (s.IsProject(parent) || s.IsPackage(parent)) {
		return parent, true
	}
	// Non-standard hierarchy: the store may be a symlink into the owning
	// project's data directory. Resolve the link and climb to the
	// project root: <project>/<store>/<data>/<name> -> <project>.
	storedir := s.layout.StorePath(abs)
	if fi, err := os.Lstat(storedir); err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return "", false
	}
	target, err := filepath.EvalSymlinks(storedir)
	if err != nil {
		return "", false
	}
	project := filepath.Dir(filepath.Dir(filepath.Dir(target)))
	if s.IsProject(project) {
		return project, true
	}
	return "", false
}
