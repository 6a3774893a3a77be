// Package wc implements the on-disk metadata store for working copies:
// the hidden store directory inside a checkout root, the named metadata
// entries kept there, the advisory lock protocol that coordinates
// concurrent tool invocations, and the initializer that creates new
// stores. Everything in this package is a local-filesystem contract; no
// network or serialization protocol is exposed.
package wc

import "path/filepath"

// Metadata entry names inside the store directory.
const (
	EntryAPIURL   = "_apiurl"
	EntryProject  = "_project"
	EntryPackage  = "_package"
	EntryPackages = "_packages"
	EntryFiles    = "_files"
)

// VersionFile records the store format version. It is stamped by Init and
// checked by VerifyFormat; it is not a metadata entry and is invisible to
// the classifier.
const VersionFile = "_version"

// FormatVersion is the store format this package reads and writes.
const FormatVersion = "1.0"

// Layout names the fixed on-disk locations of a working-copy store.
// It is injected into the Store rather than read from package globals,
// so tests can isolate namespaces.
type Layout struct {
	// StoreDir is the name of the store directory inside a working-copy root.
	StoreDir string

	// DataDir is the name of the payload directory inside the store.
	DataDir string

	// LockFile is the name of the lock file inside the store.
	LockFile string
}

// DefaultLayout returns the layout used by the obc tool.
func DefaultLayout() Layout {
	return Layout{
		StoreDir: ".store",
		DataDir:  "data",
		LockFile: "wc.lock",
	}
}

// StorePath returns the store directory for root.
func (l Layout) StorePath(root string) string {
	return filepath.Join(root, l.StoreDir)
}

// EntryPath returns the path of a named file inside the store for root.
func (l Layout) EntryPath(root, name string) string {
	return filepath.Join(root, l.StoreDir, name)
}

// DataPath returns the payload directory for root.
func (l Layout) DataPath(root string) string {
	return filepath.Join(root, l.StoreDir, l.DataDir)
}

// LockPath returns the lock file path for root.
func (l Layout) LockPath(root string) string {
	return l.EntryPath(root, l.LockFile)
}
