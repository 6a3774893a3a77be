// Package manifest defines the serialized documents a working copy keeps
// in its store: the project's package list and the package's file
// manifest. The documents mirror build-service payloads, which are XML;
// no schema validation is performed here.
package manifest

import (
	"encoding/xml"
	"fmt"
	"sort"
)

// Package and file states as recorded in store documents.
const (
	StateUnmodified = " "
	StateAdded      = "A"
	StateDeleted    = "D"
	StateModified   = "M"
	StateSkipped    = "S"
)

// PackageList is the document stored in a project's _packages entry. It
// records which package directories the project tracks and their state.
type PackageList struct {
	XMLName  xml.Name       `xml:"packages"`
	Packages []PackageEntry `xml:"package"`
}

// PackageEntry is one tracked package.
type PackageEntry struct {
	Name  string `xml:"name,attr"`
	State string `xml:"state,attr"`
}

// NewPackageList returns an empty package list.
func NewPackageList() *PackageList {
	return &PackageList{}
}

// ParsePackageList decodes the _packages document.
func ParsePackageList(text string) (*PackageList, error) {
	var pl PackageList
	if err := xml.Unmarshal([]byte(text), &pl); err != nil {
		return nil, fmt.Errorf("parsing package list: %w", err)
	}
	return &pl, nil
}

// Marshal encodes the list, sorted by package name so repeated writes of
// the same logical content are byte-identical.
func (pl *PackageList) Marshal() (string, error) {
	sorted := make([]PackageEntry, len(pl.Packages))
	copy(sorted, pl.Packages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	doc := PackageList{Packages: sorted}
	data, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling package list: %w", err)
	}
	return string(data), nil
}

// Find returns the entry for name, or nil if name is not tracked.
func (pl *PackageList) Find(name string) *PackageEntry {
	for i := range pl.Packages {
		if pl.Packages[i].Name == name {
			return &pl.Packages[i]
		}
	}
	return nil
}

// Has reports whether name is tracked.
func (pl *PackageList) Has(name string) bool {
	return pl.Find(name) != nil
}

// Set adds name with the given state, replacing any existing entry.
func (pl *PackageList) Set(name, state string) {
	if e := pl.Find(name); e != nil {
		e.State = state
		return
	}
	pl.Packages = append(pl.Packages, PackageEntry{Name: name, State: state})
}

// Remove drops name from the list. It reports whether name was tracked.
func (pl *PackageList) Remove(name string) bool {
	for i := range pl.Packages {
		if pl.Packages[i].Name == name {
			pl.Packages = append(pl.Packages[:i], pl.Packages[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the tracked package names in sorted order.
func (pl *PackageList) Names() []string {
	names := make([]string, 0, len(pl.Packages))
	for _, e := range pl.Packages {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
