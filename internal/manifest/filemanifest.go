package manifest

import (
	"encoding/xml"
	"fmt"
	"sort"
)

// FileManifest is the document stored in a package's _files entry. It
// records the files the package tracks together with the checksum, size
// and mtime of their last committed content.
type FileManifest struct {
	XMLName xml.Name    `xml:"directory"`
	Name    string      `xml:"name,attr"`
	Entries []FileEntry `xml:"entry"`
}

// FileEntry records one tracked file.
type FileEntry struct {
	Name  string `xml:"name,attr"`
	MD5   string `xml:"md5,attr"`
	Size  int64  `xml:"size,attr"`
	MTime int64  `xml:"mtime,attr"`
	State string `xml:"state,attr"`
}

// NewFileManifest returns an empty manifest for the named package.
func NewFileManifest(name string) *FileManifest {
	return &FileManifest{Name: name}
}

// ParseFileManifest decodes the _files document.
func ParseFileManifest(text string) (*FileManifest, error) {
	var fm FileManifest
	if err := xml.Unmarshal([]byte(text), &fm); err != nil {
		return nil, fmt.Errorf("parsing file manifest: %w", err)
	}
	return &fm, nil
}

// Marshal encodes the manifest, sorted by file name for deterministic
// output.
func (fm *FileManifest) Marshal() (string, error) {
	sorted := make([]FileEntry, len(fm.Entries))
	copy(sorted, fm.Entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	doc := FileManifest{Name: fm.Name, Entries: sorted}
	data, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling file manifest: %w", err)
	}
	return string(data), nil
}

// Find returns the entry for name, or nil if name is not tracked.
func (fm *FileManifest) Find(name string) *FileEntry {
	for i := range fm.Entries {
		if fm.Entries[i].Name == name {
			return &fm.Entries[i]
		}
	}
	return nil
}

// Set adds entry, replacing any existing entry with the same name.
func (fm *FileManifest) Set(entry FileEntry) {
	if e := fm.Find(entry.Name); e != nil {
		*e = entry
		return
	}
	fm.Entries = append(fm.Entries, entry)
}

// Remove drops name from the manifest. It reports whether name was
// tracked.
func (fm *FileManifest) Remove(name string) bool {
	for i := range fm.Entries {
		if fm.Entries[i].Name == name {
			fm.Entries = append(fm.Entries[:i], fm.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the tracked file names in sorted order.
func (fm *FileManifest) Names() []string {
	names := make([]string, 0, len(fm.Entries))
	for _, e := range fm.Entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
