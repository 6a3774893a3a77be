package wc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEntries initializes root and writes the given entries.
func writeEntries(t *testing.T, s *Store, root string, entries map[string]string) {
	t.Helper()
	require.NoError(t, s.Init(root))
	for name, content := range entries {
		require.NoError(t, s.Write(root, name, content))
	}
}

func TestClassifier(t *testing.T) {
	tests := []struct {
		name        string
		entries     map[string]string
		wantProject bool
		wantPackage bool
	}{
		{
			name: "apiurl and project present, package absent",
			entries: map[string]string{
				EntryAPIURL:  "https://api.example.org",
				EntryProject: "devel",
			},
			wantProject: true,
			wantPackage: false,
		},
		{
			name: "apiurl, project and package all present",
			entries: map[string]string{
				EntryAPIURL:  "https://api.example.org",
				EntryProject: "devel",
				EntryPackage: "obc",
			},
			wantProject: false,
			wantPackage: true,
		},
		{
			name: "only project present",
			entries: map[string]string{
				EntryProject: "devel",
			},
			wantProject: false,
			wantPackage: false,
		},
		{
			name: "package without project",
			entries: map[string]string{
				EntryAPIURL:  "https://api.example.org",
				EntryPackage: "obc",
			},
			wantProject: false,
			wantPackage: false,
		},
		{
			name:        "fresh store with no entries",
			entries:     map[string]string{},
			wantProject: false,
			wantPackage: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStore()
			root := t.TempDir()
			writeEntries(t, s, root, tt.entries)

			assert.Equal(t, tt.wantProject, s.IsProject(root))
			assert.Equal(t, tt.wantPackage, s.IsPackage(root))
		})
	}
}

func TestClassifier_NoStore(t *testing.T) {
	s := DefaultStore()

	t.Run("plain directory", func(t *testing.T) {
		root := t.TempDir()
		assert.False(t, s.IsProject(root))
		assert.False(t, s.IsPackage(root))
	})

	t.Run("nonexistent path", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nope")
		assert.False(t, s.IsProject(root))
		assert.False(t, s.IsPackage(root))
	})
}

// newProjectFixture builds a project working copy with one nested package
// whose store is linked into the project's data directory.
func newProjectFixture(t *testing.T, s *Store, project, pkg string) (prjRoot, pkgRoot string) {
	t.Helper()
	prjRoot = filepath.Join(t.TempDir(), project)
	writeEntries(t, s, prjRoot, map[string]string{
		EntryAPIURL:  "https://api.example.org",
		EntryProject: project,
	})

	dataDir, err := s.MkdirData(prjRoot, pkg)
	require.NoError(t, err)

	pkgRoot = filepath.Join(prjRoot, pkg)
	require.NoError(t, s.InitExternal(pkgRoot, dataDir))
	for name, content := range map[string]string{
		EntryAPIURL:  "https://api.example.org",
		EntryProject: project,
		EntryPackage: pkg,
	} {
		require.NoError(t, s.Write(pkgRoot, name, content))
	}
	return prjRoot, pkgRoot
}

func TestParent(t *testing.T) {
	s := DefaultStore()

	t.Run("nested package resolves to project", func(t *testing.T) {
		prjRoot, pkgRoot := newProjectFixture(t, s, "prj1", "added")
		got, ok := s.Parent(pkgRoot)
		require.True(t, ok)
		assert.Equal(t, prjRoot, got)
		assert.True(t, s.IsProject(got))
	})

	t.Run("file inside package resolves to package", func(t *testing.T) {
		_, pkgRoot := newProjectFixture(t, s, "prj1", "added")
		file := filepath.Join(pkgRoot, "foo")
		require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))

		got, ok := s.Parent(file)
		require.True(t, ok)
		assert.Equal(t, pkgRoot, got)
		assert.True(t, s.IsPackage(got))
	})

	t.Run("nonexistent path inside package resolves to package", func(t *testing.T) {
		_, pkgRoot := newProjectFixture(t, s, "prj1", "added")
		got, ok := s.Parent(filepath.Join(pkgRoot, "non_existent"))
		require.True(t, ok)
		assert.Equal(t, pkgRoot, got)
	})

	t.Run("standalone package has no parent", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "package")
		writeEntries(t, s, root, map[string]string{
			EntryAPIURL:  "https://api.example.org",
			EntryProject: "devel",
			EntryPackage: "obc",
		})
		_, ok := s.Parent(root)
		assert.False(t, ok)
	})

	t.Run("standalone project has no parent", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "project")
		writeEntries(t, s, root, map[string]string{
			EntryAPIURL:  "https://api.example.org",
			EntryProject: "devel",
		})
		_, ok := s.Parent(root)
		assert.False(t, ok)
	})

	t.Run("store link resolves non-standard hierarchy", func(t *testing.T) {
		// The package directory lives outside the project tree, but its
		// store links into the project's data dir.
		prjRoot, _ := newProjectFixture(t, s, "prj1", "moved")
		dataDir := s.DataPath(prjRoot, "moved")

		outside := filepath.Join(t.TempDir(), "elsewhere", "moved")
		require.NoError(t, os.MkdirAll(filepath.Dir(outside), 0o755))
		require.NoError(t, os.Mkdir(outside, 0o755))
		require.NoError(t, os.Symlink(dataDir, s.Layout().StorePath(outside)))
		require.True(t, s.IsPackage(outside))

		got, ok := s.Parent(outside)
		require.True(t, ok)
		// Parent resolves the link fully, so compare resolved paths.
		wantPrj, err := filepath.EvalSymlinks(prjRoot)
		require.NoError(t, err)
		assert.Equal(t, wantPrj, got)
	})
}
