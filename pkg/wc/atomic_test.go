package wc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	t.Run("creates new file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "entry")

		require.NoError(t, AtomicWriteFile(target, []byte("value\n")))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "value\n", string(data))
	})

	t.Run("replaces existing content", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "entry")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

		require.NoError(t, AtomicWriteFile(target, []byte("new")))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("empty data produces zero-byte file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "entry")

		require.NoError(t, AtomicWriteFile(target, nil))

		fi, err := os.Stat(target)
		require.NoError(t, err)
		assert.Zero(t, fi.Size())
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "entry")
		require.NoError(t, AtomicWriteFile(target, []byte("a")))
		require.NoError(t, AtomicWriteFile(target, []byte("b")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "entry", entries[0].Name())
	})
}

func TestAtomicWriteFile_FailureLeavesTargetUntouched(t *testing.T) {
	t.Run("unwritable directory", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not bind for root")
		}
		dir := t.TempDir()
		target := filepath.Join(dir, "entry")
		require.NoError(t, os.WriteFile(target, []byte("committed\n"), 0o644))

		require.NoError(t, os.Chmod(dir, 0o555))
		t.Cleanup(func() { os.Chmod(dir, 0o755) })

		err := AtomicWriteFile(target, []byte("torn"))
		require.Error(t, err)

		require.NoError(t, os.Chmod(dir, 0o755))
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "committed\n", string(data))
	})

	t.Run("target occupied by directory", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "entry")
		require.NoError(t, os.Mkdir(target, 0o755))

		err := AtomicWriteFile(target, []byte("data"))
		require.Error(t, err)

		// The directory is untouched and the temp file was cleaned up.
		fi, err := os.Stat(target)
		require.NoError(t, err)
		assert.True(t, fi.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
