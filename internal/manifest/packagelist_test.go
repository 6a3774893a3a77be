package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageList_ParseMarshal(t *testing.T) {
	text := `<packages>
  <package name="pkg-b" state=" "></package>
  <package name="pkg-a" state="A"></package>
</packages>`

	pl, err := ParsePackageList(text)
	require.NoError(t, err)
	require.Len(t, pl.Packages, 2)
	assert.True(t, pl.Has("pkg-a"))
	assert.True(t, pl.Has("pkg-b"))

	out, err := pl.Marshal()
	require.NoError(t, err)

	// Marshal sorts by name, so pkg-a comes first.
	reparsed, err := ParsePackageList(out)
	require.NoError(t, err)
	assert.Equal(t, "pkg-a", reparsed.Packages[0].Name)
	assert.Equal(t, "A", reparsed.Packages[0].State)
	assert.Equal(t, "pkg-b", reparsed.Packages[1].Name)
}

func TestPackageList_ParseError(t *testing.T) {
	_, err := ParsePackageList("<packages><package></packages>")
	assert.Error(t, err)
}

func TestPackageList_SetRemove(t *testing.T) {
	pl := NewPackageList()
	assert.False(t, pl.Has("pkg"))

	pl.Set("pkg", StateAdded)
	require.True(t, pl.Has("pkg"))
	assert.Equal(t, StateAdded, pl.Find("pkg").State)

	// Set replaces the existing entry.
	pl.Set("pkg", StateUnmodified)
	require.Len(t, pl.Packages, 1)
	assert.Equal(t, StateUnmodified, pl.Find("pkg").State)

	assert.True(t, pl.Remove("pkg"))
	assert.False(t, pl.Remove("pkg"))
	assert.Empty(t, pl.Packages)
}

func TestPackageList_Names(t *testing.T) {
	pl := NewPackageList()
	pl.Set("zeta", StateUnmodified)
	pl.Set("alpha", StateUnmodified)
	pl.Set("mid", StateAdded)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, pl.Names())
}

func TestPackageList_EmptyDocument(t *testing.T) {
	pl := NewPackageList()
	out, err := pl.Marshal()
	require.NoError(t, err)

	reparsed, err := ParsePackageList(out)
	require.NoError(t, err)
	assert.Empty(t, reparsed.Packages)
	assert.Empty(t, reparsed.Names())
}
