package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOnlyUnderlay(t *testing.T, files map[string]string) *MemStorage {
	t.Helper()
	underlay := NewMemStorage("testdir")
	seed(t, underlay, files)
	underlay.SetReadOnly(true)
	return underlay
}

func TestOverlay_NeverMutatesUnderlay(t *testing.T) {
	underlay := readOnlyUnderlay(t, map[string]string{
		"keep/a":   "a",
		"rename/b": "b",
		"gone/c":   "c",
	})
	o := NewOverlay(underlay)

	require.NoError(t, WriteAll(o, "keep/a", []byte("changed")))
	require.NoError(t, WriteAll(o, "new/d", []byte("d")))
	require.NoError(t, o.Rename("rename/b", "renamed/b"))
	require.NoError(t, o.Remove("gone"))

	assert.Equal(t, "changed", readString(t, o, "keep/a"))
	assert.Equal(t, "b", readString(t, o, "renamed/b"))
	assert.False(t, o.Exists("rename/b"))
	assert.False(t, o.Exists("gone/c"))

	assert.Equal(t, "a", readString(t, underlay, "keep/a"))
	assert.Equal(t, "b", readString(t, underlay, "rename/b"))
	assert.Equal(t, "c", readString(t, underlay, "gone/c"))
	assert.False(t, underlay.Exists("new/d"))
	assert.False(t, underlay.Exists("renamed"))
}

func TestOverlay_ListMergesDeltasWithUnderlay(t *testing.T) {
	o := NewOverlay(readOnlyUnderlay(t, map[string]string{
		"status/new.index":     "x",
		"status/pending.index": "y",
	}))

	require.NoError(t, WriteAll(o, "status/done.index", []byte("z")))
	require.NoError(t, o.Remove("status/pending.index"))

	got, err := o.List("status/*.index")
	require.NoError(t, err)
	assert.Equal(t, []string{"status/done.index", "status/new.index"}, got)
}

func TestOverlay_RecreatedDirectoryDoesNotResurrectUnderlayFiles(t *testing.T) {
	o := NewOverlay(readOnlyUnderlay(t, map[string]string{
		"dir/old":     "old",
		"dir/sub/old": "old",
	}))

	require.NoError(t, o.Remove("dir"))
	require.NoError(t, WriteAll(o, "dir/sub/new", []byte("new")))

	assert.False(t, o.Exists("dir/old"))
	assert.False(t, o.Exists("dir/sub/old"))
	assert.True(t, o.Exists("dir/sub/new"))

	got, err := o.List("dir/sub/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/sub/new"}, got)
}

func TestOverlay_RenameIntoDirectoryCreatedByOverlay(t *testing.T) {
	o := NewOverlay(readOnlyUnderlay(t, map[string]string{"features/x": "x"}))

	require.NoError(t, o.MakeDirs("archive/2024"))
	require.NoError(t, o.Rename("features/x", "archive/2024/x"))

	assert.True(t, o.IsDir("archive/2024"))
	assert.Equal(t, "x", readString(t, o, "archive/2024/x"))
	assert.False(t, o.Exists("features/x"))
	assert.True(t, o.IsDir("features"))

	got, err := o.List("archive/*/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive/2024/x"}, got)
}

func TestOverlay_RenameOfAddedFileKeepsContent(t *testing.T) {
	o := NewOverlay(readOnlyUnderlay(t, nil))

	require.NoError(t, WriteAll(o, "a", []byte("added")))
	require.NoError(t, o.Rename("a", "b"))

	assert.False(t, o.Exists("a"))
	assert.Equal(t, "added", readString(t, o, "b"))
}

func TestOverlay_RemoveDiscardsDeltasBelowPath(t *testing.T) {
	o := NewOverlay(readOnlyUnderlay(t, nil))
	require.NoError(t, WriteAll(o, "d/x", []byte("x")))
	require.NoError(t, WriteAll(o, "d/y/z", []byte("z")))

	require.NoError(t, o.Remove("d"))

	assert.Equal(t, []string{"d"}, o.Changed())
	assert.False(t, o.Exists("d/y/z"))
}

func TestOverlay_ReplacingFileHidesNothingElse(t *testing.T) {
	o := NewOverlay(readOnlyUnderlay(t, map[string]string{"a/b": "b", "a/c": "c"}))

	require.NoError(t, WriteAll(o, "a/b", []byte("B")))

	got, err := o.List("a/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "a/c"}, got)
	assert.Equal(t, "c", readString(t, o, "a/c"))
}

func TestOverlay_AbsPathDelegatesToUnderlay(t *testing.T) {
	underlay := readOnlyUnderlay(t, nil)
	assert.Equal(t, underlay.AbsPath("x/y"), NewOverlay(underlay).AbsPath("x/y"))
}
