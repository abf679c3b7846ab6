package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_CreatesFilesInBaseDir(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)

	require.NoError(t, WriteAll(s, "foo/bar", []byte("example-content")))

	data, err := os.ReadFile(filepath.Join(base, "foo", "bar"))
	require.NoError(t, err)
	assert.Equal(t, "example-content", string(data))
}

func TestFileStorage_NewFilesAreWorldReadable(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)

	require.NoError(t, WriteAll(s, "f", []byte("x")))

	info, err := os.Stat(filepath.Join(base, "f"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerms), info.Mode().Perm())
}

func TestFileStorage_LeavesNoTemporaryFilesBehind(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)

	require.NoError(t, WriteAll(s, "dir/f", []byte("one")))
	require.NoError(t, WriteAll(s, "dir/f", []byte("two")))

	entries, err := os.ReadDir(filepath.Join(base, "dir"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f", entries[0].Name())
}

func TestFileStorage_DeletesDirectoryTreesFromDisk(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)
	require.NoError(t, WriteAll(s, "example-dir/example-file", []byte("x")))

	require.NoError(t, s.Remove("example-dir"))

	_, err := os.Stat(filepath.Join(base, "example-dir"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_RefusesToRemoveBase(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)
	require.NoError(t, WriteAll(s, "keep", []byte("x")))

	assert.Error(t, s.Remove(""))
	assert.True(t, s.Exists("keep"))
}

func TestFileStorage_ListsBelowBaseWithGlobCharacters(t *testing.T) {
	base := filepath.Join(t.TempDir(), "odd[dir]*")
	s := NewFileStorage(base)
	require.NoError(t, WriteAll(s, "status/new.index", []byte("a\n")))

	got, err := s.List("status/*.index")
	require.NoError(t, err)
	assert.Equal(t, []string{"status/new.index"}, got)
}

func TestFileStorage_AbsPath(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/foo/bar/x/y"), NewFileStorage("/foo/bar").AbsPath("x/y"))
	assert.Equal(t, filepath.FromSlash("foo/baz/x/y"), NewFileStorage("foo/bar/../baz/.").AbsPath("x/y"))
}
