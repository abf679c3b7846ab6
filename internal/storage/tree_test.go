package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeStorage_RejectsEveryMutation(t *testing.T) {
	s := NewTreeStorage(BuildTree(map[string]Blob{"a/b": StaticBlob([]byte("x"))}), "snapshot")

	_, err := s.OpenWrite("a/c")
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, s.Remove("a/b"), ErrReadOnly)
	assert.ErrorIs(t, s.Rename("a/b", "a/c"), ErrReadOnly)
	assert.ErrorIs(t, s.MakeDirs("d"), ErrReadOnly)
	assert.EqualError(t, s.Remove("a/b"), "remove a/b: storage is read-only")

	assert.Equal(t, "x", readString(t, s, "a/b"))
}

func TestTreeStorage_ReadsBlobsLazily(t *testing.T) {
	calls := 0
	s := NewTreeStorage(BuildTree(map[string]Blob{
		"lazy": func() ([]byte, error) {
			calls++
			return []byte("loaded"), nil
		},
	}), "snapshot")

	assert.True(t, s.Exists("lazy"))
	assert.Equal(t, 0, calls)

	assert.Equal(t, "loaded", readString(t, s, "lazy"))
	assert.Equal(t, 1, calls)
}

func TestTreeStorage_PropagatesBlobErrors(t *testing.T) {
	boom := errors.New("object missing")
	s := NewTreeStorage(BuildTree(map[string]Blob{
		"broken": func() ([]byte, error) { return nil, boom },
	}), "snapshot")

	_, err := s.OpenRead("broken")
	assert.ErrorIs(t, err, boom)
}

func TestTreeStorage_PathThroughFileDoesNotExist(t *testing.T) {
	s := NewTreeStorage(BuildTree(map[string]Blob{"file": StaticBlob(nil)}), "snapshot")

	assert.False(t, s.Exists("file/child"))
	got, err := s.List("file/*")
	require.NoError(t, err)
	assert.Empty(t, got)
}
