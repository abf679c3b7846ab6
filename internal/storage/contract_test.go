package storage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend builds a storage pre-populated with files.
type backend struct {
	name     string
	readOnly bool
	build    func(t *testing.T, files map[string]string) Storage
}

func fileBackend() backend {
	return backend{
		name: "file",
		build: func(t *testing.T, files map[string]string) Storage {
			base := t.TempDir()
			seed(t, NewFileStorage(base), files)
			return NewFileStorage(base)
		},
	}
}

func memBackend() backend {
	return backend{
		name: "memory",
		build: func(t *testing.T, files map[string]string) Storage {
			s := NewMemStorage("basedir")
			seed(t, s, files)
			return s
		},
	}
}

func overlayBackend() backend {
	return backend{
		name: "overlay",
		build: func(t *testing.T, files map[string]string) Storage {
			underlay := NewMemStorage("basedir")
			seed(t, underlay, files)
			underlay.SetReadOnly(true)
			return NewOverlay(underlay)
		},
	}
}

func treeBackend() backend {
	return backend{
		name:     "tree",
		readOnly: true,
		build: func(t *testing.T, files map[string]string) Storage {
			blobs := make(map[string]Blob, len(files))
			for p, content := range files {
				blobs[p] = StaticBlob([]byte(content))
			}
			return NewTreeStorage(BuildTree(blobs), "basedir")
		},
	}
}

func overlayOnTreeBackend() backend {
	tree := treeBackend()
	return backend{
		name: "overlay-on-tree",
		build: func(t *testing.T, files map[string]string) Storage {
			return NewOverlay(tree.build(t, files))
		},
	}
}

func allBackends() []backend {
	return []backend{fileBackend(), memBackend(), overlayBackend(), treeBackend(), overlayOnTreeBackend()}
}

func seed(t *testing.T, s Storage, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, WriteAll(s, p, []byte(content)))
	}
}

func readString(t *testing.T, s Storage, p string) string {
	t.Helper()
	data, err := ReadAll(s, p)
	require.NoError(t, err)
	return string(data)
}

func forEachBackend(t *testing.T, writable bool, test func(t *testing.T, b backend)) {
	for _, b := range allBackends() {
		if writable && b.readOnly {
			continue
		}
		t.Run(b.name, func(t *testing.T) {
			test(t, b)
		})
	}
}

func TestContract_ReportsExistence(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{
			"example":                  "x",
			"example-dir/example-file": "y",
		})

		assert.True(t, s.Exists("example"))
		assert.True(t, s.Exists("example-dir"))
		assert.True(t, s.Exists("example-dir/example-file"))

		assert.False(t, s.Exists("other-file"))
		assert.False(t, s.Exists("other-dir"))
		assert.False(t, s.Exists("example-dir/yet-another-file"))
	})
}

func TestContract_ReportsDirectories(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"a-dir/another-dir/a-file": "x"})

		assert.True(t, s.IsDir("a-dir"))
		assert.True(t, s.IsDir("a-dir/another-dir"))
		assert.False(t, s.IsDir("a-dir/another-dir/a-file"))
		assert.False(t, s.IsDir("missing"))
	})
}

func TestContract_OpensFilesForReading(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{
			"foo.txt":     "testing!",
			"d1/d2/f.txt": "example-in-subdirectory",
		})

		assert.Equal(t, "testing!", readString(t, s, "foo.txt"))
		assert.Equal(t, "example-in-subdirectory", readString(t, s, "d1/d2/f.txt"))
	})
}

func TestContract_ReadingMissingFileFails(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, nil)

		_, err := s.OpenRead("does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestContract_ReadingDirectoryFails(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"dir/file": "x"})

		_, err := s.OpenRead("dir")
		assert.ErrorIs(t, err, ErrIsDirectory)
	})
}

func TestContract_ListsGlobMatches(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{
			"a/b1/1.txt": "x",
			"a/b1/2.txt": "x",
			"a/b1/3.mpg": "x",
			"a/b2/c":     "x",
			"x/y":        "x",
		})

		tests := []struct {
			pattern string
			want    []string
		}{
			{"a/b1/*.txt", []string{"a/b1/1.txt", "a/b1/2.txt"}},
			{"a/b*/*", []string{"a/b1/1.txt", "a/b1/2.txt", "a/b1/3.mpg", "a/b2/c"}},
			{"*", []string{"a", "x"}},
			{"a/zzz*", nil},
			{"zzz/*", nil},
			{"no/where/*.txt", nil},
		}
		for _, tt := range tests {
			got, err := s.List(tt.pattern)
			require.NoError(t, err, tt.pattern)
			if tt.want == nil {
				assert.Empty(t, got, tt.pattern)
			} else {
				assert.Equal(t, tt.want, got, tt.pattern)
			}
		}
	})
}

func TestContract_ReportsAbsolutePath(t *testing.T) {
	forEachBackend(t, false, func(t *testing.T, b backend) {
		s := b.build(t, nil)
		assert.Equal(t, filepath.Join(s.AbsPath(""), "x", "y"), s.AbsPath("x/y"))
		assert.Equal(t, s.AbsPath("x/y"), s.AbsPath("x/z/../y"))
	})
}

func TestContract_OverwritesExistingFiles(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"the-file": "original-content"})

		require.NoError(t, WriteAll(s, "the-file", []byte("new-content")))

		assert.Equal(t, "new-content", readString(t, s, "the-file"))
	})
}

func TestContract_ContentVisibleOnlyAfterClose(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"f": "before"})

		w, err := s.OpenWrite("f")
		require.NoError(t, err)
		_, err = io.WriteString(w, "after")
		require.NoError(t, err)
		assert.Equal(t, "before", readString(t, s, "f"))

		require.NoError(t, w.Close())
		assert.Equal(t, "after", readString(t, s, "f"))
	})
}

func TestContract_MakesParentDirectoriesWhenWriting(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, nil)

		require.NoError(t, WriteAll(s, "parent/subparent/example.txt", []byte("testing")))

		assert.True(t, s.Exists("parent/subparent/example.txt"))
		assert.True(t, s.IsDir("parent/subparent"))
		assert.True(t, s.IsDir("parent"))
	})
}

func TestContract_WritingBelowAFileFails(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"plain": "x"})

		_, err := s.OpenWrite("plain/child")
		assert.ErrorIs(t, err, ErrNotDirectory)
	})
}

func TestContract_RemovesFiles(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"to-be-deleted": "x"})

		require.NoError(t, s.Remove("to-be-deleted"))

		assert.False(t, s.Exists("to-be-deleted"))
	})
}

func TestContract_IgnoresRemovalOfMissingPaths(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{"dir/file": "x"})

		require.NoError(t, s.Remove("nonexistent-file"))
		require.NoError(t, s.Remove("another-dir"))

		assert.False(t, s.Exists("nonexistent-file"))
		assert.True(t, s.Exists("dir/file"))
	})
}

func TestContract_RemovesDirectoryTrees(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{
			"parent/child/file1": "x",
			"parent/child/file2": "x",
		})

		require.NoError(t, s.Remove("parent/child"))

		assert.False(t, s.Exists("parent/child"))
		assert.False(t, s.Exists("parent/child/file1"))
		assert.False(t, s.Exists("parent/child/file2"))
		assert.True(t, s.Exists("parent"))

		got, err := s.List("parent/*")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestContract_RenamesFiles(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{
			"x":         "x-contents",
			"fromdir/z": "z-contents",
		})

		require.NoError(t, s.Rename("x", "y"))
		require.NoError(t, s.Rename("fromdir/z", "todir/z"))

		assert.False(t, s.Exists("x"))
		assert.Equal(t, "x-contents", readString(t, s, "y"))
		assert.False(t, s.Exists("fromdir/z"))
		assert.Equal(t, "z-contents", readString(t, s, "todir/z"))
	})
}

func TestContract_RenameFailures(t *testing.T) {
	forEachBackend(t, true, func(t *testing.T, b backend) {
		s := b.build(t, map[string]string{
			"a/b/c": "x",
			"x":     "x",
			"y":     "y",
		})

		assert.ErrorIs(t, s.Rename("a/b", "a/bb"), ErrIsDirectory)
		assert.ErrorIs(t, s.Rename("file/that/does/not/exist", "irrelevant"), ErrNotFound)
		assert.ErrorIs(t, s.Rename("x", "y"), ErrAlreadyExists)

		assert.Equal(t, "x", readString(t, s, "x"))
		assert.Equal(t, "y", readString(t, s, "y"))
	})
}
