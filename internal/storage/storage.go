package storage

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Storage is the capability through which the tracker reads and writes its
// files. Implementations need not be safe for concurrent use.
type Storage interface {
	// Exists reports whether a file or directory exists at p.
	Exists(p string) bool

	// IsDir reports whether p names a directory.
	IsDir(p string) bool

	// OpenRead opens the file at p for reading. It fails with ErrNotFound
	// if nothing exists at p and with ErrIsDirectory if p is a directory.
	OpenRead(p string) (io.ReadCloser, error)

	// OpenWrite opens the file at p for writing, creating missing parent
	// directories and replacing any existing content when the stream is
	// closed.
	OpenWrite(p string) (io.WriteCloser, error)

	// Remove deletes the file or directory tree at p. Removing a path that
	// does not exist is not an error.
	Remove(p string) error

	// Rename moves the file at oldPath to newPath. Directories cannot be
	// renamed and newPath must not already exist.
	Rename(oldPath, newPath string) error

	// List returns the sorted paths matching pattern, where '*' matches any
	// run of characters within a single path segment. A pattern that
	// matches nothing, including one whose parent does not exist, yields an
	// empty result.
	List(pattern string) ([]string, error)

	// MakeDirs creates the directory at p and any missing ancestors.
	MakeDirs(p string) error

	// AbsPath returns the real location of p for display purposes, such as
	// error messages or handing a file to an editor.
	AbsPath(p string) string
}

// Errors reported by storage backends, always wrapped in an *fs.PathError
// naming the operation and path.
var (
	ErrNotFound      = fs.ErrNotExist
	ErrAlreadyExists = fs.ErrExist
	ErrIsDirectory   = errors.New("is a directory")
	ErrNotDirectory  = errors.New("not a directory")
	ErrReadOnly      = errors.New("storage is read-only")
)

func pathError(op, p string, err error) error {
	return &fs.PathError{Op: op, Path: p, Err: err}
}

// Clean normalises a storage path. The result has no leading or trailing
// slash, no "." or ".." elements, and is "" for the base directory.
func Clean(p string) string {
	return path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))[1:]
}

// Parent returns the directory containing p, or "" for top-level entries.
func Parent(p string) string {
	dir := path.Dir(Clean(p))
	if dir == "." {
		return ""
	}
	return dir
}

// Walk returns every ancestor of p from the top down, ending with p itself.
// Walk("a/b/c") is ["a", "a/b", "a/b/c"].
func Walk(p string) []string {
	p = Clean(p)
	if p == "" {
		return nil
	}
	elts := strings.Split(p, "/")
	paths := make([]string, len(elts))
	for i := range elts {
		paths[i] = strings.Join(elts[:i+1], "/")
	}
	return paths
}

// Match reports whether p matches the glob pattern segment by segment.
func Match(pattern, p string) (bool, error) {
	return path.Match(Clean(pattern), Clean(p))
}

// ReadAll reads the whole file at p.
func ReadAll(s Storage, p string) ([]byte, error) {
	r, err := s.OpenRead(p)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteAll replaces the content of the file at p.
func WriteAll(s Storage, p string, data []byte) error {
	w, err := s.OpenWrite(p)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// matchAll filters candidates by pattern and returns the sorted matches.
func matchAll(pattern string, candidates []string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	var matches []string
	for _, c := range candidates {
		if ok, _ := path.Match(pattern, c); ok {
			matches = append(matches, c)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// bufferedWriter collects written bytes and hands them to commit on Close.
type bufferedWriter struct {
	buf    bytes.Buffer
	commit func(data []byte) error
	closed bool
}

func newBufferedWriter(commit func(data []byte) error) *bufferedWriter {
	return &bufferedWriter{commit: commit}
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *bufferedWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true
	return w.commit(bytes.Clone(w.buf.Bytes()))
}
