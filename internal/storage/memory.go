package storage

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// MemStorage keeps files in memory. It is only suitable for small trees and
// is mostly used as a test fixture.
type MemStorage struct {
	base     string
	readOnly bool
	files    map[string][]byte
	dirs     map[string]struct{}
}

var _ Storage = (*MemStorage)(nil)

// NewMemStorage creates an empty, writable in-memory storage. base is only
// used to build display paths.
func NewMemStorage(base string) *MemStorage {
	return &MemStorage{
		base:  base,
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
}

// SetReadOnly switches the storage between read-only and writable mode.
func (m *MemStorage) SetReadOnly(readOnly bool) {
	m.readOnly = readOnly
}

// ReadOnly reports whether mutations are currently rejected.
func (m *MemStorage) ReadOnly() bool {
	return m.readOnly
}

// Writable runs fn with the storage temporarily writable and then restores
// the previous mode, even if fn fails.
func (m *MemStorage) Writable(fn func() error) error {
	previous := m.readOnly
	m.readOnly = false
	defer func() { m.readOnly = previous }()
	return fn()
}

func (m *MemStorage) AbsPath(p string) string {
	return filepath.Join(m.base, filepath.FromSlash(Clean(p)))
}

func (m *MemStorage) Exists(p string) bool {
	p = Clean(p)
	_, isFile := m.files[p]
	return isFile || m.isDir(p)
}

func (m *MemStorage) IsDir(p string) bool {
	return m.isDir(Clean(p))
}

func (m *MemStorage) isDir(p string) bool {
	if p == "" {
		return true
	}
	_, ok := m.dirs[p]
	return ok
}

func (m *MemStorage) OpenRead(p string) (io.ReadCloser, error) {
	p = Clean(p)
	if m.isDir(p) {
		return nil, pathError("open", p, ErrIsDirectory)
	}
	data, ok := m.files[p]
	if !ok {
		return nil, pathError("open", p, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemStorage) OpenWrite(p string) (io.WriteCloser, error) {
	p = Clean(p)
	if err := m.checkWritable("write", p); err != nil {
		return nil, err
	}
	if m.isDir(p) {
		return nil, pathError("write", p, ErrIsDirectory)
	}
	if err := m.MakeDirs(Parent(p)); err != nil {
		return nil, err
	}
	return newBufferedWriter(func(data []byte) error {
		if err := m.checkWritable("write", p); err != nil {
			return err
		}
		m.files[p] = data
		return nil
	}), nil
}

func (m *MemStorage) Remove(p string) error {
	p = Clean(p)
	if err := m.checkWritable("remove", p); err != nil {
		return err
	}
	if p == "" {
		return pathError("remove", p, fs.ErrInvalid)
	}
	prefix := p + "/"
	for f := range m.files {
		if f == p || strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if d == p || strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

func (m *MemStorage) Rename(oldPath, newPath string) error {
	oldPath, newPath = Clean(oldPath), Clean(newPath)
	if err := m.checkWritable("rename", oldPath); err != nil {
		return err
	}
	if m.isDir(oldPath) {
		return pathError("rename", oldPath, ErrIsDirectory)
	}
	data, ok := m.files[oldPath]
	if !ok {
		return pathError("rename", oldPath, ErrNotFound)
	}
	if m.Exists(newPath) {
		return pathError("rename", newPath, ErrAlreadyExists)
	}
	if err := m.MakeDirs(Parent(newPath)); err != nil {
		return err
	}
	delete(m.files, oldPath)
	m.files[newPath] = data
	return nil
}

func (m *MemStorage) List(pattern string) ([]string, error) {
	candidates := make([]string, 0, len(m.files)+len(m.dirs))
	for f := range m.files {
		candidates = append(candidates, f)
	}
	for d := range m.dirs {
		candidates = append(candidates, d)
	}
	matches, err := matchAll(Clean(pattern), candidates)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", pattern, err)
	}
	return matches, nil
}

func (m *MemStorage) MakeDirs(p string) error {
	p = Clean(p)
	if err := m.checkWritable("mkdir", p); err != nil {
		return err
	}
	for _, sub := range Walk(p) {
		if _, isFile := m.files[sub]; isFile {
			return pathError("mkdir", p, fmt.Errorf("%w: %s is a file", ErrNotDirectory, sub))
		}
		m.dirs[sub] = struct{}{}
	}
	return nil
}

func (m *MemStorage) checkWritable(op, p string) error {
	if m.readOnly {
		return pathError(op, p, ErrReadOnly)
	}
	return nil
}
