package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// FileStorage stores files on the local filesystem below a base directory.
type FileStorage struct {
	base string
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates a storage rooted at base. The directory is not
// created until something is written.
func NewFileStorage(base string) *FileStorage {
	return &FileStorage{base: base}
}

// Base returns the directory the storage is rooted at.
func (s *FileStorage) Base() string {
	return s.base
}

func (s *FileStorage) AbsPath(p string) string {
	return filepath.Join(s.base, filepath.FromSlash(Clean(p)))
}

func (s *FileStorage) Exists(p string) bool {
	_, err := os.Stat(s.AbsPath(p))
	return err == nil
}

func (s *FileStorage) IsDir(p string) bool {
	info, err := os.Stat(s.AbsPath(p))
	return err == nil && info.IsDir()
}

func (s *FileStorage) OpenRead(p string) (io.ReadCloser, error) {
	abs := s.AbsPath(p)
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pathError("open", p, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, pathError("open", p, ErrIsDirectory)
	}
	return os.Open(abs)
}

// OpenWrite returns a stream whose content replaces the file atomically on
// Close: it is written to a temporary file in the same directory which is
// then renamed over the target.
func (s *FileStorage) OpenWrite(p string) (io.WriteCloser, error) {
	if s.IsDir(p) {
		return nil, pathError("write", p, ErrIsDirectory)
	}
	if err := s.MakeDirs(Parent(p)); err != nil {
		return nil, err
	}
	abs := s.AbsPath(p)
	return newBufferedWriter(func(data []byte) error {
		_, statErr := os.Stat(abs)
		isNew := errors.Is(statErr, fs.ErrNotExist)

		if err := atomic.WriteFile(abs, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		// atomic.WriteFile leaves new files with the temporary file's mode
		if isNew {
			if err := os.Chmod(abs, filePerms); err != nil {
				return fmt.Errorf("write %s: %w", p, err)
			}
		}
		return nil
	}), nil
}

func (s *FileStorage) Remove(p string) error {
	if Clean(p) == "" {
		return pathError("remove", p, fs.ErrInvalid)
	}
	if err := os.RemoveAll(s.AbsPath(p)); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

func (s *FileStorage) Rename(oldPath, newPath string) error {
	oldAbs := s.AbsPath(oldPath)
	info, err := os.Stat(oldAbs)
	if errors.Is(err, fs.ErrNotExist) {
		return pathError("rename", oldPath, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return pathError("rename", oldPath, ErrIsDirectory)
	}
	if s.Exists(newPath) {
		return pathError("rename", newPath, ErrAlreadyExists)
	}
	if err := s.MakeDirs(Parent(newPath)); err != nil {
		return err
	}
	if err := os.Rename(oldAbs, s.AbsPath(newPath)); err != nil {
		return fmt.Errorf("rename %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

func (s *FileStorage) List(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(escapeMeta(s.base), filepath.FromSlash(Clean(pattern))))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", pattern, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(s.base, m)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", pattern, err)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *FileStorage) MakeDirs(p string) error {
	for _, sub := range Walk(p) {
		info, err := os.Stat(s.AbsPath(sub))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return pathError("mkdir", p, fmt.Errorf("%w: %s is a file", ErrNotDirectory, sub))
		}
	}
	if err := os.MkdirAll(s.AbsPath(p), dirPerms); err != nil {
		return fmt.Errorf("mkdir %s: %w", p, err)
	}
	return nil
}

// escapeMeta quotes glob metacharacters in a literal directory name.
func escapeMeta(dir string) string {
	var b strings.Builder
	for _, r := range dir {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
