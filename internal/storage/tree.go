package storage

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// TreeNode is an element of an immutable hierarchical tree, for example
// one revision of a tracker's files.
type TreeNode interface {
	// IsDir reports whether the node is a directory.
	IsDir() bool

	// Child returns the named entry of a directory node.
	Child(name string) (TreeNode, bool)

	// Names returns the sorted entry names of a directory node.
	Names() []string

	// Open returns the content of a file node.
	Open() (io.ReadCloser, error)
}

// Blob produces the content of a file in a tree built by BuildTree. It is
// called each time the file is opened, so content can be fetched lazily.
type Blob func() ([]byte, error)

// StaticBlob returns a Blob for content that is already in memory.
func StaticBlob(data []byte) Blob {
	return func() ([]byte, error) { return data, nil }
}

// BuildTree assembles a tree from file paths and their content. Directories
// are implied by the paths.
func BuildTree(files map[string]Blob) TreeNode {
	root := newTreeDir()
	for p, blob := range files {
		elts := strings.Split(Clean(p), "/")
		dir := root
		for _, elt := range elts[:len(elts)-1] {
			child, ok := dir.children[elt].(*treeDir)
			if !ok {
				child = newTreeDir()
				dir.children[elt] = child
			}
			dir = child
		}
		dir.children[elts[len(elts)-1]] = treeFile{blob: blob}
	}
	return root
}

type treeDir struct {
	children map[string]TreeNode
}

func newTreeDir() *treeDir {
	return &treeDir{children: make(map[string]TreeNode)}
}

func (d *treeDir) IsDir() bool { return true }

func (d *treeDir) Child(name string) (TreeNode, bool) {
	n, ok := d.children[name]
	return n, ok
}

func (d *treeDir) Names() []string {
	names := make([]string, 0, len(d.children))
	for name := range d.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *treeDir) Open() (io.ReadCloser, error) {
	return nil, ErrIsDirectory
}

type treeFile struct {
	blob Blob
}

func (f treeFile) IsDir() bool                   { return false }
func (f treeFile) Child(string) (TreeNode, bool) { return nil, false }
func (f treeFile) Names() []string               { return nil }

func (f treeFile) Open() (io.ReadCloser, error) {
	data, err := f.blob()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// TreeStorage is a read-only Storage over a TreeNode. Every mutation fails
// with ErrReadOnly; wrap it in an Overlay to make changes.
type TreeStorage struct {
	root TreeNode
	base string
}

var _ Storage = (*TreeStorage)(nil)

// NewTreeStorage creates a read-only storage over root. base is only used to
// build display paths.
func NewTreeStorage(root TreeNode, base string) *TreeStorage {
	return &TreeStorage{root: root, base: base}
}

func (t *TreeStorage) resolve(p string) (TreeNode, bool) {
	p = Clean(p)
	node := t.root
	if p == "" {
		return node, true
	}
	for _, elt := range strings.Split(p, "/") {
		if !node.IsDir() {
			return nil, false
		}
		child, ok := node.Child(elt)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

func (t *TreeStorage) AbsPath(p string) string {
	return filepath.Join(t.base, filepath.FromSlash(Clean(p)))
}

func (t *TreeStorage) Exists(p string) bool {
	_, ok := t.resolve(p)
	return ok
}

func (t *TreeStorage) IsDir(p string) bool {
	node, ok := t.resolve(p)
	return ok && node.IsDir()
}

func (t *TreeStorage) OpenRead(p string) (io.ReadCloser, error) {
	node, ok := t.resolve(p)
	if !ok {
		return nil, pathError("open", p, ErrNotFound)
	}
	if node.IsDir() {
		return nil, pathError("open", p, ErrIsDirectory)
	}
	r, err := node.Open()
	if err != nil {
		return nil, pathError("open", p, err)
	}
	return r, nil
}

func (t *TreeStorage) OpenWrite(p string) (io.WriteCloser, error) {
	return nil, pathError("write", p, ErrReadOnly)
}

func (t *TreeStorage) Remove(p string) error {
	return pathError("remove", p, ErrReadOnly)
}

func (t *TreeStorage) Rename(oldPath, newPath string) error {
	return pathError("rename", oldPath, ErrReadOnly)
}

func (t *TreeStorage) MakeDirs(p string) error {
	return pathError("mkdir", p, ErrReadOnly)
}

// List walks the tree one pattern segment at a time.
func (t *TreeStorage) List(pattern string) ([]string, error) {
	pattern = Clean(pattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("list %s: %w", pattern, err)
	}
	if pattern == "" {
		return nil, nil
	}
	var matches []string
	var visit func(node TreeNode, prefix string, segments []string)
	visit = func(node TreeNode, prefix string, segments []string) {
		if !node.IsDir() {
			return
		}
		for _, name := range node.Names() {
			if ok, _ := path.Match(segments[0], name); !ok {
				continue
			}
			child, _ := node.Child(name)
			p := path.Join(prefix, name)
			if len(segments) == 1 {
				matches = append(matches, p)
			} else {
				visit(child, p, segments[1:])
			}
		}
	}
	visit(t.root, "", strings.Split(pattern, "/"))
	sort.Strings(matches)
	return matches, nil
}
