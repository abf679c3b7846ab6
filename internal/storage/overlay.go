package storage

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
)

type deltaKind int

const (
	removal deltaKind = iota
	addition
	dirAddition
)

// delta records one change made through an Overlay.
type delta struct {
	kind deltaKind
	data []byte
}

type entryKind int

const (
	absent entryKind = iota
	fileEntry
	dirEntry
)

// entry is the merged view of one path.
type entry struct {
	kind       entryKind
	data       []byte
	underlying bool
}

// Overlay is a copy-on-write view of another Storage (the underlay). Reads
// see the underlay as modified by the overlay's deltas; writes, removals and
// renames only ever change the deltas, so the underlay may be read-only.
//
// Directories created through the overlay are opaque: nothing below them is
// read from the underlay. Removing a directory and creating it again
// therefore never resurrects the underlay's files.
//
// Several overlays may share one underlay. A single overlay is not safe for
// concurrent use.
type Overlay struct {
	underlay Storage
	deltas   map[string]delta
}

var _ Storage = (*Overlay)(nil)

// NewOverlay creates an overlay with no changes over underlay.
func NewOverlay(underlay Storage) *Overlay {
	return &Overlay{underlay: underlay, deltas: make(map[string]delta)}
}

// Underlay returns the wrapped storage.
func (o *Overlay) Underlay() Storage {
	return o.underlay
}

// Changed returns the sorted paths that have been added, replaced or removed
// through the overlay.
func (o *Overlay) Changed() []string {
	paths := make([]string, 0, len(o.deltas))
	for p := range o.deltas {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (o *Overlay) lookup(p string) entry {
	p = Clean(p)
	if p == "" {
		return entry{kind: dirEntry}
	}

	opaque := false
	for _, sub := range Walk(p) {
		d, ok := o.deltas[sub]
		if !ok {
			if opaque {
				return entry{kind: absent}
			}
			continue
		}
		if sub == p {
			switch d.kind {
			case addition:
				return entry{kind: fileEntry, data: d.data}
			case dirAddition:
				return entry{kind: dirEntry}
			default:
				return entry{kind: absent}
			}
		}
		if d.kind != dirAddition {
			return entry{kind: absent}
		}
		opaque = true
	}

	switch {
	case o.underlay.IsDir(p):
		return entry{kind: dirEntry, underlying: true}
	case o.underlay.Exists(p):
		return entry{kind: fileEntry, underlying: true}
	default:
		return entry{kind: absent}
	}
}

func (o *Overlay) AbsPath(p string) string {
	return o.underlay.AbsPath(p)
}

func (o *Overlay) Exists(p string) bool {
	return o.lookup(p).kind != absent
}

func (o *Overlay) IsDir(p string) bool {
	return o.lookup(p).kind == dirEntry
}

func (o *Overlay) OpenRead(p string) (io.ReadCloser, error) {
	e := o.lookup(p)
	switch {
	case e.kind == absent:
		return nil, pathError("open", p, ErrNotFound)
	case e.kind == dirEntry:
		return nil, pathError("open", p, ErrIsDirectory)
	case e.underlying:
		return o.underlay.OpenRead(p)
	default:
		return io.NopCloser(bytes.NewReader(e.data)), nil
	}
}

func (o *Overlay) OpenWrite(p string) (io.WriteCloser, error) {
	p = Clean(p)
	if o.lookup(p).kind == dirEntry {
		return nil, pathError("write", p, ErrIsDirectory)
	}
	if err := o.MakeDirs(Parent(p)); err != nil {
		return nil, err
	}
	return newBufferedWriter(func(data []byte) error {
		o.deltas[p] = delta{kind: addition, data: data}
		return nil
	}), nil
}

// Remove records the removal of p and forgets every change below it.
func (o *Overlay) Remove(p string) error {
	p = Clean(p)
	if p == "" {
		return pathError("remove", p, fs.ErrInvalid)
	}
	prefix := p + "/"
	for deltaPath := range o.deltas {
		if strings.HasPrefix(deltaPath, prefix) {
			delete(o.deltas, deltaPath)
		}
	}
	o.deltas[p] = delta{kind: removal}
	return nil
}

func (o *Overlay) Rename(oldPath, newPath string) error {
	oldPath, newPath = Clean(oldPath), Clean(newPath)
	e := o.lookup(oldPath)
	switch e.kind {
	case absent:
		return pathError("rename", oldPath, ErrNotFound)
	case dirEntry:
		return pathError("rename", oldPath, ErrIsDirectory)
	}
	if o.Exists(newPath) {
		return pathError("rename", newPath, ErrAlreadyExists)
	}

	data := e.data
	if e.underlying {
		var err error
		if data, err = ReadAll(o.underlay, oldPath); err != nil {
			return fmt.Errorf("rename %s: %w", oldPath, err)
		}
	}
	if err := o.MakeDirs(Parent(newPath)); err != nil {
		return err
	}
	o.deltas[newPath] = delta{kind: addition, data: data}
	return o.Remove(oldPath)
}

func (o *Overlay) List(pattern string) ([]string, error) {
	pattern = Clean(pattern)
	underlayMatches, err := o.underlay.List(pattern)
	if err != nil {
		return nil, err
	}
	candidates := make(map[string]struct{}, len(underlayMatches))
	for _, p := range underlayMatches {
		candidates[p] = struct{}{}
	}
	for p := range o.deltas {
		candidates[p] = struct{}{}
	}

	all := make([]string, 0, len(candidates))
	for p := range candidates {
		all = append(all, p)
	}
	matches, err := matchAll(pattern, all)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", pattern, err)
	}

	existing := matches[:0]
	for _, p := range matches {
		if o.Exists(p) {
			existing = append(existing, p)
		}
	}
	return existing, nil
}

// MakeDirs adds a directory marker for each missing ancestor of p, top down.
func (o *Overlay) MakeDirs(p string) error {
	for _, sub := range Walk(p) {
		switch o.lookup(sub).kind {
		case absent:
			o.deltas[sub] = delta{kind: dirAddition}
		case fileEntry:
			return pathError("mkdir", p, fmt.Errorf("%w: %s is a file", ErrNotDirectory, sub))
		}
	}
	return nil
}
