package index

import (
	"fmt"
	"slices"
)

// PriorityIndex is an ordered sequence of feature names. Ranks are 1-based
// and dense: the i-th name (0-based) always has rank i+1, and no name
// appears twice.
//
// Rank lookups use a name-to-rank map that is rebuilt on the first query
// after a structural change.
type PriorityIndex struct {
	names []string
	ranks map[string]int
}

// New creates an index holding names in rank order. Duplicate names are
// kept only at their first position.
func New(names ...string) *PriorityIndex {
	idx := &PriorityIndex{}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			idx.names = append(idx.names, name)
		}
	}
	return idx
}

// Len returns the number of names.
func (idx *PriorityIndex) Len() int {
	return len(idx.names)
}

// Names returns a copy of the names in rank order.
func (idx *PriorityIndex) Names() []string {
	return slices.Clone(idx.names)
}

// All iterates over the names in rank order, yielding each rank and name.
func (idx *PriorityIndex) All() func(yield func(int, string) bool) {
	return func(yield func(int, string) bool) {
		for i, name := range idx.names {
			if !yield(i+1, name) {
				return
			}
		}
	}
}

// Contains reports whether name is in the index.
func (idx *PriorityIndex) Contains(name string) bool {
	_, ok := idx.lookup()[name]
	return ok
}

// RankOf returns the rank of name, or 0 if it is not in the index.
func (idx *PriorityIndex) RankOf(name string) int {
	return idx.lookup()[name]
}

// NameAt returns the name with the given rank.
func (idx *PriorityIndex) NameAt(rank int) (string, bool) {
	if rank < 1 || rank > len(idx.names) {
		return "", false
	}
	return idx.names[rank-1], true
}

// Append adds name with the lowest priority and returns its rank. It
// fails if name is already in the index.
func (idx *PriorityIndex) Append(name string) (int, error) {
	if idx.Contains(name) {
		return 0, fmt.Errorf("append %q: already in index", name)
	}
	idx.names = append(idx.names, name)
	idx.invalidate()
	return len(idx.names), nil
}

// Insert adds name at rank, clamped to [1, Len()+1]. The name previously at
// that rank and everything below it move down by one. It returns the rank
// the name was given, and fails if name is already in the index.
func (idx *PriorityIndex) Insert(name string, rank int) (int, error) {
	if idx.Contains(name) {
		return 0, fmt.Errorf("insert %q: already in index", name)
	}
	return idx.insert(name, rank), nil
}

func (idx *PriorityIndex) insert(name string, rank int) int {
	rank = max(1, min(rank, len(idx.names)+1))
	idx.names = slices.Insert(idx.names, rank-1, name)
	idx.invalidate()
	return rank
}

// Remove deletes name, moving everything below it up by one. It reports
// whether the name was present.
func (idx *PriorityIndex) Remove(name string) bool {
	rank := idx.RankOf(name)
	if rank == 0 {
		return false
	}
	idx.names = slices.Delete(idx.names, rank-1, rank)
	idx.invalidate()
	return true
}

// Rename replaces oldName with newName at the same rank.
func (idx *PriorityIndex) Rename(oldName, newName string) error {
	rank := idx.RankOf(oldName)
	if rank == 0 {
		return fmt.Errorf("rename %q: not in index", oldName)
	}
	if oldName == newName {
		return nil
	}
	if idx.Contains(newName) {
		return fmt.Errorf("rename %q: %q already in index", oldName, newName)
	}
	idx.names[rank-1] = newName
	idx.invalidate()
	return nil
}

// ChangeRank moves name to rank by removing it and inserting it again. The
// index is left untouched when the rank does not change. It returns the
// name's new rank.
func (idx *PriorityIndex) ChangeRank(name string, rank int) (int, error) {
	current := idx.RankOf(name)
	if current == 0 {
		return 0, fmt.Errorf("change rank of %q: not in index", name)
	}
	if rank == current {
		return current, nil
	}
	idx.Remove(name)
	return idx.insert(name, rank), nil
}

func (idx *PriorityIndex) lookup() map[string]int {
	if idx.ranks == nil {
		idx.ranks = make(map[string]int, len(idx.names))
		for i, name := range idx.names {
			idx.ranks[name] = i + 1
		}
	}
	return idx.ranks
}

func (idx *PriorityIndex) invalidate() {
	idx.ranks = nil
}

func (idx *PriorityIndex) String() string {
	return fmt.Sprintf("PriorityIndex%q", idx.names)
}
