package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/warn"
)

func newTestTracker(t *testing.T) (*Tracker, *storage.MemStorage) {
	t.Helper()
	st := storage.NewMemStorage("/project")
	tr, err := Init(st, Config{})
	require.NoError(t, err)
	return tr, st
}

// reload loads the tracker again and fails the test on any repair.
func reload(t *testing.T, st storage.Storage) *Tracker {
	t.Helper()
	tr, err := Load(st, warn.Raiser)
	require.NoError(t, err)
	return tr
}

func create(t *testing.T, tr *Tracker, name string, opts CreateOptions) *Feature {
	t.Helper()
	f, err := tr.Create(name, opts)
	require.NoError(t, err)
	return f
}

func featureNames(features []*Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name()
	}
	return names
}

func priorities(features []*Feature) []int {
	ranks := make([]int, len(features))
	for i, f := range features {
		ranks[i] = f.Priority()
	}
	return ranks
}

func readFile(t *testing.T, st storage.Storage, p string) string {
	t.Helper()
	data, err := storage.ReadAll(st, p)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, st storage.Storage, p, content string) {
	t.Helper()
	require.NoError(t, storage.WriteAll(st, p, []byte(content)))
}
