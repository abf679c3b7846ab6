package testutil

import (
	"testing"

	"github.com/roach88/deft/internal/storage"
)

// MemFixture returns a writable in-memory storage holding files, keyed by
// slash-separated path.
func MemFixture(t testing.TB, files map[string]string) *storage.MemStorage {
	t.Helper()
	st := storage.NewMemStorage("/fixture")
	WriteFiles(t, st, files)
	return st
}

// WriteFiles writes each file into st, failing the test on error.
func WriteFiles(t testing.TB, st storage.Storage, files map[string]string) {
	t.Helper()
	for p, content := range files {
		if err := storage.WriteAll(st, p, []byte(content)); err != nil {
			t.Fatalf("write fixture %s: %v", p, err)
		}
	}
}
