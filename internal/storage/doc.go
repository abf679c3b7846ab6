// Package storage provides the file-like persistence layer used by the
// feature tracker.
//
// All paths handed to a Storage are slash-separated and relative to the
// storage's base. The empty path names the base itself. Paths are cleaned
// before use, so "a/./b" and "a/b" address the same entry and ".." can never
// escape the base.
//
// # Backends
//
//   - FileStorage: the real filesystem. Writes are atomic per file
//     (temporary file + rename), so a crash never leaves a half-written file.
//   - MemStorage: a map of path to content plus directory markers. Can be
//     switched to read-only, which makes it a convenient stand-in for
//     historical snapshots in tests.
//   - TreeStorage: a read-only view of an immutable tree of TreeNodes, such
//     as a snapshot captured by the history package.
//   - Overlay: a copy-on-write view over any Storage. Every mutation is
//     recorded as a delta in memory; the wrapped storage is never written.
//
// # Streams
//
// OpenRead and OpenWrite return streams that the caller must Close. Content
// written to a stream becomes visible when the stream is closed, which is
// also when write errors are reported. Callers close streams with defer
// before the enclosing operation returns; no handle outlives a call.
package storage
