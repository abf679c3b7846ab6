// Package history records snapshots of a tracker and answers questions
// about how it changed over time.
//
// Snapshots live in a SQLite database separate from the tracker's own
// files. Capture copies the tracker config and data directory into the
// database, storing each distinct file content once under its SHA-256
// digest. Storage returns a read-only storage.TreeStorage over a snapshot
// whose file content is fetched on first read.
//
// Old snapshots may be in an older on-disk format. LoadTracker wraps a
// snapshot in a storage.Overlay and upgrades it there before loading, so
// the snapshot itself is never modified.
//
// # Database Configuration
//
//   - WAL mode, NORMAL synchronous, 5-second busy timeout
//   - Foreign key enforcement
//   - A single connection, shared by concurrent readers
//   - Schema version tracked in PRAGMA user_version
package history
