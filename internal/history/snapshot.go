package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/tracker"
	"github.com/roach88/deft/internal/upgrade"
)

// ErrSnapshotNotFound is returned for an unknown snapshot id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one captured copy of a tracker's files.
type Snapshot struct {
	ID      string    `json:"id"`
	Seq     int64     `json:"seq"`
	TakenAt time.Time `json:"taken_at"`
	Label   string    `json:"label,omitempty"`
	Files   int       `json:"files"`
}

// Date returns the UTC calendar day of the snapshot as YYYY-MM-DD.
func (s Snapshot) Date() string {
	return s.TakenAt.UTC().Format(time.DateOnly)
}

// Capture copies the tracker config and data directory of st into a new
// snapshot. Trackers in any format version can be captured.
func (s *Store) Capture(ctx context.Context, st storage.Storage, label string) (Snapshot, error) {
	cfg, err := upgrade.LoadConfig(st)
	if err != nil {
		return Snapshot{}, err
	}
	paths := []string{tracker.ConfigFile}
	data, err := collectFiles(st, cfg.DataDir())
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture: %w", err)
	}
	paths = append(paths, data...)

	id, err := uuid.NewV7()
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture: %w", err)
	}
	snap := Snapshot{
		ID:      id.String(),
		TakenAt: s.clock.Now().UTC(),
		Label:   label,
		Files:   len(paths),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`).Scan(&snap.Seq); err != nil {
		return Snapshot{}, fmt.Errorf("capture: next seq: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, seq, taken_at, label)
		VALUES (?, ?, ?, ?)
	`, snap.ID, snap.Seq, snap.TakenAt.UnixNano(), snap.Label)
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture: insert snapshot: %w", err)
	}

	for _, p := range paths {
		content, err := storage.ReadAll(st, p)
		if err != nil {
			return Snapshot{}, fmt.Errorf("capture: %w", err)
		}
		if content == nil {
			// a nil slice would be stored as NULL
			content = []byte{}
		}
		sum := sha256.Sum256(content)
		hash := hex.EncodeToString(sum[:])
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blobs (hash, content) VALUES (?, ?)
			ON CONFLICT(hash) DO NOTHING
		`, hash, content); err != nil {
			return Snapshot{}, fmt.Errorf("capture: insert blob: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_files (snapshot_id, path, hash) VALUES (?, ?, ?)
		`, snap.ID, p, hash); err != nil {
			return Snapshot{}, fmt.Errorf("capture: insert file %s: %w", p, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("capture: commit: %w", err)
	}
	return snap, nil
}

// collectFiles returns every file below dir in st.
func collectFiles(st storage.Storage, dir string) ([]string, error) {
	if !st.IsDir(dir) {
		return nil, nil
	}
	entries, err := st.List(path.Join(dir, "*"))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if st.IsDir(e) {
			sub, err := collectFiles(st, e)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		files = append(files, e)
	}
	return files, nil
}

// Snapshots returns all snapshots in capture order.
func (s *Store) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.seq, s.taken_at, s.label, COUNT(f.path)
		FROM snapshots s
		LEFT JOIN snapshot_files f ON f.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		var takenAt int64
		if err := rows.Scan(&snap.ID, &snap.Seq, &takenAt, &snap.Label, &snap.Files); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.TakenAt = time.Unix(0, takenAt).UTC()
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// EndOfDay returns the latest snapshot of each calendar day (UTC), oldest
// day first.
func (s *Store) EndOfDay(ctx context.Context) ([]Snapshot, error) {
	all, err := s.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]Snapshot)
	var days []string
	for _, snap := range all {
		day := snap.Date()
		prev, seen := latest[day]
		if !seen {
			days = append(days, day)
		}
		if !seen || snap.TakenAt.After(prev.TakenAt) ||
			(snap.TakenAt.Equal(prev.TakenAt) && snap.Seq > prev.Seq) {
			latest[day] = snap
		}
	}
	sort.Strings(days)
	result := make([]Snapshot, len(days))
	for i, day := range days {
		result[i] = latest[day]
	}
	return result, nil
}

// Storage returns a read-only view of a snapshot's files. File content is
// read from the database when a file is opened.
func (s *Store) Storage(ctx context.Context, id string) (*storage.TreeStorage, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM snapshots WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, hash FROM snapshot_files
		WHERE snapshot_id = ?
		ORDER BY path COLLATE BINARY ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot files: %w", err)
	}
	defer rows.Close()

	files := make(map[string]storage.Blob)
	for rows.Next() {
		var p, hash string
		if err := rows.Scan(&p, &hash); err != nil {
			return nil, fmt.Errorf("scan snapshot file: %w", err)
		}
		files[p] = s.blob(ctx, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot files: %w", err)
	}
	return storage.NewTreeStorage(storage.BuildTree(files), "snapshot:"+id), nil
}

func (s *Store) blob(ctx context.Context, hash string) storage.Blob {
	return func() ([]byte, error) {
		var content []byte
		err := s.db.QueryRowContext(ctx, `SELECT content FROM blobs WHERE hash = ?`, hash).Scan(&content)
		if err != nil {
			return nil, fmt.Errorf("read blob %s: %w", hash, err)
		}
		return content, nil
	}
}
