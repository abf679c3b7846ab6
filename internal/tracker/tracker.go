package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/index"
	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/warn"
)

// Tracker is a loaded feature store. Every mutating method persists its
// effect before returning.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	cfg      Config
	st       storage.Storage
	layout   layout
	features map[string]*Feature
	buckets  map[string]*index.PriorityIndex
}

// CreateOptions holds the optional attributes of a new feature.
type CreateOptions struct {
	// Status defaults to the configured initial status.
	Status string

	// Priority moves the new feature to this rank. Zero leaves it at the
	// end of its bucket.
	Priority int

	Description string
	Properties  *Properties
}

// New loads the tracker stored in st. Inconsistencies between index files
// and feature records are repaired, reported to sink and written back. A
// nil sink discards warnings.
func New(cfg Config, st storage.Storage, sink warn.Sink) (*Tracker, error) {
	if cfg.Format != FormatVersion {
		return nil, NewUserError(CodeIncompatibleFormat,
			"incompatible tracker: found data in format version %s, requires data in format version %s",
			cfg.Format, FormatVersion)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = warn.Discard
	}

	t := &Tracker{
		cfg:      cfg,
		st:       st,
		layout:   layout{dataDir: storage.Clean(cfg.DataDir)},
		features: make(map[string]*Feature),
	}

	s, err := indexStorage(st, t.layout, sink)
	if err != nil {
		return nil, err
	}
	t.buckets = s.buckets
	for name, status := range s.statuses {
		t.features[name] = &Feature{tracker: t, name: name, status: status}
	}

	repaired := make([]string, 0, len(s.repaired))
	for status := range s.repaired {
		repaired = append(repaired, status)
	}
	sort.Strings(repaired)
	for _, status := range repaired {
		if err := t.saveIndex(status); err != nil {
			return nil, err
		}
		slog.Info("repaired status index", "status", status, "features", t.bucketLen(status))
	}

	slog.Debug("tracker loaded", "datadir", cfg.DataDir, "features", len(t.features), "statuses", len(t.buckets))
	return t, nil
}

// Load reads the configuration from st and loads the tracker.
func Load(st storage.Storage, sink warn.Sink) (*Tracker, error) {
	cfg, err := LoadConfig(st)
	if err != nil {
		return nil, err
	}
	return New(cfg, st, sink)
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Storage returns the storage the tracker reads and writes.
func (t *Tracker) Storage() storage.Storage {
	return t.st
}

// Configure changes the initial status of new features and saves the
// configuration.
func (t *Tracker) Configure(initialStatus string) error {
	status, err := NormalizeName("status", initialStatus)
	if err != nil {
		return err
	}
	cfg := t.cfg
	cfg.InitialStatus = status
	if err := SaveConfig(t.st, cfg); err != nil {
		return err
	}
	t.cfg = cfg
	return nil
}

// Create adds a feature. Its record files are written before it is added
// to the index of its status, so an interrupted create leaves a record
// that the next load moves to lost+found.
func (t *Tracker) Create(name string, opts CreateOptions) (*Feature, error) {
	name, err := NormalizeName("feature", name)
	if err != nil {
		return nil, err
	}
	if _, exists := t.features[name]; exists {
		return nil, NewUserError(CodeDuplicateName, "a feature already exists with name: %s", name)
	}
	status := t.cfg.InitialStatus
	if opts.Status != "" {
		if status, err = NormalizeName("status", opts.Status); err != nil {
			return nil, err
		}
	}
	if opts.Properties != nil {
		if err := opts.Properties.Validate(); err != nil {
			return nil, err
		}
	}

	f := &Feature{tracker: t, name: name, status: status}
	if err := f.SetDescription(opts.Description); err != nil {
		return nil, err
	}
	if opts.Properties != nil && opts.Properties.Len() > 0 {
		if err := f.SetProperties(opts.Properties); err != nil {
			return nil, err
		}
	}

	bucket := t.bucket(status)
	if _, err := bucket.Append(name); err != nil {
		return nil, err
	}
	if opts.Priority > 0 {
		if _, err := bucket.ChangeRank(name, opts.Priority); err != nil {
			return nil, err
		}
	}
	t.features[name] = f
	if err := t.saveIndex(status); err != nil {
		return nil, err
	}

	slog.Debug("feature created", "feature", name, "status", status, "priority", f.Priority())
	return f, nil
}

// FeatureNamed returns the feature with the given name.
func (t *Tracker) FeatureNamed(name string) (*Feature, error) {
	if f, ok := t.features[nfc(name)]; ok {
		return f, nil
	}
	return nil, NewUserError(CodeNoSuchFeature, "no feature named %s", name)
}

// FeaturesWithStatus returns the features with the given status in
// priority order.
func (t *Tracker) FeaturesWithStatus(status string) []*Feature {
	bucket, ok := t.buckets[nfc(status)]
	if !ok {
		return nil
	}
	features := make([]*Feature, 0, bucket.Len())
	for _, name := range bucket.All() {
		features = append(features, t.features[name])
	}
	return features
}

// AllFeatures returns every feature ordered by status name, then priority.
func (t *Tracker) AllFeatures() []*Feature {
	var features []*Feature
	for _, status := range t.Statuses() {
		features = append(features, t.FeaturesWithStatus(status)...)
	}
	return features
}

// Statuses returns the sorted names of all statuses that have features.
func (t *Tracker) Statuses() []string {
	statuses := make([]string, 0, len(t.buckets))
	for status, bucket := range t.buckets {
		if bucket.Len() > 0 {
			statuses = append(statuses, status)
		}
	}
	sort.Strings(statuses)
	return statuses
}

// BulkChangeStatus moves every feature with status from to status to,
// keeping their relative order below any features already there.
func (t *Tracker) BulkChangeStatus(from, to string) error {
	from = nfc(from)
	to, err := NormalizeName("status", to)
	if err != nil {
		return err
	}
	src, ok := t.buckets[from]
	if !ok || from == to {
		return nil
	}
	dst := t.bucket(to)
	for _, name := range src.All() {
		if _, err := dst.Append(name); err != nil {
			return err
		}
		t.features[name].status = to
	}
	delete(t.buckets, from)
	if err := t.saveIndex(to); err != nil {
		return err
	}
	slog.Debug("bulk status change", "from", from, "to", to, "features", src.Len())
	return t.saveIndex(from)
}

// Rename gives f a new name, keeping its status, priority and records.
// Record files are moved one at a time; if a move fails, the files already
// moved are moved back.
func (t *Tracker) Rename(f *Feature, newName string) error {
	if err := t.owns(f); err != nil {
		return err
	}
	newName, err := NormalizeName("feature", newName)
	if err != nil {
		return err
	}
	if newName == f.name {
		return nil
	}
	if _, exists := t.features[newName]; exists {
		return NewUserError(CodeDuplicateName, "a feature already exists with name: %s", newName)
	}

	var moved []field
	for _, fld := range recordFields {
		oldPath := t.layout.recordPath(f.name, fld)
		if !t.st.Exists(oldPath) {
			continue
		}
		if err := t.st.Rename(oldPath, t.layout.recordPath(newName, fld)); err != nil {
			t.rollbackRename(f.name, newName, moved)
			return fmt.Errorf("rename %s to %s: %w", f.name, newName, err)
		}
		moved = append(moved, fld)
	}

	if err := t.buckets[f.status].Rename(f.name, newName); err != nil {
		return err
	}
	delete(t.features, f.name)
	oldName := f.name
	f.name = newName
	t.features[newName] = f
	if err := t.saveIndex(f.status); err != nil {
		return err
	}
	slog.Debug("feature renamed", "from", oldName, "to", newName)
	return nil
}

func (t *Tracker) rollbackRename(oldName, newName string, moved []field) {
	for i := len(moved) - 1; i >= 0; i-- {
		if err := t.st.Rename(t.layout.recordPath(newName, moved[i]), t.layout.recordPath(oldName, moved[i])); err != nil {
			slog.Error("rollback of rename failed", "feature", oldName, "field", moved[i].name, "error", err)
		}
	}
}

// ChangeStatus moves f to the end of another status's bucket.
func (t *Tracker) ChangeStatus(f *Feature, status string) error {
	if err := t.owns(f); err != nil {
		return err
	}
	status, err := NormalizeName("status", status)
	if err != nil {
		return err
	}
	if status == f.status {
		return nil
	}
	oldStatus := f.status
	t.buckets[oldStatus].Remove(f.name)
	if _, err := t.bucket(status).Append(f.name); err != nil {
		return err
	}
	f.status = status
	if err := t.saveIndex(status); err != nil {
		return err
	}
	slog.Debug("status changed", "feature", f.name, "from", oldStatus, "to", status)
	return t.saveIndex(oldStatus)
}

// ChangePriority moves f to the given rank within its bucket. Ranks
// outside the bucket are clamped to the first or last position.
func (t *Tracker) ChangePriority(f *Feature, rank int) error {
	if err := t.owns(f); err != nil {
		return err
	}
	bucket := t.buckets[f.status]
	if rank == bucket.RankOf(f.name) {
		return nil
	}
	if _, err := bucket.ChangeRank(f.name, rank); err != nil {
		return err
	}
	slog.Debug("priority changed", "feature", f.name, "status", f.status, "priority", bucket.RankOf(f.name))
	return t.saveIndex(f.status)
}

// Purge deletes a feature and its record files. The record files are
// removed first, so an interrupted purge leaves an index entry that the
// next load drops.
func (t *Tracker) Purge(name string) error {
	f, err := t.FeatureNamed(name)
	if err != nil {
		return err
	}
	for _, fld := range recordFields {
		if err := t.st.Remove(t.layout.recordPath(f.name, fld)); err != nil {
			return fmt.Errorf("purge %s: %w", f.name, err)
		}
	}
	t.buckets[f.status].Remove(f.name)
	delete(t.features, f.name)
	if err := t.saveIndex(f.status); err != nil {
		return err
	}
	slog.Debug("feature purged", "feature", f.name)
	return nil
}

func (t *Tracker) owns(f *Feature) error {
	if f == nil || t.features[f.name] != f {
		name := "<nil>"
		if f != nil {
			name = f.name
		}
		return NewUserError(CodeNoSuchFeature, "no feature named %s", name)
	}
	return nil
}

func (t *Tracker) bucket(status string) *index.PriorityIndex {
	b, ok := t.buckets[status]
	if !ok {
		b = index.New()
		t.buckets[status] = b
	}
	return b
}

func (t *Tracker) bucketLen(status string) int {
	if b, ok := t.buckets[status]; ok {
		return b.Len()
	}
	return 0
}

// saveIndex writes the index file of a status, or removes it if the
// bucket is empty.
func (t *Tracker) saveIndex(status string) error {
	p := t.layout.indexPath(status)
	bucket, ok := t.buckets[status]
	if !ok || bucket.Len() == 0 {
		delete(t.buckets, status)
		if err := t.st.Remove(p); err != nil {
			return fmt.Errorf("remove index of %s: %w", status, err)
		}
		return nil
	}
	if err := format.Write(t.st, p, format.Lines, bucket.Names()); err != nil {
		return fmt.Errorf("save index of %s: %w", status, err)
	}
	return nil
}

// readField loads a record file. A missing file yields the zero value.
func (t *Tracker) readField(name string, fld field, v any) error {
	err := format.Read(t.st, t.layout.recordPath(name, fld), fld.format, v)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func (t *Tracker) writeField(name string, fld field, v any) error {
	return format.Write(t.st, t.layout.recordPath(name, fld), fld.format, v)
}
