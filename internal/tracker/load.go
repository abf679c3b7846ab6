package tracker

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/index"
	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/warn"
)

// snapshot is the in-memory state derived from a tracker's files.
type snapshot struct {
	// statuses maps each known feature name to its status.
	statuses map[string]string

	// buckets maps each status to its priority index.
	buckets map[string]*index.PriorityIndex

	// repaired names the statuses whose index differs from its file.
	repaired map[string]bool
}

// indexStorage reads every index file and feature record under l and
// reconciles them. It never writes: buckets that had
// to be repaired are listed in the result for the caller to persist.
func indexStorage(st storage.Storage, l layout, sink warn.Sink) (*snapshot, error) {
	records, err := l.records(st)
	if err != nil {
		return nil, err
	}

	s := &snapshot{
		statuses: make(map[string]string),
		buckets:  make(map[string]*index.PriorityIndex),
		repaired: make(map[string]bool),
	}

	indexFiles, err := st.List(l.indexPath("*"))
	if err != nil {
		return nil, fmt.Errorf("list index files: %w", err)
	}
	for _, p := range indexFiles {
		status := norm.NFC.String(strings.TrimSuffix(path.Base(p), indexSuffix))
		var names []string
		if err := format.Read(st, p, format.Lines, &names); err != nil {
			return nil, err
		}
		bucket := s.bucket(status)
		for _, name := range names {
			name = norm.NFC.String(name)
			if _, known := s.statuses[name]; known {
				s.repaired[status] = true
				if err := sink.Warn(warn.Warning{Kind: warn.DuplicateEntries, Feature: name, Status: status}); err != nil {
					return nil, err
				}
				continue
			}
			if !records[name] {
				s.repaired[status] = true
				if err := sink.Warn(warn.Warning{Kind: warn.UnknownFeature, Feature: name, Status: status}); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := bucket.Append(name); err != nil {
				return nil, err
			}
			s.statuses[name] = status
		}
		if bucket.Len() == 0 {
			s.repaired[status] = true
		}
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, known := s.statuses[name]; known {
			continue
		}
		if _, err := s.bucket(LostAndFound).Append(name); err != nil {
			return nil, err
		}
		s.statuses[name] = LostAndFound
		s.repaired[LostAndFound] = true
		if err := sink.Warn(warn.Warning{Kind: warn.UnindexedFeature, Feature: name}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *snapshot) bucket(status string) *index.PriorityIndex {
	b, ok := s.buckets[status]
	if !ok {
		b = index.New()
		s.buckets[status] = b
	}
	return b
}
