package history

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/deft/internal/warn"
)

// maxConcurrentLoads bounds the snapshots loaded at once by CumulativeFlow.
const maxConcurrentLoads = 4

// FlowRow holds the feature count of each bucket at the end of one day.
type FlowRow struct {
	Date     string `json:"date"`
	Snapshot string `json:"snapshot"`
	Counts   []int  `json:"counts"`
}

// CumulativeFlow counts, for the last snapshot of each day, the features
// in each bucket. A bucket is a set of statuses; Counts[i] of every row is
// the number of features whose status is in buckets[i].
//
// Snapshots are loaded concurrently. A snapshot that cannot be loaded
// counts as empty and is reported to sink as a
// failed_to_load_historical_data warning. Repairs made while loading a
// snapshot are reported with the snapshot's date. Warnings are delivered
// in date order after all snapshots are loaded.
func CumulativeFlow(ctx context.Context, s *Store, buckets [][]string, sink warn.Sink) ([]FlowRow, error) {
	if sink == nil {
		sink = warn.Discard
	}
	days, err := s.EndOfDay(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]FlowRow, len(days))
	repairs := make([]*warn.Recorder, len(days))
	failures := make([]error, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, snap := range days {
		rows[i] = FlowRow{Date: snap.Date(), Snapshot: snap.ID, Counts: make([]int, len(buckets))}
		repairs[i] = &warn.Recorder{}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := s.Storage(gctx, snap.ID)
			if err != nil {
				failures[i] = err
				return nil
			}
			tr, err := LoadTracker(st, repairs[i])
			if err != nil {
				failures[i] = err
				return nil
			}
			for j, statuses := range buckets {
				for _, status := range statuses {
					rows[i].Counts[j] += len(tr.FeaturesWithStatus(status))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, row := range rows {
		for _, w := range repairs[i].Warnings() {
			w.Date = row.Date
			if err := sink.Warn(w); err != nil {
				return nil, err
			}
		}
		if failures[i] != nil {
			err := sink.Warn(warn.Warning{Kind: warn.FailedToLoadHistoricalData, Date: row.Date, Err: failures[i]})
			if err != nil {
				return nil, err
			}
		}
	}
	return rows, nil
}
