package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/history"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	List bool
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot [label]",
		Short: "Record the current state of the tracker in its history",
		Long: `Record the current state of the tracker in its history database.

The database is .deft/history.db unless DEFT_HISTORY names another file.
The last snapshot of each day is used by the cfd command.

Example:
  deft snapshot "end of sprint 4"
  deft snapshot --list`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.List, "list", "l", false, "list recorded snapshots")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, args []string, cmd *cobra.Command) error {
	hs, err := opts.openHistory()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := hs.Close(); closeErr != nil {
			slog.Error("error closing history database", "error", closeErr)
		}
	}()

	out := opts.formatter(cmd)
	if opts.List {
		snaps, err := hs.Snapshots(cmd.Context())
		if err != nil {
			return err
		}
		if out.JSON() {
			return out.Success(snaps)
		}
		rows := make([]row, 0, len(snaps))
		for _, s := range snaps {
			rows = append(rows, row{s.Seq, s.TakenAt.UTC().Format(time.RFC3339), s.Files, s.ID, s.Label})
		}
		return writeRows(out.Writer, opts.Format, rows)
	}

	st, _, err := opts.openStorage()
	if err != nil {
		return err
	}
	var label string
	if len(args) == 1 {
		label = args[0]
	}
	snap, err := hs.Capture(cmd.Context(), st, label)
	if err != nil {
		return err
	}
	if out.JSON() {
		return out.Success(snap)
	}
	return out.Success(fmt.Sprintf("snapshot %d %s", snap.Seq, snap.ID))
}

// openHistory opens the history database of the enclosing tracker.
func (o *RootOptions) openHistory() (*history.Store, error) {
	root, err := o.trackerRoot()
	if err != nil {
		return nil, err
	}
	s, err := o.loadSettings()
	if err != nil {
		return nil, err
	}
	var hopts []history.Option
	if o.Clock != nil {
		hopts = append(hopts, history.WithClock(o.Clock))
	}
	hs, err := history.Open(s.HistoryPath(root), hopts...)
	if err != nil {
		return nil, WrapExitError(ExitUnexpected, "failed to open history database", err)
	}
	return hs, nil
}
