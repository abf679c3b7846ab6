package cli

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/history"
)

// CFDOptions holds flags for the cfd command.
type CFDOptions struct {
	*RootOptions
	Buckets []string
}

// NewCFDCommand creates the cfd command.
func NewCFDCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CFDOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cfd [status...]",
		Short: "Print the tracker history as cumulative flow data",
		Long: `Print the tracker history as cumulative flow data.

Each line holds a date followed by the number of features in each bucket at
the last snapshot of that day. Every status argument is a bucket of its
own; --bucket joins comma-separated statuses into one bucket. Columns are
printed in the reverse of the order given, so the first bucket named is
the last column.

Example:
  deft cfd done doing new
  deft cfd done --bucket doing,review new --csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCFD(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Buckets, "bucket", "b", nil, "treat the comma-separated statuses as a single bucket")

	return cmd
}

func runCFD(opts *CFDOptions, args []string, cmd *cobra.Command) error {
	var buckets [][]string
	for _, status := range args {
		buckets = append(buckets, []string{status})
	}
	for _, b := range opts.Buckets {
		buckets = append(buckets, strings.Split(b, ","))
	}
	if len(buckets) == 0 {
		return NewExitError(ExitUserError, "no status buckets defined")
	}
	slices.Reverse(buckets)

	hs, err := opts.openHistory()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := hs.Close(); closeErr != nil {
			slog.Error("error closing history database", "error", closeErr)
		}
	}()

	flow, err := history.CumulativeFlow(cmd.Context(), hs, buckets, opts.warnings(cmd))
	if err != nil {
		return err
	}

	out := opts.formatter(cmd)
	if out.JSON() {
		return out.Success(map[string]any{"buckets": buckets, "rows": flow})
	}
	rows := make([]row, 0, len(flow))
	for _, fr := range flow {
		r := row{fr.Date}
		for _, n := range fr.Counts {
			r = append(r, n)
		}
		rows = append(rows, r)
	}
	return writeRows(out.Writer, opts.Format, rows)
}
