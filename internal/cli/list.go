package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/tracker"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Statuses   []string
	Properties []string
	CSV        bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked features in order of priority",
		Long: `List tracked features in order of priority.

Each line shows the status, priority and name of a feature, followed by the
values of the properties named with --properties. Without --status every
feature is listed, grouped by status.

Example:
  deft list
  deft list --status doing,review --properties component
  deft list --csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Statuses, "status", "s", nil, "statuses to list (lists all features if none given)")
	cmd.Flags().StringSliceVarP(&opts.Properties, "properties", "p", nil, "properties to show for each feature")
	cmd.Flags().BoolVarP(&opts.CSV, "csv", "c", false, "output in CSV format (same as --format csv)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	tr, err := opts.loadTracker(cmd)
	if err != nil {
		return err
	}

	var features []*tracker.Feature
	if len(opts.Statuses) > 0 {
		for _, status := range opts.Statuses {
			features = append(features, tr.FeaturesWithStatus(status)...)
		}
	} else {
		features = tr.AllFeatures()
	}

	out := opts.formatter(cmd)
	if out.JSON() {
		views := make([]featureView, 0, len(features))
		for _, f := range features {
			view := viewOf(f)
			if len(opts.Properties) > 0 {
				if view.Properties, err = selectProperties(f, opts.Properties); err != nil {
					return err
				}
			}
			views = append(views, view)
		}
		return out.Success(views)
	}

	rows := make([]row, 0, len(features))
	for _, f := range features {
		r := row{f.Status(), f.Priority(), f.Name()}
		if len(opts.Properties) > 0 {
			props, err := f.Properties()
			if err != nil {
				return err
			}
			for _, name := range opts.Properties {
				r = append(r, props.Get(name))
			}
		}
		rows = append(rows, r)
	}
	format := opts.Format
	if opts.CSV {
		format = "csv"
	}
	return writeRows(out.Writer, format, rows)
}

// selectProperties returns the named properties of f that it has, in the
// order named.
func selectProperties(f *tracker.Feature, names []string) (*tracker.Properties, error) {
	props, err := f.Properties()
	if err != nil {
		return nil, err
	}
	selected := tracker.NewProperties()
	for _, name := range names {
		if props.Has(name) {
			if err := selected.Set(name, props.Values(name)...); err != nil {
				return nil, err
			}
		}
	}
	return selected, nil
}
