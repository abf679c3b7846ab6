package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <name> [status]",
		Short: "Query or change the status of a feature",
		Long: `Query or change the status of a feature.

A feature that changes status goes to the end of its new status.

Example:
  deft status login-page
  deft status login-page done`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := rootOpts.loadTracker(cmd)
			if err != nil {
				return err
			}
			f, err := tr.FeatureNamed(args[0])
			if err != nil {
				return err
			}
			out := rootOpts.formatter(cmd)
			if len(args) == 2 {
				if err := tr.ChangeStatus(f, args[1]); err != nil {
					return err
				}
				if out.JSON() {
					return out.Success(viewOf(f))
				}
				return nil
			}
			if out.JSON() {
				return out.Success(viewOf(f))
			}
			return out.Success(f.Status())
		},
	}
}
