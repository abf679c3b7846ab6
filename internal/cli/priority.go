package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewPriorityCommand creates the priority command.
func NewPriorityCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <name> [priority]",
		Short: "Query or change the priority of a feature",
		Long: `Query or change the priority of a feature within its status.

Priority 1 is the most important. Priorities beyond the end of the status
move the feature to the end.

Example:
  deft priority login-page
  deft priority login-page 1`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rank int
			if len(args) == 2 {
				var err error
				if rank, err = strconv.Atoi(args[1]); err != nil {
					return NewExitError(ExitUserError, fmt.Sprintf("invalid priority %q: must be an integer", args[1]))
				}
				if rank < 1 {
					return NewExitError(ExitUserError, fmt.Sprintf("invalid priority %d: must be at least 1", rank))
				}
			}

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
				if err := tr.ChangePriority(f, rank); err != nil {
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
			return out.Success(f.Priority())
		},
	}
}
