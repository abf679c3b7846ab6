package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusesCommand creates the statuses command.
func NewStatusesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "statuses",
		Short:         "List all statuses that have features",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := rootOpts.loadTracker(cmd)
			if err != nil {
				return err
			}
			out := rootOpts.formatter(cmd)
			if out.JSON() {
				return out.Success(tr.Statuses())
			}
			for _, s := range tr.Statuses() {
				fmt.Fprintln(out.Writer, s)
			}
			return nil
		},
	}
}
