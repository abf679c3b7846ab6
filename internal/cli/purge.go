package cli

import (
	"github.com/spf13/cobra"
)

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <name>...",
		Short: "Delete one or more features",
		Long: `Delete one or more features and their files.

Features are purged in the order given; the command stops at the first
name that is not a feature.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := rootOpts.loadTracker(cmd)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := tr.Purge(name); err != nil {
					return err
				}
			}
			out := rootOpts.formatter(cmd)
			if out.JSON() {
				return out.Success(map[string][]string{"purged": args})
			}
			return nil
		},
	}
}
