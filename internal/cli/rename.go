package cli

import (
	"github.com/spf13/cobra"
)

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <from-name> <to-name>",
		Short:         "Rename a feature",
		Args:          cobra.ExactArgs(2),
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
			if err := tr.Rename(f, args[1]); err != nil {
				return err
			}
			out := rootOpts.formatter(cmd)
			if out.JSON() {
				return out.Success(viewOf(f))
			}
			return nil
		},
	}
}
