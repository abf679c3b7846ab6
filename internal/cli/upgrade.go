package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/upgrade"
)

// NewUpgradeCommand creates the upgrade command.
func NewUpgradeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "upgrade",
		Aliases: []string{"upgrade-format"},
		Short:   "Upgrade the tracker to the format supported by this version",
		Long: `Upgrade the tracker's files to the format supported by this version of
deft. Trackers already in that format are left unchanged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := rootOpts.openStorage()
			if err != nil {
				return err
			}
			u := upgrade.Default()
			changed, err := u.Upgrade(st)
			if err != nil {
				return err
			}

			out := rootOpts.formatter(cmd)
			if out.JSON() {
				return out.Success(map[string]any{"format": u.Target(), "upgraded": changed})
			}
			if changed {
				return out.Success(fmt.Sprintf("upgraded tracker to format %s", u.Target()))
			}
			out.VerboseLog("tracker already in format %s", u.Target())
			return nil
		},
	}
}
