package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/format"
)

// ConfigureOptions holds flags for the configure command.
type ConfigureOptions struct {
	*RootOptions
	InitialStatus string
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the behaviour of the tracker",
		Long: `Configure the behaviour of the tracker.

Without flags, prints the current configuration.

Example:
  deft configure --initial-status backlog`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.InitialStatus, "initial-status", "i", "", "the default initial status for new features")

	return cmd
}

func runConfigure(opts *ConfigureOptions, cmd *cobra.Command) error {
	tr, err := opts.loadTracker(cmd)
	if err != nil {
		return err
	}
	if opts.InitialStatus != "" {
		if err := tr.Configure(opts.InitialStatus); err != nil {
			return err
		}
		return nil
	}

	out := opts.formatter(cmd)
	if out.JSON() {
		return out.Success(tr.Config())
	}
	return format.YAML.Save(out.Writer, tr.Config())
}
