package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/tracker"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	DataDir       string
	InitialStatus string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialise an empty tracker in the current directory",
		Long: `Initialise an empty tracker in the current directory.

The tracker configuration is written to .deft/config. Features are stored
below the data directory, "tracker" unless --data-dir is given.

Example:
  deft init
  deft init --data-dir features --initial-status backlog`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.DataDir, "data-dir", "d", "", "the directory in which features are stored")
	cmd.Flags().StringVarP(&opts.InitialStatus, "initial-status", "i", "", "the default initial status for new features")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	dir, err := opts.workDir()
	if err != nil {
		return err
	}
	tr, err := tracker.Init(storage.NewFileStorage(dir), tracker.Config{
		DataDir:       opts.DataDir,
		InitialStatus: opts.InitialStatus,
	})
	if err != nil {
		return err
	}

	out := opts.formatter(cmd)
	if out.JSON() {
		return out.Success(map[string]any{"directory": dir, "config": tr.Config()})
	}
	return out.Success("initialised Deft tracker")
}
