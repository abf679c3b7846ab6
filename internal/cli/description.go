package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// DescriptionOptions holds flags for the description command.
type DescriptionOptions struct {
	*RootOptions
	Edit bool
	File bool
}

// NewDescriptionCommand creates the description command.
func NewDescriptionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescriptionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "description <name> [description]",
		Short: "Query, change or edit the long description of a feature",
		Long: `Query, change or edit the long description of a feature.

Example:
  deft description login-page
  deft description login-page "Users sign in with their email address"
  deft description --edit login-page`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescription(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Edit, "edit", "e", false, "edit the description")
	cmd.Flags().BoolVarP(&opts.File, "file", "f", false, "print the path of the description file")

	return cmd
}

func runDescription(opts *DescriptionOptions, args []string, cmd *cobra.Command) error {
	tr, err := opts.loadTracker(cmd)
	if err != nil {
		return err
	}
	f, err := tr.FeatureNamed(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		if err := f.SetDescription(args[1]); err != nil {
			return err
		}
	}

	out := opts.formatter(cmd)
	switch {
	case opts.Edit:
		return opts.edit(cmd, f.DescriptionFile())
	case opts.File:
		if out.JSON() {
			return out.Success(map[string]string{"name": f.Name(), "file": f.DescriptionFile()})
		}
		return out.Success(f.DescriptionFile())
	case len(args) == 2:
		return nil
	}

	description, err := f.Description()
	if err != nil {
		return err
	}
	if out.JSON() {
		return out.Success(map[string]string{"name": f.Name(), "description": description})
	}
	_, err = io.WriteString(out.Writer, description)
	return err
}
