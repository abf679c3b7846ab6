package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/tracker"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Status      string
	Priority    int
	Description string
	Properties  []string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new feature",
		Long: `Create a new feature.

The feature gets the initial status unless --status is given and goes to
the end of its status unless --priority is given. Without --description
the description file is opened in the editor.

Example:
  deft create login-page --status doing --priority 1 -d "Users sign in"
  deft create search --set component=web --set component=api`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "the initial status of the feature")
	cmd.Flags().IntVarP(&opts.Priority, "priority", "p", 0, "the initial priority of the feature")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "a longer description of the feature")
	cmd.Flags().StringArrayVarP(&opts.Properties, "set", "t", nil,
		"set a property of the feature, as NAME=VALUE (repeat a name for several values)")

	return cmd
}

func runCreate(opts *CreateOptions, name string, cmd *cobra.Command) error {
	if cmd.Flags().Changed("priority") && opts.Priority < 1 {
		return NewExitError(ExitUserError, fmt.Sprintf("invalid priority %d: must be at least 1", opts.Priority))
	}
	props := tracker.NewProperties()
	for _, assignment := range opts.Properties {
		key, value, err := parseAssignment(assignment)
		if err != nil {
			return err
		}
		if err := props.Append(key, value); err != nil {
			return err
		}
	}

	tr, err := opts.loadTracker(cmd)
	if err != nil {
		return err
	}
	f, err := tr.Create(name, tracker.CreateOptions{
		Status:      opts.Status,
		Priority:    opts.Priority,
		Description: opts.Description,
		Properties:  props,
	})
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("description") {
		if err := opts.edit(cmd, f.DescriptionFile()); err != nil {
			return err
		}
	}

	out := opts.formatter(cmd)
	if out.JSON() {
		view := viewOf(f)
		view.Properties = props
		return out.Success(view)
	}
	out.VerboseLog("created %s", f)
	return nil
}
