package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/tracker"
)

// propertyChange is one --set or --remove, applied in command-line order.
type propertyChange struct {
	name   string
	value  string
	remove bool
}

// changeFlag records property changes for one of the --set and --remove
// flags into a list shared by both.
type changeFlag struct {
	changes *[]propertyChange
	remove  bool
}

func (c changeFlag) String() string {
	var parts []string
	for _, ch := range *c.changes {
		if ch.remove == c.remove {
			parts = append(parts, ch.name)
		}
	}
	return strings.Join(parts, ",")
}

func (c changeFlag) Set(s string) error {
	if c.remove {
		*c.changes = append(*c.changes, propertyChange{name: s, remove: true})
		return nil
	}
	name, value, err := parseAssignment(s)
	if err != nil {
		return err
	}
	*c.changes = append(*c.changes, propertyChange{name: name, value: value})
	return nil
}

func (c changeFlag) Type() string {
	if c.remove {
		return "NAME"
	}
	return "NAME=VALUE"
}

// PropertiesOptions holds flags for the properties command.
type PropertiesOptions struct {
	*RootOptions
	Edit    bool
	File    bool
	Print   []string
	Changes []propertyChange
}

// NewPropertiesCommand creates the properties command.
func NewPropertiesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PropertiesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "properties <name>",
		Short: "Query, change or edit the properties of a feature",
		Long: `Query, change or edit the properties of a feature.

Without flags, prints all properties as YAML. --set replaces every value of
a property; --set and --remove are applied in the order given.

Example:
  deft properties login-page
  deft properties login-page --print component
  deft properties login-page --set component=web --remove estimate
  deft properties --edit login-page`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProperties(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Edit, "edit", "e", false, "edit the properties in YAML format")
	cmd.Flags().BoolVarP(&opts.File, "file", "f", false, "print the path of the properties file")
	cmd.Flags().StringSliceVarP(&opts.Print, "print", "p", nil, "properties to print")
	cmd.Flags().VarP(changeFlag{changes: &opts.Changes}, "set", "s", "set a property value")
	cmd.Flags().VarP(changeFlag{changes: &opts.Changes, remove: true}, "remove", "r", "remove a property")

	return cmd
}

func runProperties(opts *PropertiesOptions, name string, cmd *cobra.Command) error {
	tr, err := opts.loadTracker(cmd)
	if err != nil {
		return err
	}
	f, err := tr.FeatureNamed(name)
	if err != nil {
		return err
	}

	out := opts.formatter(cmd)
	switch {
	case opts.Edit:
		return opts.edit(cmd, f.PropertiesFile())
	case opts.File:
		if out.JSON() {
			return out.Success(map[string]string{"name": f.Name(), "file": f.PropertiesFile()})
		}
		return out.Success(f.PropertiesFile())
	}

	props, err := f.Properties()
	if err != nil {
		return err
	}

	if len(opts.Changes) > 0 {
		for _, ch := range opts.Changes {
			if ch.remove {
				if !props.Has(ch.name) {
					return noSuchProperty(f, ch.name)
				}
				props.Delete(ch.name)
				continue
			}
			if err := props.Set(ch.name, ch.value); err != nil {
				return err
			}
		}
		if err := f.SetProperties(props); err != nil {
			return err
		}
		if out.JSON() {
			return out.Success(props)
		}
		return nil
	}

	if len(opts.Print) > 0 {
		for _, key := range opts.Print {
			if !props.Has(key) {
				return noSuchProperty(f, key)
			}
		}
		if out.JSON() {
			selected, err := selectProperties(f, opts.Print)
			if err != nil {
				return err
			}
			return out.Success(selected)
		}
		for _, key := range opts.Print {
			fmt.Fprintln(out.Writer, props.Get(key))
		}
		return nil
	}

	if out.JSON() {
		return out.Success(props)
	}
	if props.Len() == 0 {
		return nil
	}
	return format.YAML.Save(out.Writer, props)
}

func noSuchProperty(f *tracker.Feature, name string) error {
	return tracker.NewUserError(tracker.CodeNoSuchProperty,
		"feature %s does not have a property named '%s'", f.Name(), name)
}
