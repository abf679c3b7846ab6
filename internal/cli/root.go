package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/history"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "text" | "json" | "csv"
	Directory string

	// Editor opens a file for interactive editing. If nil, the command
	// named by the editor environment variables is run.
	Editor Editor

	// Clock stamps snapshots. If nil, the system clock is used.
	Clock history.Clock

	settings *Settings
	started  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "csv"}

// NewRootCommand creates the root command for the deft CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deft",
		Short: "Deft - the distributed, easy feature tracker",
		Long: `Deft tracks features as plain files kept alongside the code they
describe, so that the feature list is versioned, branched and merged with
the code.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.started = true
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitUserError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|csv)")
	cmd.PersistentFlags().StringVarP(&opts.Directory, "directory", "C", "",
		"run as if deft was started in this directory")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewConfigureCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewStatusesCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewPriorityCommand(opts))
	cmd.AddCommand(NewDescriptionCommand(opts))
	cmd.AddCommand(NewPropertiesCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))
	cmd.AddCommand(NewUpgradeCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewCFDCommand(opts))

	return cmd
}

// Execute runs the CLI with the given arguments and returns the process
// exit code. Errors are reported in the selected output format.
func Execute(args []string, stdout, stderr io.Writer) int {
	return ExecuteWith(&RootOptions{}, args, stdout, stderr)
}

// ExecuteWith is Execute with preset options, such as an Editor or Clock.
// Flag fields of opts are reset to their defaults before args are parsed.
func ExecuteWith(opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	return execute(newRootCommand(opts), opts, args, stdout, stderr)
}

func execute(cmd *cobra.Command, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	// Errors raised before any command ran are argument or flag errors.
	var exitErr *ExitError
	if !opts.started && !errors.As(err, &exitErr) {
		err = WrapExitError(ExitUserError, "usage", err)
	}

	code := GetExitCode(err)
	out := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	if code == ExitUnexpected {
		slog.Debug("command failed", "error", err)
	}
	_ = out.Error(errorCode(err), err.Error(), nil)
	return code
}

// setupLogging installs a text handler on w at Info, or Debug when
// verbose.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
