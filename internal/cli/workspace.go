package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/tracker"
	"github.com/roach88/deft/internal/warn"
)

// loadSettings reads the process settings once per invocation.
func (o *RootOptions) loadSettings() (*Settings, error) {
	if o.settings != nil {
		return o.settings, nil
	}
	dir := o.Directory
	if dir == "" {
		dir = "."
	}
	s, err := LoadSettings(dir)
	if err != nil {
		return nil, err
	}
	o.settings = s
	return s, nil
}

// workDir returns the absolute directory deft runs in.
func (o *RootOptions) workDir() (string, error) {
	dir := o.Directory
	if dir == "" {
		s, err := o.loadSettings()
		if err != nil {
			return "", err
		}
		dir = s.Directory()
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(dir)
}

// trackerRoot returns the directory holding the tracker that contains the
// working directory.
func (o *RootOptions) trackerRoot() (string, error) {
	dir, err := o.workDir()
	if err != nil {
		return "", err
	}
	return tracker.FindRoot(dir)
}

// openStorage returns the file storage of the enclosing tracker.
func (o *RootOptions) openStorage() (*storage.FileStorage, string, error) {
	root, err := o.trackerRoot()
	if err != nil {
		return nil, "", err
	}
	return storage.NewFileStorage(root), root, nil
}

// loadTracker loads the enclosing tracker, reporting repairs through
// warnings(cmd).
func (o *RootOptions) loadTracker(cmd *cobra.Command) (*tracker.Tracker, error) {
	st, _, err := o.openStorage()
	if err != nil {
		return nil, err
	}
	return tracker.Load(st, o.warnings(cmd))
}

// warnings returns the sink for repair warnings. JSON output keeps stdout
// for the envelope, so warnings are logged instead of printed.
func (o *RootOptions) warnings(cmd *cobra.Command) warn.Sink {
	if o.Format == "json" {
		return warn.NewLogger(nil)
	}
	return warn.NewPrinter(cmd.ErrOrStderr())
}

// editor returns the configured Editor.
func (o *RootOptions) editor(cmd *cobra.Command) (Editor, error) {
	if o.Editor != nil {
		return o.Editor, nil
	}
	s, err := o.loadSettings()
	if err != nil {
		return nil, err
	}
	command, err := s.EditorCommand()
	if err != nil {
		return nil, err
	}
	return CommandEditor(command, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
}

// edit opens path in the configured editor.
func (o *RootOptions) edit(cmd *cobra.Command, path string) error {
	ed, err := o.editor(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ed(ctx, path)
}
