package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/roach88/deft/internal/tracker"
)

// Editor opens the file at path for interactive editing and returns when
// the user is done.
type Editor func(ctx context.Context, path string) error

// CommandEditor returns an Editor that runs command through the shell with
// the quoted file path appended, attached to the given streams.
func CommandEditor(command string, stdin io.Reader, stdout, stderr io.Writer) Editor {
	return func(ctx context.Context, path string) error {
		line := command + ` "` + path + `"`
		c := exec.CommandContext(ctx, "sh", "-c", line)
		c.Stdin = stdin
		c.Stdout = stdout
		c.Stderr = stderr
		if err := c.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return tracker.NewUserError(tracker.CodeEditorFailed,
					"editor command failed with status %d: %s", exitErr.ExitCode(), line)
			}
			return fmt.Errorf("run editor: %w", err)
		}
		return nil
	}
}
