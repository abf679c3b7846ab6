package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deft/internal/tracker"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandEditor_PassesQuotedPath(t *testing.T) {
	requireShell(t)
	path := filepath.Join(t.TempDir(), "with space.description")

	var stdout bytes.Buffer
	ed := CommandEditor("echo edited >", strings.NewReader(""), &stdout, &stdout)
	require.NoError(t, ed(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited\n", string(data))
}

func TestCommandEditor_NonzeroExit(t *testing.T) {
	requireShell(t)

	var out bytes.Buffer
	ed := CommandEditor("exit 3;", strings.NewReader(""), &out, &out)
	err := ed(context.Background(), "/tmp/x.description")

	assert.True(t, tracker.HasCode(err, tracker.CodeEditorFailed))
	assert.EqualError(t, err, `editor command failed with status 3: exit 3; "/tmp/x.description"`)
}

func TestEditCommandUsesEnvironmentEditor(t *testing.T) {
	requireShell(t)
	e := newInitialisedEnv(t)
	e.mustRun("create", "login", "-d", "old")

	t.Setenv("EDITOR", "echo new >")
	opts := &RootOptions{}
	var out, errOut bytes.Buffer
	code := execute(newRootCommand(opts), opts,
		[]string{"--directory", e.dir, "description", "--edit", "login"}, &out, &errOut)
	require.Equal(t, ExitSuccess, code, errOut.String())

	assert.Equal(t, "new\n", e.mustRun("description", "login"))
}

func TestEditWithoutEditorFails(t *testing.T) {
	e := newInitialisedEnv(t)
	e.mustRun("create", "login", "-d", "old")

	opts := &RootOptions{}
	var out, errOut bytes.Buffer
	code := execute(newRootCommand(opts), opts,
		[]string{"--directory", e.dir, "description", "--edit", "login"}, &out, &errOut)
	assert.Equal(t, ExitUserError, code)
	assert.Contains(t, errOut.String(), "no editor specified")
}
