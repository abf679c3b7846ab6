package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deft/internal/history"
)

// testEnv runs CLI commands against a tracker in a temporary directory
// with a recording editor and no editor environment.
type testEnv struct {
	t      *testing.T
	dir    string
	edited []string
	onEdit func(path string) error
	clock  history.Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, name := range append([]string{DirectoryVariable, HistoryVariable}, EditorVariables...) {
		t.Setenv(name, "")
	}
	return &testEnv{t: t, dir: t.TempDir()}
}

func newInitialisedEnv(t *testing.T) *testEnv {
	t.Helper()
	e := newTestEnv(t)
	e.mustRun("init")
	return e
}

func (e *testEnv) editor(ctx context.Context, path string) error {
	e.edited = append(e.edited, path)
	if e.onEdit != nil {
		return e.onEdit(path)
	}
	return nil
}

func (e *testEnv) run(args ...string) (stdout, stderr string, code int) {
	e.t.Helper()
	opts := &RootOptions{Editor: e.editor, Clock: e.clock}
	var out, errOut bytes.Buffer
	code = execute(newRootCommand(opts), opts, append([]string{"--directory", e.dir}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, code := e.run(args...)
	require.Equal(e.t, ExitSuccess, code, "deft %v failed: %s", args, stderr)
	return stdout
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
