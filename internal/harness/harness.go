package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/deft/internal/cli"
	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenario commands in one tracker directory with a scripted
// editor and a deterministic clock.
type Harness struct {
	dir   string
	clock *testutil.DeterministicClock

	// editText is written by the editor during the current step.
	editText *string
	edited   []string
}

// Run executes a test scenario in a fresh temporary directory and returns
// the result. The directory is removed afterwards.
//
// Execution flow:
// 1. Write the scenario files
// 2. Run the flow steps with expect validation
// 3. Evaluate assertions against the directory
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "deft-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)
	return RunIn(dir, scenario)
}

// RunIn executes a scenario in dir, which should be empty.
func RunIn(dir string, scenario *Scenario) (*Result, error) {
	h := &Harness{dir: dir}
	if scenario.Clock != nil {
		h.clock = testutil.NewDeterministicClock(scenario.Clock.Start, scenario.Clock.Step)
	}

	if err := h.writeFiles(scenario.Files); err != nil {
		return nil, fmt.Errorf("failed to write scenario files: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		if step.At != nil {
			h.clock.Set(*step.At)
		}
		ev := h.runStep(step)
		result.AddTrace(ev)
		for _, msg := range checkExpect(step, ev) {
			result.AddError(fmt.Sprintf("flow[%d] deft %s: %s", i, strings.Join(step.Run, " "), msg))
		}
	}

	for _, errMsg := range EvaluateAssertions(h, result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

func (h *Harness) writeFiles(files map[string]string) error {
	st := storage.NewFileStorage(h.dir)
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	for _, p := range paths {
		if err := storage.WriteAll(st, p, []byte(files[p])); err != nil {
			return err
		}
	}
	return nil
}

// runStep runs one command and records it.
func (h *Harness) runStep(step FlowStep) TraceEvent {
	h.editText = step.Edit
	h.edited = nil
	code, stdout, stderr := h.exec(step.Run)
	return TraceEvent{
		Args:   slices.Clone(step.Run),
		Code:   code,
		Stdout: stdout,
		Stderr: stderr,
		Edited: h.edited,
	}
}

// exec runs deft with args in the scenario directory.
func (h *Harness) exec(args []string) (code int, stdout, stderr string) {
	opts := &cli.RootOptions{Editor: h.edit}
	if h.clock != nil {
		opts.Clock = h.clock
	}
	var out, errOut bytes.Buffer
	code = cli.ExecuteWith(opts, append([]string{"--directory", h.dir}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *Harness) edit(ctx context.Context, p string) error {
	rel, err := filepath.Rel(h.dir, p)
	if err != nil {
		rel = p
	}
	h.edited = append(h.edited, filepath.ToSlash(rel))
	if h.editText == nil {
		return nil
	}
	return os.WriteFile(p, []byte(*h.editText), 0o644)
}

// checkExpect compares a command run with the step's expectations.
func checkExpect(step FlowStep, ev TraceEvent) []string {
	expect := step.Expect
	if expect == nil {
		expect = &ExpectClause{Code: cli.ExitSuccess}
	}

	var errs []string
	if ev.Code != expect.Code {
		errs = append(errs, fmt.Sprintf("exit code: expected %d, got %d (stderr: %q)", expect.Code, ev.Code, ev.Stderr))
	}
	if expect.Stdout != nil && ev.Stdout != *expect.Stdout {
		errs = append(errs, fmt.Sprintf("stdout: expected %q, got %q", *expect.Stdout, ev.Stdout))
	}
	for _, s := range expect.StdoutContains {
		if !strings.Contains(ev.Stdout, s) {
			errs = append(errs, fmt.Sprintf("stdout: expected to contain %q, got %q", s, ev.Stdout))
		}
	}
	for _, s := range expect.StderrContains {
		if !strings.Contains(ev.Stderr, s) {
			errs = append(errs, fmt.Sprintf("stderr: expected to contain %q, got %q", s, ev.Stderr))
		}
	}
	return errs
}
