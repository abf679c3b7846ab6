package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] deft %s (exit %d)\n", event.Seq, strings.Join(event.Args, " "), event.Code)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks each assertion against the scenario directory
// and returns the failure messages.
func EvaluateAssertions(h *Harness, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFileExists:
			err = assertFileExists(h.dir, a)
		case AssertFileAbsent:
			err = assertFileAbsent(h.dir, a)
		case AssertFileContent:
			err = assertFileContent(h.dir, a)
		case AssertCommandOutput:
			err = assertCommandOutput(h, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			var ae *AssertionError
			if errors.As(err, &ae) {
				ae.Trace = result.Trace
			}
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertFileExists(dir string, a Assertion) error {
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(a.Path))); err != nil {
		return &AssertionError{
			Type:     AssertFileExists,
			Expected: fmt.Sprintf("%s exists", a.Path),
			Actual:   err.Error(),
		}
	}
	return nil
}

func assertFileAbsent(dir string, a Assertion) error {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(a.Path)))
	if err == nil {
		return &AssertionError{
			Type:     AssertFileAbsent,
			Expected: fmt.Sprintf("%s does not exist", a.Path),
			Actual:   "it exists",
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func assertFileContent(dir string, a Assertion) error {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(a.Path)))
	if err != nil {
		return &AssertionError{
			Type:     AssertFileContent,
			Expected: fmt.Sprintf("%s contains %q", a.Path, a.Content),
			Actual:   err.Error(),
		}
	}
	if string(data) != a.Content {
		return &AssertionError{
			Type:     AssertFileContent,
			Expected: fmt.Sprintf("%s contains %q", a.Path, a.Content),
			Actual:   fmt.Sprintf("%q", data),
		}
	}
	return nil
}

func assertCommandOutput(h *Harness, a Assertion) error {
	h.editText = nil
	code, stdout, stderr := h.exec(a.Args)
	command := "deft " + strings.Join(a.Args, " ")
	if code != 0 {
		return &AssertionError{
			Type:     AssertCommandOutput,
			Expected: fmt.Sprintf("%s succeeds", command),
			Actual:   fmt.Sprintf("exit %d: %s", code, strings.TrimSpace(stderr)),
		}
	}
	if stdout != a.Stdout {
		return &AssertionError{
			Type:     AssertCommandOutput,
			Expected: fmt.Sprintf("%s prints %q", command, a.Stdout),
			Actual:   fmt.Sprintf("%q", stdout),
		}
	}
	return nil
}
