package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Transcript renders a trace as a terminal session: each command, its
// standard output, and any nonzero exit code or edited files. Standard
// error is left out because it carries log timestamps.
func Transcript(trace []TraceEvent) []byte {
	var b strings.Builder
	for _, ev := range trace {
		fmt.Fprintf(&b, "$ deft %s\n", strings.Join(ev.Args, " "))
		for _, p := range ev.Edited {
			fmt.Fprintf(&b, "[edit %s]\n", p)
		}
		b.WriteString(ev.Stdout)
		if ev.Stdout != "" && !strings.HasSuffix(ev.Stdout, "\n") {
			b.WriteString("\n[no newline]\n")
		}
		if ev.Code != 0 {
			fmt.Fprintf(&b, "[exit %d]\n", ev.Code)
		}
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its transcript against
// testdata/golden/<scenario name>.golden.
//
// Test failure (via goldie) occurs if the transcript doesn't match the
// golden file. Run the test with -update to regenerate it.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := RunIn(t.TempDir(), scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's transcript against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Transcript(result.Trace))
}
