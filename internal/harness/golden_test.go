package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"basic_usage", "changing_status"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestTranscript(t *testing.T) {
	trace := []TraceEvent{
		{Seq: 1, Args: []string{"init"}, Stdout: "initialised Deft tracker\n"},
		{Seq: 2, Args: []string{"create", "x"}, Edited: []string{"tracker/features/x.description"}},
		{Seq: 3, Args: []string{"description", "x"}, Stdout: "no trailing newline"},
		{Seq: 4, Args: []string{"status", "ghost"}, Code: 1, Stderr: "deft: no feature named ghost\n"},
	}

	want := "$ deft init\n" +
		"initialised Deft tracker\n" +
		"$ deft create x\n" +
		"[edit tracker/features/x.description]\n" +
		"$ deft description x\n" +
		"no trailing newline\n" +
		"[no newline]\n" +
		"$ deft status ghost\n" +
		"[exit 1]\n"
	assert.Equal(t, want, string(Transcript(trace)))
}
