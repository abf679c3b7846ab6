package harness

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a system test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Files are written below the tracker directory before the flow runs,
	// keyed by slash-separated relative path.
	Files map[string]string `yaml:"files,omitempty"`

	// Clock, if set, stamps snapshots deterministically.
	Clock *ClockConfig `yaml:"clock,omitempty"`

	// Flow contains the commands to run, with expected results.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final state of the tracker directory.
	Assertions []Assertion `yaml:"assertions"`
}

// ClockConfig configures the deterministic clock of a scenario.
type ClockConfig struct {
	Start time.Time     `yaml:"start"`
	Step  time.Duration `yaml:"step"`
}

// FlowStep runs one deft command.
type FlowStep struct {
	// Run is the command line, without the program name.
	Run []string `yaml:"run"`

	// Edit is written to any file the command opens in the editor. If nil
	// the editor leaves files unchanged.
	Edit *string `yaml:"edit,omitempty"`

	// At moves the scenario clock before the command runs.
	At *time.Time `yaml:"at,omitempty"`

	// Expect specifies the expected outcome. If nil, the command must
	// succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a command.
type ExpectClause struct {
	// Code is the expected exit code.
	Code int `yaml:"code"`

	// Stdout, if set, must equal the command's standard output.
	Stdout *string `yaml:"stdout,omitempty"`

	// StdoutContains and StderrContains list substrings that must appear.
	StdoutContains []string `yaml:"stdout_contains,omitempty"`
	StderrContains []string `yaml:"stderr_contains,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "file_exists": Check path exists
	// - "file_absent": Check path does not exist
	// - "file_content": Check file content
	// - "command_output": Run a command and check its output
	Type string `yaml:"type"`

	// Path is relative to the tracker directory (file_* assertions).
	Path string `yaml:"path,omitempty"`

	// Content is the expected file content (used by file_content).
	Content string `yaml:"content,omitempty"`

	// Args is the command to run (used by command_output).
	Args []string `yaml:"args,omitempty"`

	// Stdout is the expected output (used by command_output).
	Stdout string `yaml:"stdout,omitempty"`
}

// Assertion type constants.
const (
	AssertFileExists    = "file_exists"
	AssertFileAbsent    = "file_absent"
	AssertFileContent   = "file_content"
	AssertCommandOutput = "command_output"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(p string) (*Scenario, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for p := range s.Files {
		if err := validatePath(p); err != nil {
			return fmt.Errorf("files: %w", err)
		}
	}

	if s.Clock != nil && s.Clock.Start.IsZero() {
		return fmt.Errorf("clock: start is required")
	}

	for i, step := range s.Flow {
		if len(step.Run) == 0 {
			return fmt.Errorf("flow[%d]: run is required", i)
		}
		if step.At != nil && s.Clock == nil {
			return fmt.Errorf("flow[%d]: at requires a scenario clock", i)
		}
		if step.Expect != nil && step.Expect.Code < 0 {
			return fmt.Errorf("flow[%d].expect: code must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFileExists, AssertFileAbsent, AssertFileContent:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
		}
		if err := validatePath(a.Path); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertCommandOutput:
		if len(a.Args) == 0 {
			return fmt.Errorf("assertions[%d]: args is required for command_output", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// validatePath rejects paths that would leave the tracker directory.
func validatePath(p string) error {
	clean := path.Clean(p)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path %q must be relative and inside the tracker directory", p)
	}
	return nil
}
