// Package harness runs deft system-test scenarios.
//
// A scenario drives the deft command line against a fresh tracker directory
// and checks what it printed and what it left on disk.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	files:                          # written before the flow
//	  .deft/config: "format: 2.1\n..."
//	clock:                          # optional, stamps snapshots
//	  start: 2024-03-01T09:00:00Z
//	  step: 1m
//	flow:
//	  - run: [init, -d, data]
//	  - run: [create, x]
//	    edit: "text the editor writes"
//	  - run: [list, --status, new]
//	    expect:
//	      code: 0
//	      stdout: "new 1 x\n"
//	  - at: 2024-03-02T10:00:00Z   # moves the clock
//	    run: [snapshot]
//	assertions:
//	  - type: file_exists
//	    path: data/features/x.description
//	  - type: file_content
//	    path: data/features/x.description
//	    content: "text the editor writes"
//	  - type: command_output
//	    args: [statuses]
//	    stdout: "new\n"
//
// # Assertion Types
//
//   - file_exists: the path exists below the tracker directory
//   - file_absent: the path does not exist
//   - file_content: the file holds exactly the given content
//   - command_output: running the command succeeds and prints stdout
//
// # Deterministic Testing
//
// Every step runs with an editor that writes the step's edit text (or
// leaves the file alone) and, when the scenario has a clock, a
// testutil.DeterministicClock. Step transcripts are therefore stable and
// can be compared against golden files with RunWithGolden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/basic_usage.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
