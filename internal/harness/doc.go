// Package harness runs scenario files against the simulation.
//
// A scenario names a worker description, a profile and the expected
// outcome. Running it parses the description, drives the engine with the
// profile's strategy and round count, records every throw in an in-memory
// store and compares the outcome with the expectation.
//
// # Scenario Format
//
//	name: reference_part1
//	description: "Twenty rounds of the reference notes, divide by three"
//	input: workers.txt         # optional, relative to the scenario file
//	notes: |                   # optional inline notes instead of input
//	  Monkey 0: ...
//	format: text               # text or cue; defaults from the file extension
//	profile: part1
//	rounds: 20                 # optional override of the profile rounds
//	expect:
//	  activity: [101, 95, 7, 105]
//	  business: 10605
//	  queues: [[10, 12], [], [], []]
//	  destinations: {0: {3: 2}}
//	  error: "QUOTA_EXCEEDED"  # substring of the expected error
//
// Without input or notes the embedded puzzle notes are used.
//
// # Deterministic Testing
//
// Every run uses a fixed run id derived from the scenario name, so golden
// snapshots are identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/reference_part1.yaml")
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
