package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/keepaway/internal/ir"
)

// toCanonicalMap converts a result to a map for canonical JSON
// serialization. ir.MarshalCanonical only handles IR values, primitives,
// []any and map[string]any.
func toCanonicalMap(name string, r *Result) map[string]any {
	rounds := make([]any, len(r.Rounds))
	for i, ra := range r.Rounds {
		rounds[i] = map[string]any{
			"round":    ra.Round,
			"activity": ra.Activity,
		}
	}

	queues := make([]any, len(r.Queues))
	for i, q := range r.Queues {
		queues[i] = q
	}

	return map[string]any{
		"scenario_name": name,
		"profile":       r.Profile,
		"activity":      r.Activity,
		"business":      r.Business,
		"queues":        queues,
		"rounds":        rounds,
	}
}

// Snapshot returns the canonical JSON form of a result, as stored in
// golden files.
func Snapshot(name string, r *Result) ([]byte, error) {
	return ir.MarshalCanonical(toCanonicalMap(name, r))
}

// RunWithGolden executes a scenario and compares the round-by-round
// activity against a golden file stored in
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be set up.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
