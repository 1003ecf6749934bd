package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../harness/testdata/scenarios"

func TestTestCommandScenarios(t *testing.T) {
	out, err := executeRoot(t, "test", scenarioDir, "--format", "json")
	require.NoError(t, err, "output: %s", out)

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 7, result.Total)
	assert.Equal(t, 7, result.Passed)
	assert.Zero(t, result.Failed)

	golden := map[string]bool{}
	for _, s := range result.Scenarios {
		golden[s.Name] = s.Golden
	}
	assert.True(t, golden["reference_round3"])
	assert.True(t, golden["self_throw"])
	assert.False(t, golden["reference_part1"])
}

func TestTestCommandFilter(t *testing.T) {
	out, err := executeRoot(t, "test", scenarioDir, "--filter", "self_*")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ self_throw (golden)")
	assert.Contains(t, out, "✓ self_loop_quota")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandNoMatches(t *testing.T) {
	out, err := executeRoot(t, "test", scenarioDir, "--filter", "nothing_*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingPath(t *testing.T) {
	_, err := executeRoot(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailingScenario(t *testing.T) {
	path := writeInput(t, "wrong.yaml", `name: wrong
description: expects the wrong business value
profile: part1
notes: |
  Monkey 0:
    Starting items: 79, 98
    Operation: new = old * 19
    Test: divisible by 23
      If true: throw to monkey 0
      If false: throw to monkey 0
rounds: 0
expect:
  activity: [1]
`)

	out, err := executeRoot(t, "test", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandUpdate(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0o755))
	for _, name := range []string{"self_throw.yaml", "reference_round3.yaml"} {
		data, err := os.ReadFile(filepath.Join(scenarioDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(scenarios, name), data, 0o644))
	}

	out, err := executeRoot(t, "test", scenarios, "--update")
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "(golden updated)")

	for _, name := range []string{"self_throw", "reference_round3"} {
		got, err := os.ReadFile(filepath.Join(root, "golden", name+".golden"))
		require.NoError(t, err)
		want, err := os.ReadFile(filepath.Join(scenarioDir, "..", "golden", name+".golden"))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}

	// A second run compares against the files just written.
	out, err = executeRoot(t, "test", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ self_throw (golden)")
}

func TestGoldenFilePath(t *testing.T) {
	got := goldenFilePath(filepath.Join("testdata", "scenarios", "x.yaml"), "x")
	assert.Equal(t, filepath.Join("testdata", "golden", "x.golden"), got)
}
