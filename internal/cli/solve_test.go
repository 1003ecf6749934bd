package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveEmbedded(t *testing.T) {
	out, err := executeRoot(t, "solve")
	require.NoError(t, err)
	assert.Equal(t, "part1: 10605\npart2: 2713310158\n", out)
}

func TestSolveJSON(t *testing.T) {
	out, err := executeRoot(t, "solve", "--format", "json")
	require.NoError(t, err)

	var result SolveResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, EmbeddedInput, result.Input)
	assert.NotEmpty(t, result.DefinitionsHash)
	require.Len(t, result.Answers, 2)

	part1 := result.Answers[0]
	assert.Equal(t, "part1", part1.Profile)
	assert.Equal(t, 20, part1.Rounds)
	assert.Equal(t, []int64{101, 95, 7, 105}, part1.Activity)
	assert.Equal(t, "divide-and-floor(3)", part1.Strategy)

	part2 := result.Answers[1]
	assert.Equal(t, []int64{52166, 47830, 1938, 52013}, part2.Activity)
	assert.Equal(t, "modulo-by(96577)", part2.Strategy)
	assert.NotEqual(t, part1.RunID, part2.RunID)
}

func TestSolveRoundsOverride(t *testing.T) {
	out, err := executeRoot(t, "solve", "--profile", "part2", "--rounds", "20", "--format", "json")
	require.NoError(t, err)

	var result SolveResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Answers, 1)
	assert.Equal(t, []int64{99, 97, 8, 103}, result.Answers[0].Activity)
	assert.Equal(t, int64(103*99), result.Answers[0].Business)
}

func TestSolveRejectsNegativeRounds(t *testing.T) {
	_, err := executeRoot(t, "solve", "--rounds", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeConfig)
}

func TestSolveUnknownProfile(t *testing.T) {
	out, err := executeRoot(t, "solve", "--profile", "part3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "unknown profile")
}

func TestSolveCUEInput(t *testing.T) {
	path := filepath.Join("..", "compiler", "testdata", "reference.cue")
	out, err := executeRoot(t, "solve", path, "--profile", "part1")
	require.NoError(t, err)
	assert.Equal(t, "part1: 10605\n", out)
}

func TestSolveMissingFile(t *testing.T) {
	out, err := executeRoot(t, "solve", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestSolveParseError(t *testing.T) {
	path := writeInput(t, "bad.txt", "Monkey 0:\n  Starting items: x\n")
	out, err := executeRoot(t, "solve", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParseFailed, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "2:")
}

func TestSolveQuotaExceeded(t *testing.T) {
	path := writeInput(t, "loop.txt", `Monkey 0:
  Starting items: 3
  Operation: new = old * 3
  Test: divisible by 1
    If true: throw to monkey 0
    If false: throw to monkey 0

Monkey 1:
  Starting items:
  Operation: new = old + 1
  Test: divisible by 1
    If true: throw to monkey 0
    If false: throw to monkey 0
`)
	out, err := executeRoot(t, "solve", path, "--profile", "part1", "--max-steps", "10")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "QUOTA_EXCEEDED")
}

func TestSolveSingleWorker(t *testing.T) {
	path := writeInput(t, "one.txt", `Monkey 0:
  Starting items:
  Operation: new = old + 1
  Test: divisible by 5
    If true: throw to monkey 0
    If false: throw to monkey 0
`)
	_, err := executeRoot(t, "solve", path, "--profile", "part1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two workers")
}
