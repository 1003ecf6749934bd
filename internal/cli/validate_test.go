package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keepaway/internal/parser"
)

const duplicateHeaders = `Monkey 0:
  Starting items: 1
  Operation: new = old + 1
  Test: divisible by 2
    If true: throw to monkey 1
    If false: throw to monkey 0

Monkey 0:
  Starting items: 2
  Operation: new = old * 2
  Test: divisible by 3
    If true: throw to monkey 0
    If false: throw to monkey 1
`

func TestValidateEmbedded(t *testing.T) {
	out, err := executeRoot(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ <embedded>: 4 worker(s) valid")
}

func TestValidateEmbeddedJSON(t *testing.T) {
	out, err := executeRoot(t, "validate", "--format", "json")
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 4, result.Workers)
	assert.Empty(t, result.Findings)
}

func TestValidateWarnings(t *testing.T) {
	path := writeInput(t, "dup.txt", duplicateHeaders)

	out, err := executeRoot(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid with warnings")
	assert.Contains(t, out, parser.ErrCodeDuplicateLabel)
}

func TestValidateStrict(t *testing.T) {
	path := writeInput(t, "dup.txt", duplicateHeaders)

	out, err := executeRoot(t, "validate", path, "--strict", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Findings)
	assert.Equal(t, parser.SeverityWarning, result.Findings[0].Severity)
}

func TestValidateParseFailure(t *testing.T) {
	path := writeInput(t, "bad.txt", "Monkey 0:\n  Starting items: x\n")

	out, err := executeRoot(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeParseFailed)
}

func TestValidateNonExistentFile(t *testing.T) {
	out, err := executeRoot(t, "validate", "/nonexistent/notes.txt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "not found")
}
