package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keepaway/internal/ir"
	"github.com/roach88/keepaway/internal/parser"
	"github.com/roach88/keepaway/internal/puzzle"
)

func TestParseText(t *testing.T) {
	out, err := executeRoot(t, "parse")
	require.NoError(t, err)

	assert.Contains(t, out, "<embedded>: 4 worker(s)")
	assert.Contains(t, out, "0: items [79 98], new = old * 19, divisible by 23 ? 2 : 3")
	assert.Contains(t, out, "2: items [79 60 97], new = old * old, divisible by 13 ? 1 : 3")
}

func TestParseJSON(t *testing.T) {
	out, err := executeRoot(t, "parse", "--format", "json")
	require.NoError(t, err)

	var result ParseResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, result.Workers, 4)
	assert.Equal(t, WorkerView{
		Index:     3,
		Label:     3,
		Items:     []int64{74},
		Operation: "old + 3",
		Divisor:   17,
		IfTrue:    0,
		IfFalse:   1,
		Line:      22,
	}, result.Workers[3])

	defs, err := parser.Parse(puzzle.Input)
	require.NoError(t, err)
	assert.Equal(t, ir.MustDefinitionsHash(defs), result.DefinitionsHash)
}

func TestParseCanonical(t *testing.T) {
	out, err := executeRoot(t, "parse", "--canonical")
	require.NoError(t, err)

	defs, err := parser.Parse(puzzle.Input)
	require.NoError(t, err)
	want, err := ir.MarshalCanonical(ir.DefinitionsValue(defs))
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", out)
}

func TestParseCUEFlag(t *testing.T) {
	path := writeInput(t, "workers.txt", `monkey: [{items: [5], operation: "old * 2", test: 3, ifTrue: 1, ifFalse: 1}, {items: [], operation: "old + 1", test: 2, ifTrue: 0, ifFalse: 0}]`)

	out, err := executeRoot(t, "parse", path, "--cue")
	require.NoError(t, err)
	assert.Contains(t, out, "2 worker(s)")

	_, err = executeRoot(t, "parse", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
