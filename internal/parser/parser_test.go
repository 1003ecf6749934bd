package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keepaway/internal/ir"
)

func loadReference(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/reference.txt")
	require.NoError(t, err)
	return string(data)
}

func TestParseReference(t *testing.T) {
	defs, err := Parse(loadReference(t))
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, ir.Definition{
		Index:     0,
		Label:     0,
		Items:     []int64{79, 98},
		Operation: ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Lit(19)},
		Divisor:   23,
		IfTrue:    2,
		IfFalse:   3,
		Pos:       ir.Pos{Offset: 0, Line: 1, Column: 1},
	}, defs[0])

	assert.Equal(t, []int64{54, 65, 75, 74}, defs[1].Items)
	assert.Equal(t, ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Lit(6)}, defs[1].Operation)
	assert.Equal(t, 0, defs[1].IfFalse)

	assert.Equal(t, ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}, defs[2].Operation)
	assert.Equal(t, int64(13), defs[2].Divisor)

	assert.Equal(t, []int64{74}, defs[3].Items)
	assert.Equal(t, 22, defs[3].Pos.Line)

	for i, d := range defs {
		assert.Equal(t, i, d.Index)
	}
}

func TestParseBlockCountPreservesOrder(t *testing.T) {
	blocks := strings.Split(strings.TrimSuffix(loadReference(t), "\n"), "\n\n")
	for k := 1; k <= len(blocks); k++ {
		t.Run(fmt.Sprintf("%d blocks", k), func(t *testing.T) {
			// Keep targets in range by pointing every block at worker 0.
			var sub []string
			for i := 0; i < k; i++ {
				b := strings.NewReplacer(
					"throw to monkey 1", "throw to monkey 0",
					"throw to monkey 2", "throw to monkey 0",
					"throw to monkey 3", "throw to monkey 0",
				).Replace(blocks[i])
				sub = append(sub, b)
			}
			defs, err := Parse(strings.Join(sub, "\n\n"))
			require.NoError(t, err)
			require.Len(t, defs, k)
			for i, d := range defs {
				assert.Equal(t, i, d.Label)
			}
		})
	}
}

func TestParseTrailingNewlineOptional(t *testing.T) {
	src := loadReference(t)
	withNL, err := Parse(src)
	require.NoError(t, err)
	withoutNL, err := Parse(strings.TrimSuffix(src, "\n"))
	require.NoError(t, err)
	assert.Equal(t, withNL, withoutNL)
}

func TestParseCRLF(t *testing.T) {
	src := loadReference(t)
	lf, err := Parse(src)
	require.NoError(t, err)
	crlf, err := Parse(strings.ReplaceAll(src, "\n", "\r\n"))
	require.NoError(t, err)
	assert.Equal(t, lf, crlf)
}

func TestParseEmptyStartingItems(t *testing.T) {
	for _, line := range []string{"  Starting items:", "  Starting items: "} {
		src := "Monkey 0:\n" + line + "\n  Operation: new = old + 1\n  Test: divisible by 2\n    If true: throw to monkey 0\n    If false: throw to monkey 0\n"
		defs, err := Parse(src)
		require.NoError(t, err, "%q", line)
		require.Len(t, defs, 1)
		assert.Empty(t, defs[0].Items)
		assert.NotNil(t, defs[0].Items)
	}
}

func TestParseItemSeparators(t *testing.T) {
	for _, line := range []string{"  Starting items: 54, 65, 75", "  Starting items: 54,65,75", "  Starting items: 54,65, 75"} {
		src := "Monkey 0:\n" + line + "\n  Operation: new = old + 1\n  Test: divisible by 2\n    If true: throw to monkey 0\n    If false: throw to monkey 0\n"
		defs, err := Parse(src)
		require.NoError(t, err, "%q", line)
		assert.Equal(t, []int64{54, 65, 75}, defs[0].Items)
	}

	_, err := Parse("Monkey 0:\n  Starting items: 54,,65\n")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Pos.Line)
}

func TestParseHeaderOrdinalIsInformational(t *testing.T) {
	src := strings.Replace(loadReference(t), "Monkey 0:", "Monkey 7:", 1)
	defs, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, 0, defs[0].Index)
	assert.Equal(t, 7, defs[0].Label)
}

func TestParseAllOperators(t *testing.T) {
	for _, op := range []ir.Operator{ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv} {
		e, err := ParseOperation("old " + string(op) + " 5")
		require.NoError(t, err)
		assert.Equal(t, ir.Expr{Left: ir.Old(), Op: op, Right: ir.Lit(5)}, e)
	}
}

func TestParseOperationErrors(t *testing.T) {
	tests := []struct {
		input    string
		column   int
		expected string
	}{
		{"old % 19", 5, "operator"},
		{"abc * 2", 1, "operand"},
		{"old *19", 6, `" " after operator`},
		{"old * 19 + 1", 9, "end of line"},
		{"", 1, "operand"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseOperation(tt.input)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.column, pe.Pos.Column)
			assert.Contains(t, pe.Expected, tt.expected)
		})
	}
}

func TestParseErrorsPositioned(t *testing.T) {
	ref := loadReference(t)
	tests := []struct {
		name     string
		old, new string
		pos      ir.Pos
		expected string
	}{
		{"unknown operator", "old * 19", "old % 19", ir.Pos{Offset: 58, Line: 3, Column: 24}, "operator"},
		{"non numeric divisor", "divisible by 23", "divisible by x", ir.Pos{Offset: 84, Line: 4, Column: 22}, "divisor"},
		{"zero divisor", "divisible by 23", "divisible by 0", ir.Pos{Offset: 84, Line: 4, Column: 22}, "positive divisor"},
		{"target out of range", "If false: throw to monkey 3", "If false: throw to monkey 9", ir.Pos{Offset: 148, Line: 6, Column: 31}, "target below 4"},
		{"item out of range", "79, 98", "79, 99999999999999999999", ir.Pos{Offset: 32, Line: 2, Column: 23}, "within integer range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(ref, tt.old, tt.new, 1)
			defs, err := Parse(src)
			assert.Nil(t, defs)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.pos, pe.Pos)
			assert.Contains(t, pe.Expected, tt.expected)
		})
	}
}

func TestParseSeparatorRules(t *testing.T) {
	ref := loadReference(t)

	t.Run("two blank lines", func(t *testing.T) {
		_, err := Parse(strings.Replace(ref, "\n\nMonkey 1:", "\n\n\nMonkey 1:", 1))
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 8, pe.Pos.Line)
		assert.Contains(t, pe.Expected, "header")
	})

	t.Run("no blank line", func(t *testing.T) {
		_, err := Parse(strings.Replace(ref, "\n\nMonkey 1:", "\nMonkey 1:", 1))
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 7, pe.Pos.Line)
		assert.Contains(t, pe.Expected, "blank line")
	})

	t.Run("trailing blank line", func(t *testing.T) {
		_, err := Parse(ref + "\n")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Contains(t, pe.Expected, "header")
	})

	t.Run("empty input", func(t *testing.T) {
		defs, err := Parse("")
		assert.Nil(t, defs)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, ir.Pos{Offset: 0, Line: 1, Column: 1}, pe.Pos)
	})
}

// Removing any required line from any block must fail with a position
// inside that block and return no definitions.
func TestParseFailureLocality(t *testing.T) {
	blocks := strings.Split(strings.TrimSuffix(loadReference(t), "\n"), "\n\n")

	for b := range blocks {
		lines := strings.Split(blocks[b], "\n")
		for drop := range lines {
			t.Run(fmt.Sprintf("block %d line %d", b, drop), func(t *testing.T) {
				kept := append(append([]string{}, lines[:drop]...), lines[drop+1:]...)
				mutated := append([]string{}, blocks...)
				mutated[b] = strings.Join(kept, "\n")

				start := 0
				for _, prev := range mutated[:b] {
					start += len(prev) + 2
				}
				end := start + len(mutated[b])

				defs, err := Parse(strings.Join(mutated, "\n\n") + "\n")
				assert.Nil(t, defs)
				var pe *ParseError
				require.True(t, errors.As(err, &pe), "got %v", err)
				assert.GreaterOrEqual(t, pe.Pos.Offset, start)
				assert.LessOrEqual(t, pe.Pos.Offset, end)
			})
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Pos: ir.Pos{Offset: 3, Line: 1, Column: 4}, Expected: "operator (+, -, *, /)", Found: `"%"`}
	assert.Equal(t, `1:4: expected operator (+, -, *, /), found "%"`, err.Error())
}
