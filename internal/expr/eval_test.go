package expr

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keepaway/internal/ir"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name  string
		expr  ir.Expr
		input int64
		want  int64
	}{
		{"old times literal", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Lit(19)}, 79, 1501},
		{"old plus literal", ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Lit(6)}, 54, 60},
		{"old squared", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}, 79, 6241},
		{"old plus old", ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Old()}, 21, 42},
		{"subtract", ir.Expr{Left: ir.Old(), Op: ir.OpSub, Right: ir.Lit(4)}, 10, 6},
		{"subtract below zero", ir.Expr{Left: ir.Lit(4), Op: ir.OpSub, Right: ir.Old()}, 10, -6},
		{"divide", ir.Expr{Left: ir.Old(), Op: ir.OpDiv, Right: ir.Lit(3)}, 10, 3},
		{"divide truncates toward zero", ir.Expr{Left: ir.Lit(-7), Op: ir.OpDiv, Right: ir.Old()}, 2, -3},
		{"literal only", ir.Expr{Left: ir.Lit(5), Op: ir.OpAdd, Right: ir.Lit(5)}, 1000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalReferentiallyTransparent(t *testing.T) {
	e := ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}
	first, err := Eval(e, 12345)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := Eval(e, 12345)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestCompileMatchesEval(t *testing.T) {
	e := ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Lit(3)}
	tr := Compile(e)
	for _, in := range []int64{0, 1, 74, 1 << 40} {
		want, err := Eval(e, in)
		require.NoError(t, err)
		got, err := tr(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name  string
		expr  ir.Expr
		input int64
		want  error
	}{
		{"mul overflow", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}, math.MaxInt32 * 4, ErrOverflow},
		{"add overflow", ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Lit(1)}, math.MaxInt64, ErrOverflow},
		{"sub overflow", ir.Expr{Left: ir.Old(), Op: ir.OpSub, Right: ir.Lit(1)}, math.MinInt64, ErrOverflow},
		{"min times minus one", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Lit(-1)}, math.MinInt64, ErrOverflow},
		{"divide by zero literal", ir.Expr{Left: ir.Old(), Op: ir.OpDiv, Right: ir.Lit(0)}, 5, ErrDivideByZero},
		{"divide by zero input", ir.Expr{Left: ir.Lit(5), Op: ir.OpDiv, Right: ir.Old()}, 0, ErrDivideByZero},
		{"unknown operator", ir.Expr{Left: ir.Old(), Op: "%", Right: ir.Lit(2)}, 5, ErrUnknownOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.expr, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(ir.Expr{Left: ir.Old(), Op: ir.OpDiv, Right: ir.Lit(2)}))
	assert.NoError(t, Check(ir.Expr{Left: ir.Lit(2), Op: ir.OpDiv, Right: ir.Old()}))
	assert.ErrorIs(t, Check(ir.Expr{Left: ir.Old(), Op: ir.OpDiv, Right: ir.Lit(0)}), ErrDivideByZero)
	assert.ErrorIs(t, Check(ir.Expr{Left: ir.Old(), Op: "^", Right: ir.Lit(0)}), ErrUnknownOperator)
}

func TestEvalModMatchesBigArithmetic(t *testing.T) {
	const m = int64(30064771177) // 4294967311 * 7
	tests := []struct {
		name  string
		expr  ir.Expr
		input int64
	}{
		{"square past int64", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}, 4294967000},
		{"square of max", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}, math.MaxInt64},
		{"times literal", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Lit(math.MaxInt64)}, m - 1},
		{"add past int64", ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Lit(math.MaxInt64)}, math.MaxInt64},
		{"subtract below zero", ir.Expr{Left: ir.Lit(4), Op: ir.OpSub, Right: ir.Old()}, 10},
		{"small square", ir.Expr{Left: ir.Old(), Op: ir.OpMul, Right: ir.Old()}, 79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalMod(tt.expr, tt.input, m)
			require.NoError(t, err)

			a := big.NewInt(resolve(tt.expr.Left, tt.input))
			b := big.NewInt(resolve(tt.expr.Right, tt.input))
			want := new(big.Int)
			switch tt.expr.Op {
			case ir.OpAdd:
				want.Add(a, b)
			case ir.OpSub:
				want.Sub(a, b)
			case ir.OpMul:
				want.Mul(a, b)
			}
			want.Mod(want, big.NewInt(m))
			assert.Equal(t, want.Int64(), got)
		})
	}
}

func TestEvalModDivision(t *testing.T) {
	got, err := EvalMod(ir.Expr{Left: ir.Old(), Op: ir.OpDiv, Right: ir.Lit(3)}, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(33%7), got)

	_, err = EvalMod(ir.Expr{Left: ir.Old(), Op: ir.OpDiv, Right: ir.Old()}, 0, 7)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestEvalModRejectsBadModulus(t *testing.T) {
	_, err := EvalMod(ir.Expr{Left: ir.Old(), Op: ir.OpAdd, Right: ir.Lit(1)}, 1, 0)
	assert.Error(t, err)
}
