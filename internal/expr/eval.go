// Package expr evaluates worker operations.
//
// An operation is an ir.Expr, a tagged {operand, operator, operand} value.
// Eval interprets it against a single input; there are no closures and no
// hidden state, so the same (expr, input) pair always yields the same
// result.
package expr

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/roach88/keepaway/internal/ir"
)

var (
	// ErrOverflow is returned when a result does not fit in an int64.
	ErrOverflow = errors.New("integer overflow")

	// ErrDivideByZero is returned for "x / 0".
	ErrDivideByZero = errors.New("division by zero")

	// ErrUnknownOperator is returned for an operator outside + - * /.
	ErrUnknownOperator = errors.New("unknown operator")
)

// Transform is a compiled operation.
type Transform func(input int64) (int64, error)

// Compile returns a Transform bound to e.
// The transform is a thin wrapper over Eval; e stays the source of truth.
func Compile(e ir.Expr) Transform {
	return func(input int64) (int64, error) {
		return Eval(e, input)
	}
}

// Eval applies e to input.
//
// Division truncates toward zero. No reference input uses "/", so whether
// floor division was intended for negative operands is unverified.
func Eval(e ir.Expr, input int64) (int64, error) {
	a := resolve(e.Left, input)
	b := resolve(e.Right, input)

	var (
		v   int64
		err error
	)
	switch e.Op {
	case ir.OpAdd:
		v, err = add(a, b)
	case ir.OpSub:
		v, err = sub(a, b)
	case ir.OpMul:
		v, err = mul(a, b)
	case ir.OpDiv:
		v, err = div(a, b)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, e.Op)
	}
	if err != nil {
		return 0, fmt.Errorf("%s with old=%d: %w", e, input, err)
	}
	return v, nil
}

// EvalMod applies e to input and returns the result reduced into
// [0, m). Addition, subtraction and multiplication are carried out on
// residues, so no intermediate value overflows for any m > 0. Division
// does not commute with reduction and is evaluated on input directly.
func EvalMod(e ir.Expr, input, m int64) (int64, error) {
	if m <= 0 {
		return 0, fmt.Errorf("modulus must be positive, got %d", m)
	}
	if e.Op == ir.OpDiv {
		v, err := Eval(e, input)
		if err != nil {
			return 0, err
		}
		return residue(v, m), nil
	}

	a := uint64(residue(resolve(e.Left, input), m))
	b := uint64(residue(resolve(e.Right, input), m))
	um := uint64(m)

	switch e.Op {
	case ir.OpAdd:
		// a, b < m <= MaxInt64, so a+b fits in a uint64.
		return int64((a + b) % um), nil
	case ir.OpSub:
		return int64((a + um - b) % um), nil
	case ir.OpMul:
		hi, lo := bits.Mul64(a, b)
		return int64(bits.Rem64(hi, lo, um)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, e.Op)
	}
}

func residue(v, m int64) int64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

// Check reports whether e can be evaluated at all, independent of input.
func Check(e ir.Expr) error {
	if !e.Op.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperator, e.Op)
	}
	if e.Op == ir.OpDiv && e.Right.Kind == ir.OperandLiteral && e.Right.Value == 0 {
		return fmt.Errorf("%s: %w", e, ErrDivideByZero)
	}
	return nil
}

func resolve(o ir.Operand, input int64) int64 {
	if o.Kind == ir.OperandOld {
		return input
	}
	return o.Value
}

func add(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func sub(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, ErrOverflow
	}
	return a - b, nil
}

func mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return c, nil
}

func div(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrOverflow
	}
	return a / b, nil
}
