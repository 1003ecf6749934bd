package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/keepaway/internal/expr"
	"github.com/roach88/keepaway/internal/ir"
)

// OverflowStrategy bounds worry levels after every transform.
//
// It is a closed sum type: DivideAndFloor and ModuloBy are the only
// implementations.
type OverflowStrategy interface {
	// Apply reduces a transformed value.
	Apply(v int64) int64

	// String names the strategy for logs and reports.
	String() string

	// transform evaluates op on item and reduces the result.
	transform(op ir.Expr, item int64) (int64, error)

	param() int64
}

// DivideAndFloor replaces v with floor(v / Divisor). It discards
// information and is only correct where the rules define it.
type DivideAndFloor struct {
	Divisor int64
}

// Apply implements OverflowStrategy.
func (s DivideAndFloor) Apply(v int64) int64 {
	q := v / s.Divisor
	if (v%s.Divisor != 0) && ((v < 0) != (s.Divisor < 0)) {
		q--
	}
	return q
}

func (s DivideAndFloor) String() string {
	return fmt.Sprintf("divide-and-floor(%d)", s.Divisor)
}

func (s DivideAndFloor) transform(op ir.Expr, item int64) (int64, error) {
	v, err := expr.Eval(op, item)
	if err != nil {
		return 0, err
	}
	return s.Apply(v), nil
}

func (s DivideAndFloor) param() int64 { return s.Divisor }

// ModuloBy replaces v with v mod Modulus in [0, Modulus).
//
// When Modulus is a multiple of every divisor, (v mod Modulus) mod d ==
// v mod d, so routing is unaffected while values stay below Modulus.
type ModuloBy struct {
	Modulus int64
}

// Apply implements OverflowStrategy.
func (s ModuloBy) Apply(v int64) int64 {
	m := v % s.Modulus
	if m < 0 {
		m += s.Modulus
	}
	return m
}

func (s ModuloBy) String() string {
	return fmt.Sprintf("modulo-by(%d)", s.Modulus)
}

// transform reduces inside the arithmetic, so a product of two residues
// never overflows however large Modulus is.
func (s ModuloBy) transform(op ir.Expr, item int64) (int64, error) {
	return expr.EvalMod(op, item, s.Modulus)
}

func (s ModuloBy) param() int64 { return s.Modulus }

// ErrLCMOverflow is returned when the divisors' LCM does not fit an int64.
var ErrLCMOverflow = errors.New("least common multiple overflows int64")

// ModuloByLCM returns ModuloBy with the least common multiple of every
// definition's divisor.
func ModuloByLCM(defs []ir.Definition) (ModuloBy, error) {
	l := int64(1)
	for _, d := range defs {
		if d.Divisor <= 0 {
			return ModuloBy{}, NewDivisorError(d.Index, d.Divisor)
		}
		next, err := lcm(l, d.Divisor)
		if err != nil {
			return ModuloBy{}, err
		}
		l = next
	}
	return ModuloBy{Modulus: l}, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) (int64, error) {
	q := a / gcd(a, b)
	if q > math.MaxInt64/b {
		return 0, ErrLCMOverflow
	}
	return q * b, nil
}
