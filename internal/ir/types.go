package ir

import (
	"fmt"
	"strconv"
)

// OperandKind distinguishes the runtime input from a fixed literal.
type OperandKind int

const (
	// OperandOld resolves to the item being transformed.
	OperandOld OperandKind = iota + 1
	// OperandLiteral resolves to Operand.Value regardless of input.
	OperandLiteral
)

// Operand is one side of an Expr.
type Operand struct {
	Kind  OperandKind `json:"kind"`
	Value int64       `json:"value,omitempty"`
}

// Old returns the operand that refers to the input value.
func Old() Operand {
	return Operand{Kind: OperandOld}
}

// Lit returns a literal operand.
func Lit(v int64) Operand {
	return Operand{Kind: OperandLiteral, Value: v}
}

// String renders the operand the way it appears in source text.
func (o Operand) String() string {
	if o.Kind == OperandOld {
		return "old"
	}
	return strconv.FormatInt(o.Value, 10)
}

// Operator is an arithmetic operator token.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Valid reports whether op is one of the four supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Expr is the right-hand side of "new = <operand> <op> <operand>".
//
// Expr is comparable with == so two definitions can be checked for
// identical transforms without evaluating them.
type Expr struct {
	Left  Operand  `json:"left"`
	Op    Operator `json:"op"`
	Right Operand  `json:"right"`
}

// String renders the expression in source form, e.g. "old * 19".
func (e Expr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
}

// Pos is a position in source text.
// Offset is a 0-based byte offset; Line and Column are 1-based.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Definition describes one worker.
//
// Index is the position of the definition in its sequence and is the only
// identity used for routing. Label is the ordinal written in the
// "Monkey N:" header and is informational.
type Definition struct {
	Index     int     `json:"index"`
	Label     int     `json:"label"`
	Items     []int64 `json:"items"`
	Operation Expr    `json:"operation"`
	Divisor   int64   `json:"divisor"`
	IfTrue    int     `json:"if_true"`
	IfFalse   int     `json:"if_false"`
	Pos       Pos     `json:"pos"`
}

// Target returns the index a value is routed to.
func (d Definition) Target(v int64) int {
	if v%d.Divisor == 0 {
		return d.IfTrue
	}
	return d.IfFalse
}

// Clone returns a copy that shares no memory with d.
func (d Definition) Clone() Definition {
	c := d
	c.Items = append([]int64(nil), d.Items...)
	return c
}
