package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface for values that have a canonical JSON form.
// There is no float variant; worry levels and counters are integers.
type Value interface {
	value()
}

// String is a JSON string.
type String string

// Int is a JSON integer, always int64.
type Int int64

// Bool is a JSON boolean.
type Bool bool

// List is a JSON array.
type List []Value

// Object is a JSON object. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (String) value() {}
func (Int) value()    {}
func (Bool) value()   {}
func (List) value()   {}
func (Object) value() {}

// Ints converts a slice of int64 into a List.
func Ints(xs []int64) List {
	l := make(List, len(xs))
	for i, x := range xs {
		l[i] = Int(x)
	}
	return l
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	return keys
}

// ExprValue returns the canonical object form of an expression.
func ExprValue(e Expr) Object {
	return Object{
		"left":  operandValue(e.Left),
		"op":    String(e.Op),
		"right": operandValue(e.Right),
	}
}

func operandValue(o Operand) Value {
	if o.Kind == OperandOld {
		return String("old")
	}
	return Int(o.Value)
}

// DefinitionValue returns the canonical object form of a definition.
// Source positions are excluded so that reformatting the input does not
// change its identity.
func DefinitionValue(d Definition) Object {
	return Object{
		"index":     Int(d.Index),
		"label":     Int(d.Label),
		"items":     Ints(d.Items),
		"operation": ExprValue(d.Operation),
		"divisor":   Int(d.Divisor),
		"if_true":   Int(d.IfTrue),
		"if_false":  Int(d.IfFalse),
	}
}

// DefinitionsValue returns the canonical list form of a definition sequence.
func DefinitionsValue(defs []Definition) List {
	l := make(List, len(defs))
	for i, d := range defs {
		l[i] = DefinitionValue(d)
	}
	return l
}
