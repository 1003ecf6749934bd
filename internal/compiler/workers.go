// Package compiler reads worker definitions written in CUE.
//
// The CUE form carries the same information as the text notes:
//
//	monkey: [
//		{items: [79, 98], operation: "old * 19", test: 23, ifTrue: 2, ifFalse: 3},
//	]
//
// Operations use the text grammar and are parsed with parser.ParseOperation.
// Compiled definitions pass parser.Validate before they are returned.
package compiler

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/roach88/keepaway/internal/ir"
	"github.com/roach88/keepaway/internal/parser"
)

// RootField is the top-level field CompileString reads.
const RootField = "monkey"

var knownFields = map[string]bool{
	"label":     true,
	"items":     true,
	"operation": true,
	"test":      true,
	"ifTrue":    true,
	"ifFalse":   true,
}

// CompileString compiles CUE source and reads the worker list from its
// monkey field.
func CompileString(src string) ([]ir.Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("workers.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath(RootField))
	if !list.Exists() {
		return nil, &CompileError{
			Field:   RootField,
			Message: "worker list is required",
			Pos:     v.Pos(),
		}
	}
	return CompileWorkers(list)
}

// CompileWorkers converts a CUE list of worker structs into definitions.
//
// Returns *CompileError for missing or mistyped fields and the first
// error-severity parser.ValidationError for definitions that violate
// engine invariants.
func CompileWorkers(v cue.Value) ([]ir.Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []ir.Definition
	for i := 0; iter.Next(); i++ {
		d, err := compileWorker(i, iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}

	for _, ve := range parser.Validate(defs) {
		if ve.Severity == parser.SeverityError {
			return nil, ve
		}
	}
	return defs, nil
}

func compileWorker(index int, v cue.Value) (ir.Definition, error) {
	d := ir.Definition{Index: index, Label: index, Items: []int64{}, Pos: irPos(v.Pos())}
	field := func(name string) string {
		return fmt.Sprintf("%s[%d].%s", RootField, index, name)
	}

	fields, err := v.Fields()
	if err != nil {
		return d, formatCUEError(err)
	}
	for fields.Next() {
		if !knownFields[fields.Label()] {
			return d, &CompileError{
				Field:   field(fields.Label()),
				Message: "unknown field",
				Pos:     fields.Value().Pos(),
			}
		}
	}

	if lv := v.LookupPath(cue.ParsePath("label")); lv.Exists() {
		if d.Label, err = indexValue(lv, field("label")); err != nil {
			return d, err
		}
	}

	if iv := v.LookupPath(cue.ParsePath("items")); iv.Exists() {
		items, err := iv.List()
		if err != nil {
			return d, formatCUEError(err)
		}
		for j := 0; items.Next(); j++ {
			name := field(fmt.Sprintf("items[%d]", j))
			item, err := intValue(items.Value(), name)
			if err != nil {
				return d, err
			}
			if item < 0 {
				return d, &CompileError{
					Field:   name,
					Message: fmt.Sprintf("items must be non-negative, got %d", item),
					Pos:     items.Value().Pos(),
				}
			}
			d.Items = append(d.Items, item)
		}
	}

	ov, err := required(v, "operation", field)
	if err != nil {
		return d, err
	}
	src, err := ov.String()
	if err != nil {
		return d, formatCUEError(err)
	}
	d.Operation, err = parser.ParseOperation(src)
	if err != nil {
		return d, &CompileError{
			Field:   field("operation"),
			Message: err.Error(),
			Pos:     ov.Pos(),
		}
	}

	tv, err := required(v, "test", field)
	if err != nil {
		return d, err
	}
	if d.Divisor, err = intValue(tv, field("test")); err != nil {
		return d, err
	}

	for _, target := range []struct {
		name string
		dst  *int
	}{{"ifTrue", &d.IfTrue}, {"ifFalse", &d.IfFalse}} {
		tv, err := required(v, target.name, field)
		if err != nil {
			return d, err
		}
		if *target.dst, err = indexValue(tv, field(target.name)); err != nil {
			return d, err
		}
	}

	return d, nil
}

func required(v cue.Value, name string, field func(string) string) (cue.Value, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return fv, &CompileError{
			Field:   field(name),
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	return fv, nil
}

// intValue reads a concrete integer. Floats are rejected rather than
// truncated.
func intValue(v cue.Value, field string) (int64, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
	case cue.FloatKind, cue.NumberKind:
		return 0, &CompileError{
			Field:   field,
			Message: "float values are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("expected int, found %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	n, err := v.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

// indexValue reads an integer that must fit in an int.
func indexValue(v cue.Value, field string) (int, error) {
	n, err := intValue(v, field)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt || n > math.MaxInt {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("value %d out of int range", n),
			Pos:     v.Pos(),
		}
	}
	return int(n), nil
}

func irPos(p token.Pos) ir.Pos {
	if !p.IsValid() {
		return ir.Pos{}
	}
	return ir.Pos{Offset: p.Offset(), Line: p.Line(), Column: p.Column()}
}
