package parser

import (
	"fmt"

	"github.com/roach88/keepaway/internal/expr"
	"github.com/roach88/keepaway/internal/ir"
)

// Validate checks definitions produced by any front end (text or CUE)
// against the invariants the engine relies on.
// Returns all findings; it does not stop at the first one.
func Validate(defs []ir.Definition) []ValidationError {
	var errs []ValidationError

	if len(defs) == 0 {
		return []ValidationError{{
			Field:    "workers",
			Message:  "at least one worker is required",
			Code:     ErrCodeNoDefinitions,
			Severity: SeverityError,
		}}
	}

	labels := make(map[int]int, len(defs))
	for i, d := range defs {
		field := func(name string) string {
			return fmt.Sprintf("workers[%d].%s", i, name)
		}

		if d.Divisor <= 0 {
			errs = append(errs, ValidationError{
				Field:    field("divisor"),
				Message:  fmt.Sprintf("divisor must be positive, got %d", d.Divisor),
				Code:     ErrCodeDivisor,
				Severity: SeverityError,
				Line:     d.Pos.Line,
			})
		}

		for j, item := range d.Items {
			if item < 0 {
				errs = append(errs, ValidationError{
					Field:    field(fmt.Sprintf("items[%d]", j)),
					Message:  fmt.Sprintf("starting item must be non-negative, got %d", item),
					Code:     ErrCodeNegativeItem,
					Severity: SeverityError,
					Line:     d.Pos.Line,
				})
			}
		}

		if err := expr.Check(d.Operation); err != nil {
			errs = append(errs, ValidationError{
				Field:    field("operation"),
				Message:  err.Error(),
				Code:     ErrCodeOperation,
				Severity: SeverityError,
				Line:     d.Pos.Line,
			})
		}

		for _, tgt := range []struct {
			name  string
			value int
		}{{"if_true", d.IfTrue}, {"if_false", d.IfFalse}} {
			if tgt.value < 0 || tgt.value >= len(defs) {
				errs = append(errs, ValidationError{
					Field:    field(tgt.name),
					Message:  fmt.Sprintf("target %d is outside 0..%d", tgt.value, len(defs)-1),
					Code:     ErrCodeTargetRange,
					Severity: SeverityError,
					Line:     d.Pos.Line,
				})
			}
		}

		if prev, ok := labels[d.Label]; ok {
			errs = append(errs, ValidationError{
				Field:    field("label"),
				Message:  fmt.Sprintf("label %d already used by worker %d", d.Label, prev),
				Code:     ErrCodeDuplicateLabel,
				Severity: SeverityWarning,
				Line:     d.Pos.Line,
			})
		} else {
			labels[d.Label] = i
		}

		if d.Label != i {
			errs = append(errs, ValidationError{
				Field:    field("label"),
				Message:  fmt.Sprintf("header says %d but worker is at position %d; routing uses the position", d.Label, i),
				Code:     ErrCodeLabelMismatch,
				Severity: SeverityWarning,
				Line:     d.Pos.Line,
			})
		}
	}

	return errs
}
