package parser

import (
	"fmt"

	"github.com/roach88/keepaway/internal/ir"
)

// ParseError reports the first construct the parser could not match.
//
// Pos points into the text given to Parse after CRLF normalization.
// Expected names the construct that was required at Pos and Found quotes
// what was there instead.
type ParseError struct {
	Pos      ir.Pos
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%s: expected %s", e.Pos, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Validation error codes (E200-E299).
const (
	ErrCodeNoDefinitions  = "E201" // at least one worker is required
	ErrCodeTargetRange    = "E202" // throw target outside the definition list
	ErrCodeDivisor        = "E203" // divisor must be positive
	ErrCodeOperation      = "E204" // operation cannot be evaluated (e.g. "/ 0")
	ErrCodeDuplicateLabel = "E205" // two headers carry the same ordinal
	ErrCodeLabelMismatch  = "E206" // header ordinal differs from position
	ErrCodeNegativeItem   = "E207" // starting item below zero
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError is one finding from Validate.
type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
