package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while building or running a
// simulation.
//
// Runtime errors include:
//   - Invariant violations: a target or divisor that a conforming parser
//     never produces
//   - Transform failures: arithmetic overflow or division by zero
//   - Quota exceeded: a round that never drains
//
// All runtime errors are fatal; the run is aborted with no partial result.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Worker is the index of the affected worker, or -1.
	Worker int

	// Round is the 1-based round in progress, or 0 before round 1.
	Round int

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidTarget indicates a throw target outside the worker list.
	ErrCodeInvalidTarget RuntimeErrorCode = "INVALID_TARGET"

	// ErrCodeInvalidDivisor indicates a non-positive test divisor.
	ErrCodeInvalidDivisor RuntimeErrorCode = "INVALID_DIVISOR"

	// ErrCodeInvalidStrategy indicates a non-positive strategy parameter.
	ErrCodeInvalidStrategy RuntimeErrorCode = "INVALID_STRATEGY"

	// ErrCodeTransformFailed indicates an operation could not be evaluated.
	ErrCodeTransformFailed RuntimeErrorCode = "TRANSFORM_FAILED"

	// ErrCodeQuotaExceeded indicates a round exceeded the step quota.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeObserverFailed indicates an observer rejected an event.
	ErrCodeObserverFailed RuntimeErrorCode = "OBSERVER_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Worker >= 0 && e.Round > 0:
		msg = fmt.Sprintf("%s (worker=%d, round=%d)", msg, e.Worker, e.Round)
	case e.Worker >= 0:
		msg = fmt.Sprintf("%s (worker=%d)", msg, e.Worker)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsInvariantError returns true for errors caused by definitions that
// violate engine invariants. Uses errors.As to handle wrapped errors.
func IsInvariantError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		switch re.Code {
		case ErrCodeInvalidTarget, ErrCodeInvalidDivisor, ErrCodeInvalidStrategy:
			return true
		}
	}
	return false
}

// IsQuotaError returns true if the error is a quota exceeded error.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	return false
}

// NewTargetError creates a RuntimeError for an out-of-range target.
func NewTargetError(worker, target, n int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidTarget,
		Message: fmt.Sprintf("target %d is outside 0..%d", target, n-1),
		Worker:  worker,
		Details: map[string]string{
			"target":  fmt.Sprintf("%d", target),
			"workers": fmt.Sprintf("%d", n),
		},
	}
}

// NewDivisorError creates a RuntimeError for a non-positive divisor.
func NewDivisorError(worker int, divisor int64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidDivisor,
		Message: fmt.Sprintf("divisor must be positive, got %d", divisor),
		Worker:  worker,
	}
}

// NewQuotaError creates a RuntimeError for a round that exceeded its quota.
func NewQuotaError(worker, round, maxSteps int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("round exceeded max steps (%d)", maxSteps),
		Worker:  worker,
		Round:   round,
		Details: map[string]string{
			"max_steps": fmt.Sprintf("%d", maxSteps),
		},
	}
}
