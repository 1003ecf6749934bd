// Package metric reduces per-worker activity counters to a single score.
package metric

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrTooFewWorkers is returned when there are fewer than two counters.
	ErrTooFewWorkers = errors.New("business needs at least two workers")

	// ErrOverflow is returned when the product does not fit an int64.
	ErrOverflow = errors.New("business overflows int64")
)

// Top returns the n largest counters in descending order. If n exceeds
// len(counters) every counter is returned. The input is not modified.
func Top(counters []int64, n int) []int64 {
	sorted := slices.Clone(counters)
	slices.SortFunc(sorted, func(a, b int64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Business returns the product of the two largest counters.
func Business(counters []int64) (int64, error) {
	if len(counters) < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrTooFewWorkers, len(counters))
	}
	top := Top(counters, 2)
	a, b := top[0], top[1]
	if b != 0 && a > math.MaxInt64/b {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return a * b, nil
}
