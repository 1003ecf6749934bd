package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusiness(t *testing.T) {
	tests := []struct {
		name     string
		counters []int64
		want     int64
	}{
		{"reference divide", []int64{101, 95, 7, 105}, 10605},
		{"reference modulo", []int64{52166, 47830, 1938, 52013}, 2713310158},
		{"two workers", []int64{3, 4}, 12},
		{"ties", []int64{5, 5, 5}, 25},
		{"idle", []int64{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Business(tt.counters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBusinessErrors(t *testing.T) {
	_, err := Business([]int64{7})
	assert.ErrorIs(t, err, ErrTooFewWorkers)

	_, err = Business(nil)
	assert.ErrorIs(t, err, ErrTooFewWorkers)

	_, err = Business([]int64{math.MaxInt64, 2})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestTop(t *testing.T) {
	in := []int64{101, 95, 7, 105}

	assert.Equal(t, []int64{105, 101}, Top(in, 2))
	assert.Equal(t, []int64{105, 101, 95, 7}, Top(in, 10))
	assert.Empty(t, Top(in, 0))
	assert.Equal(t, []int64{101, 95, 7, 105}, in, "input must not be reordered")
}
