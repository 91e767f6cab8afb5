package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-12)
}

func TestQuantileIndex(t *testing.T) {
	tests := []struct {
		n     int
		alpha float64
		want  int
	}{
		{n: 0, alpha: 0.05, want: -1},
		{n: 100, alpha: 0.05, want: 5},
		{n: 100, alpha: 0.01, want: 1},
		{n: 10, alpha: 0.01, want: 0},
		{n: 100, alpha: 0.999999, want: 99},
		{n: 1, alpha: 0.5, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuantileIndex(tt.n, tt.alpha),
			"n=%d alpha=%g", tt.n, tt.alpha)
	}
}

func TestTailMean(t *testing.T) {
	sorted := []float64{-0.05, -0.03, -0.01, 0.0, 0.02}

	assert.InDelta(t, -0.05, TailMean(sorted, 0), 1e-12)
	assert.InDelta(t, -0.04, TailMean(sorted, 1), 1e-12)
	assert.InDelta(t, -0.03, TailMean(sorted, 2), 1e-12)
	assert.Equal(t, 0.0, TailMean(sorted, -1))

	// Out-of-range index clamps to the full sample.
	assert.InDelta(t, Mean(sorted), TailMean(sorted, 10), 1e-12)
}
