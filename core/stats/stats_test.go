package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}).Float(), 1e-9)
	assert.True(t, Mean(nil).IsUndefined())
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 0.2, StdDev([]float64{0.9, 0.5, 0.7}).Float(), 1e-9)
	assert.True(t, StdDev([]float64{0.4}).IsUndefined(), "sample std needs two values")
	assert.True(t, StdDev(nil).IsUndefined())
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		q      float64
		want   float64
	}{
		{"min", []float64{1, 2, 3, 4}, 0, 1},
		{"lower quartile", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"upper quartile", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"max", []float64{1, 2, 3, 4}, 1, 4},
		// Quartiles of accuracy scores as a describe() summary reports them.
		{"scores p25", []float64{0.4, 0.55, 0.7, 0.95, 0.99, 1.0}, 0.25, 0.5875},
		{"scores p50", []float64{0.4, 0.55, 0.7, 0.95, 0.99, 1.0}, 0.5, 0.825},
		{"scores p75", []float64{0.4, 0.55, 0.7, 0.95, 0.99, 1.0}, 0.75, 0.98},
		{"single value", []float64{0.4}, 0.25, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.sorted, tt.q).Float(), 1e-9)
		})
	}
	assert.True(t, Quantile(nil, 0.5).IsUndefined())
}
