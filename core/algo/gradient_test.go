package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradient(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		coords []float64
		want   []float64
	}{
		{
			name:   "linear on irregular spacing",
			values: []float64{1, 3, 4, 9},
			coords: []float64{0, 1, 1.5, 4},
			want:   []float64{2, 2, 2, 2},
		},
		{
			name:   "quadratic interior is exact",
			values: []float64{0, 1, 9, 16},
			coords: []float64{0, 1, 3, 4},
			want:   []float64{1, 2, 6, 7},
		},
		{
			name:   "two points",
			values: []float64{4, 2},
			coords: []float64{0, 0.5},
			want:   []float64{-4, -4},
		},
		{
			name:   "single point",
			values: []float64{4},
			coords: []float64{0},
			want:   []float64{0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, Gradient(tt.values, tt.coords), 1e-9)
		})
	}
}
