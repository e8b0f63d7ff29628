package schema

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAspectRescale(t *testing.T) {
	tests := []struct {
		aspect float64
		want   float64
	}{
		{0, 180},   // north
		{90, 90},   // east
		{180, 0},   // south
		{270, 90},  // west
		{359, 179}, // almost north
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, AspectRescale(tt.aspect), 1e-12, "aspect %v", tt.aspect)
	}
}

func TestDayOfYear(t *testing.T) {
	assert.Equal(t, 1, DayOfYear(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 60, DayOfYear(time.Date(2020, 2, 29, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 366, DayOfYear(time.Date(2020, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(0))
	assert.True(t, IsValid(-25.3))
	assert.True(t, IsValid(math.Inf(-1)))
	assert.False(t, IsValid(math.NaN()))
}

func TestParseOrbitDirection(t *testing.T) {
	tests := []struct {
		in   string
		want OrbitDirection
	}{
		{"ascending", Ascending},
		{"ASCENDING", Ascending},
		{"D", Descending},
		{"descending", Descending},
		{"", ""},
		{"sideways", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrbitDirection(tt.in))
		})
	}
}

func TestClassifyNDVI(t *testing.T) {
	tests := []struct {
		ndvi   float64
		want   VegetationClass
		wantOK bool
	}{
		{-0.3, BareClass, true},
		{0.19, BareClass, true},
		{0.2, SparseClass, true},
		{0.6, SparseClass, true},
		{0.61, DenseClass, true},
		{math.NaN(), "", false},
	}
	for _, tt := range tests {
		got, ok := ClassifyNDVI(tt.ndvi)
		assert.Equal(t, tt.wantOK, ok, "ndvi %v", tt.ndvi)
		assert.Equal(t, tt.want, got, "ndvi %v", tt.ndvi)
	}
}
