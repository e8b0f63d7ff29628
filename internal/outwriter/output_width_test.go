package outwriter

import (
	"testing"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestGetOnsetTableLayout(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected onsetTableLayout
	}{
		{"narrow", 60, onsetTableLayout{}},
		{"just narrow", narrowTableWidth - 1, onsetTableLayout{}},
		{"medium", narrowTableWidth, onsetTableLayout{Aspect: true}},
		{"wide", wideTableWidth, onsetTableLayout{Aspect: true, Predictions: true}},
		{"very wide", 300, onsetTableLayout{Aspect: true, Predictions: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getOnsetTableLayout(&contract.Config{Width: tt.width}))
		})
	}
}

func TestGetTermWidth(t *testing.T) {
	assert.Equal(t, 133, getTermWidth(&contract.Config{Width: 133}))

	// Detected or fallback, never zero
	assert.Positive(t, getTermWidth(&contract.Config{}))
}
