package schema

import "errors"

// Structural input errors. Per-pixel gaps are never reported through these;
// they surface as an invalid Onset instead.
var (
	// ErrEmptyInput is returned when a selection leaves no time steps to work with.
	ErrEmptyInput = errors.New("empty input: no time steps left after selection")

	// ErrDegenerateInput is returned when too few valid rows remain for regression.
	ErrDegenerateInput = errors.New("degenerate input: need at least 3 valid rows to fit a trend")
)
