package schema

import (
	"math"
	"time"
)

// IsValid reports whether a sample carries a reading. NaN marks no-data.
func IsValid(v float64) bool {
	return !math.IsNaN(v)
}

// AspectRescale folds an aspect in degrees onto its distance from south, |aspect - 180|.
func AspectRescale(aspect float64) float64 {
	return math.Abs(aspect - 180)
}

// DayOfYear returns the ordinal day of t in its own location.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// ParseOrbitDirection maps provider spellings such as "ASCENDING" onto an OrbitDirection.
// Unknown spellings return the empty direction.
func ParseOrbitDirection(s string) OrbitDirection {
	switch s {
	case "ascending", "ASCENDING", "Ascending", "asc", "A":
		return Ascending
	case "descending", "DESCENDING", "Descending", "desc", "D":
		return Descending
	default:
		return ""
	}
}

// ClassifyNDVI returns the vegetation class of an NDVI value.
func ClassifyNDVI(ndvi float64) (VegetationClass, bool) {
	switch {
	case !IsValid(ndvi):
		return "", false
	case ndvi < SparseNDVIThreshold:
		return BareClass, true
	case ndvi <= DenseNDVIThreshold:
		return SparseClass, true
	default:
		return DenseClass, true
	}
}
