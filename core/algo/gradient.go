package algo

// Gradient differentiates values against strictly increasing, possibly irregular coords.
// Interior points use second-order central differences; the two ends use one-sided
// first differences. Fewer than two points give a zero derivative.
func Gradient(values, coords []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = (values[1] - values[0]) / (coords[1] - coords[0])
	out[n-1] = (values[n-1] - values[n-2]) / (coords[n-1] - coords[n-2])

	for i := 1; i < n-1; i++ {
		hl := coords[i] - coords[i-1]
		hr := coords[i+1] - coords[i]
		out[i] = -hr/(hl*(hl+hr))*values[i-1] +
			(hr-hl)/(hl*hr)*values[i] +
			hl/(hr*(hl+hr))*values[i+1]
	}
	return out
}
