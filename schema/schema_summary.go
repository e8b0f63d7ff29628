package schema

import "time"

// ElevationBinSeries is the mean backscatter per elevation bin per time step.
// Values is indexed [bin][time]; empty bins hold NaN.
type ElevationBinSeries struct {
	Centers    []float64   `json:"centers"` // meters, descending
	Times      []time.Time `json:"times"`
	Values     [][]float64 `json:"values"`
	Counts     []int       `json:"counts"` // cells per bin
	Normalized bool        `json:"normalized"`
}

// HypsometryBin is one bar of the elevation histogram.
type HypsometryBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// VegetationSummary aggregates the cells of one vegetation class.
type VegetationSummary struct {
	Class           VegetationClass `json:"class"`
	Cells           int             `json:"cells"`
	RunoffCells     int             `json:"runoff_cells"` // cells with a defined runoff onset
	MedianRunoffDOY float64         `json:"median_runoff_doy"`
	Times           []time.Time     `json:"times"`
	MeanBackscatter []float64       `json:"mean_backscatter"`
}

// SummaryReport bundles the supplementary analyses of a summary run.
type SummaryReport struct {
	ElevationBins *ElevationBinSeries `json:"elevation_bins,omitempty"`
	Hypsometry    []HypsometryBin     `json:"hypsometry,omitempty"`
	Vegetation    []VegetationSummary `json:"vegetation,omitempty"`
}
