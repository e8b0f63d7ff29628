package schema

// Custom string types for type safety.
type (
	// OrbitDirection represents the satellite pass direction of a scene.
	OrbitDirection string

	// MissingPolicy controls how missing samples inside a pixel series are treated.
	MissingPolicy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run tracking.
	DatabaseBackend string

	// RejectReason names why a joined row was dropped before regression.
	RejectReason string

	// TrendTarget names the onset column a trend model predicts.
	TrendTarget string

	// TerrainLayer names a terrain raster served by a TerrainProvider.
	TerrainLayer string

	// PlotKind represents a diagnostic plot.
	PlotKind string

	// VegetationClass is an NDVI-derived land cover class.
	VegetationClass string
)

// All orbit directions supported.
const (
	Ascending  OrbitDirection = "ascending" // default for ripening onset
	Descending OrbitDirection = "descending"
	AllOrbits  OrbitDirection = "all" // selection only, never a scene attribute
)

// All missing-sample policies supported.
const (
	MissingSkip   MissingPolicy = "skip" // default
	MissingStrict MissingPolicy = "strict"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Reject reasons produced by the terrain joiner.
const (
	RejectMissingElevation    RejectReason = "missing_elevation"
	RejectMissingAspect       RejectReason = "missing_aspect"
	RejectMissingHeatingIndex RejectReason = "missing_heating_index"
	RejectUndefinedRunoff     RejectReason = "undefined_runoff"
	RejectUndefinedRipening   RejectReason = "undefined_ripening"
)

// Trend targets.
const (
	RunoffTarget   TrendTarget = "runoff"
	RipeningTarget TrendTarget = "ripening"
)

// Terrain layers.
const (
	DEMLayer          TerrainLayer = "dem"
	AspectLayer       TerrainLayer = "aspect"
	SlopeLayer        TerrainLayer = "slope"
	HeatingIndexLayer TerrainLayer = "heating_index"
)

// All plot kinds supported.
const (
	ElevationBinsPlot PlotKind = "elevation-bins" // default
	HypsometryPlot    PlotKind = "hypsometry"
	VegetationPlot    PlotKind = "vegetation"
	TrendPlot         PlotKind = "trend"
)

// Vegetation classes, split on NDVI thresholds.
const (
	BareClass   VegetationClass = "bare"   // NDVI < 0.2
	SparseClass VegetationClass = "sparse" // 0.2 <= NDVI <= 0.6
	DenseClass  VegetationClass = "dense"  // NDVI > 0.6
)

// NDVI class thresholds.
const (
	SparseNDVIThreshold = 0.2
	DenseNDVIThreshold  = 0.6
)

// AllRejectReasons lists reject reasons in the order ValidateRow checks them.
var AllRejectReasons = []RejectReason{
	RejectMissingElevation,
	RejectMissingAspect,
	RejectMissingHeatingIndex,
	RejectUndefinedRunoff,
	RejectUndefinedRipening,
}

// AllVegetationClasses lists vegetation classes from least to most vegetated.
var AllVegetationClasses = []VegetationClass{BareClass, SparseClass, DenseClass}

// ValidOrbitDirections lists orbit selections accepted in configuration.
var ValidOrbitDirections = map[OrbitDirection]struct{}{
	Ascending:  {},
	Descending: {},
	AllOrbits:  {},
}

// ValidMissingPolicies lists all valid missing-sample policies.
var ValidMissingPolicies = map[MissingPolicy]struct{}{
	MissingSkip:   {},
	MissingStrict: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPlotKinds lists all valid plot kinds.
var ValidPlotKinds = map[PlotKind]struct{}{
	ElevationBinsPlot: {},
	HypsometryPlot:    {},
	VegetationPlot:    {},
	TrendPlot:         {},
}
