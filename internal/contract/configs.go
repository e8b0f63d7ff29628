package contract

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 25
	MaxResultLimit        = 100000
	DefaultPrecision      = 1
	DefaultBand           = "gamma0_vv"
	DefaultCRS            = raster.EPSG4326
	DefaultBinSize        = 100.0
	DefaultCloudThreshold = 20.0
	DefaultPlotWidthCm    = 20.0
	DefaultPlotHeightCm   = 12.0
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DateFormat is the short date accepted for --start and --end.
const DateFormat = "2006-01-02"

// Input file roles, used to name the files a command requires.
const (
	BackscatterInput  = "backscatter"
	OpticalInput      = "optical"
	DEMInput          = "dem"
	AspectInput       = "aspect"
	SlopeInput        = "slope"
	HeatingIndexInput = "heating-index"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	// Long-format Parquet inputs, keyed by role
	BackscatterPath  string
	OpticalPath      string
	DEMPath          string
	AspectPath       string
	SlopePath        string
	HeatingIndexPath string

	ImageryCRS string // CRS of the backscatter and optical coordinates
	TerrainCRS string // CRS of the terrain grids, defaults to ImageryCRS

	Band          string
	StartTime     time.Time // zero means open
	EndTime       time.Time // zero means open
	BBox          *geom.Bounds
	Orbit         schema.OrbitDirection // runoff selection
	RipeningOrbit schema.OrbitDirection
	Missing       schema.MissingPolicy

	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	BinSize        float64
	NormalizeBins  bool
	CloudThreshold float64

	PlotKind     schema.PlotKind
	PlotFile     string
	PlotWidthCm  float64
	PlotHeightCm float64

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Backscatter  string `mapstructure:"backscatter"`
	Optical      string `mapstructure:"optical"`
	DEM          string `mapstructure:"dem"`
	Aspect       string `mapstructure:"aspect"`
	Slope        string `mapstructure:"slope"`
	HeatingIndex string `mapstructure:"heating-index"`
	CRS          string `mapstructure:"crs"`
	TerrainCRS   string `mapstructure:"terrain-crs"`
	Band         string `mapstructure:"band"`
	Start        string `mapstructure:"start"`
	End          string `mapstructure:"end"`
	BBox         string `mapstructure:"bbox"`
	Workers      int    `mapstructure:"workers"`
	Limit        int    `mapstructure:"limit"`
	Precision    int    `mapstructure:"precision"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Width        int    `mapstructure:"width"`
	RunBackend   string `mapstructure:"run-backend"`
	RunDBConnect string `mapstructure:"run-db-connect"`
	Color        string `mapstructure:"color"`

	// --- Fields from onsetCmd.Flags() ---
	Orbit         string `mapstructure:"orbit"`
	RipeningOrbit string `mapstructure:"ripening-orbit"`
	Missing       string `mapstructure:"missing"`

	// --- Fields from summaryCmd.Flags() and plotCmd.Flags() ---
	BinSize        float64 `mapstructure:"bin-size"`
	Normalize      bool    `mapstructure:"normalize"`
	CloudThreshold float64 `mapstructure:"cloud-threshold"`
	Kind           string  `mapstructure:"kind"`
	PlotFile       string  `mapstructure:"plot-file"`
	PlotWidth      float64 `mapstructure:"plot-width"`
	PlotHeight     float64 `mapstructure:"plot-height"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.BBox != nil {
		b := *c.BBox
		clone.BBox = &b
	}
	return &clone
}

// InputPath returns the configured path for an input role.
func (c *Config) InputPath(role string) string {
	switch role {
	case BackscatterInput:
		return c.BackscatterPath
	case OpticalInput:
		return c.OpticalPath
	case DEMInput:
		return c.DEMPath
	case AspectInput:
		return c.AspectPath
	case SlopeInput:
		return c.SlopePath
	case HeatingIndexInput:
		return c.HeatingIndexPath
	default:
		return ""
	}
}

// RequireInputs checks that every named input role has a path.
func (c *Config) RequireInputs(roles ...string) error {
	var missing []string
	for _, role := range roles {
		if c.InputPath(role) == "" {
			missing = append(missing, "--"+role)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required input(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireTerrainHeating checks that the heating index can be read or derived.
func (c *Config) RequireTerrainHeating() error {
	if c.HeatingIndexPath == "" && c.SlopePath == "" {
		return fmt.Errorf("either --heating-index or --slope is required to get a heating index")
	}
	return nil
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInputPaths(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processBBox(cfg, input); err != nil {
		return err
	}
	if err := processSummaryOptions(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the run tracking backend.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		cfg.RunBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	return ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processInputPaths checks the input files and their coordinate systems.
func processInputPaths(cfg *Config, input *ConfigRawInput) error {
	cfg.BackscatterPath = strings.TrimSpace(input.Backscatter)
	cfg.OpticalPath = strings.TrimSpace(input.Optical)
	cfg.DEMPath = strings.TrimSpace(input.DEM)
	cfg.AspectPath = strings.TrimSpace(input.Aspect)
	cfg.SlopePath = strings.TrimSpace(input.Slope)
	cfg.HeatingIndexPath = strings.TrimSpace(input.HeatingIndex)

	for _, role := range []string{BackscatterInput, OpticalInput, DEMInput, AspectInput, SlopeInput, HeatingIndexInput} {
		path := cfg.InputPath(role)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot read --%s input: %w", role, err)
		}
		if info.IsDir() {
			return fmt.Errorf("--%s input %s is a directory", role, path)
		}
	}

	cfg.ImageryCRS = strings.TrimSpace(input.CRS)
	if cfg.ImageryCRS == "" {
		cfg.ImageryCRS = DefaultCRS
	}
	if _, err := raster.ParseCRS(cfg.ImageryCRS); err != nil {
		return fmt.Errorf("invalid --crs: %w", err)
	}
	cfg.TerrainCRS = strings.TrimSpace(input.TerrainCRS)
	if cfg.TerrainCRS == "" {
		cfg.TerrainCRS = cfg.ImageryCRS
	}
	if _, err := raster.ParseCRS(cfg.TerrainCRS); err != nil {
		return fmt.Errorf("invalid --terrain-crs: %w", err)
	}
	return nil
}

// processSelection validates band, orbit and missing-sample options.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	cfg.Band = strings.ToLower(strings.TrimSpace(input.Band))
	if cfg.Band == "" {
		cfg.Band = DefaultBand
	}

	cfg.Orbit = schema.AllOrbits
	if input.Orbit != "" {
		cfg.Orbit = parseOrbitSelection(input.Orbit)
		if _, ok := schema.ValidOrbitDirections[cfg.Orbit]; !ok {
			return fmt.Errorf("invalid orbit '%s'. must be ascending, descending, all", input.Orbit)
		}
	}

	cfg.RipeningOrbit = schema.Ascending
	if input.RipeningOrbit != "" {
		cfg.RipeningOrbit = parseOrbitSelection(input.RipeningOrbit)
		if _, ok := schema.ValidOrbitDirections[cfg.RipeningOrbit]; !ok {
			return fmt.Errorf("invalid ripening orbit '%s'. must be ascending, descending, all", input.RipeningOrbit)
		}
	}

	cfg.Missing = schema.MissingSkip
	if input.Missing != "" {
		cfg.Missing = schema.MissingPolicy(strings.ToLower(input.Missing))
		if _, ok := schema.ValidMissingPolicies[cfg.Missing]; !ok {
			return fmt.Errorf("invalid missing policy '%s'. must be skip, strict", input.Missing)
		}
	}
	return nil
}

// parseOrbitSelection accepts the scene spellings plus "all".
func parseOrbitSelection(s string) schema.OrbitDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(schema.AllOrbits)) {
		return schema.AllOrbits
	}
	if dir := schema.ParseOrbitDirection(s); dir != "" {
		return dir
	}
	return schema.OrbitDirection(s)
}

// ParseDate parses a short date (2006-01-02) or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(DateTimeFormat, s)
}

// processTimeRange parses the optional time window. Empty bounds stay open.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	cfg.StartTime = time.Time{}
	cfg.EndTime = time.Time{}

	if input.Start != "" {
		t, err := ParseDate(input.Start)
		if err != nil {
			return fmt.Errorf("invalid start date format for '%s'. Expected YYYY-MM-DD or RFC3339: %w", input.Start, err)
		}
		cfg.StartTime = t
	}
	if input.End != "" {
		t, err := ParseDate(input.End)
		if err != nil {
			return fmt.Errorf("invalid end date format for '%s'. Expected YYYY-MM-DD or RFC3339: %w", input.End, err)
		}
		cfg.EndTime = t
	}

	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// ParseBBox parses "minx,miny,maxx,maxy" in EPSG:4326 degrees.
func ParseBBox(s string) (*geom.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must have 4 comma-separated values (minx,miny,maxx,maxy), got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox value %q: %w", p, err)
		}
		if math.IsNaN(f) {
			return nil, fmt.Errorf("invalid bbox value %q", p)
		}
		v[i] = f
	}
	if v[0] >= v[2] || v[1] >= v[3] {
		return nil, fmt.Errorf("bbox min must be below max (got %v)", v)
	}
	if v[0] < -180 || v[2] > 180 || v[1] < -90 || v[3] > 90 {
		return nil, fmt.Errorf("bbox must lie within longitude [-180, 180] and latitude [-90, 90]")
	}
	return &geom.Bounds{
		Min: geom.Point{X: v[0], Y: v[1]},
		Max: geom.Point{X: v[2], Y: v[3]},
	}, nil
}

// processBBox parses the optional bounding box.
func processBBox(cfg *Config, input *ConfigRawInput) error {
	cfg.BBox = nil
	if strings.TrimSpace(input.BBox) == "" {
		return nil
	}
	b, err := ParseBBox(input.BBox)
	if err != nil {
		return err
	}
	cfg.BBox = b
	return nil
}

// processSummaryOptions validates bins, cloud threshold and plot options.
func processSummaryOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.BinSize = input.BinSize
	if cfg.BinSize == 0 {
		cfg.BinSize = DefaultBinSize
	}
	if cfg.BinSize < 0 {
		return fmt.Errorf("bin-size must be positive (received %v)", input.BinSize)
	}
	cfg.NormalizeBins = input.Normalize

	cfg.CloudThreshold = input.CloudThreshold
	if cfg.CloudThreshold == 0 {
		cfg.CloudThreshold = DefaultCloudThreshold
	}
	if cfg.CloudThreshold < 0 || cfg.CloudThreshold > 100 {
		return fmt.Errorf("cloud-threshold must be between 0 and 100 (received %v)", input.CloudThreshold)
	}

	cfg.PlotKind = schema.ElevationBinsPlot
	if input.Kind != "" {
		cfg.PlotKind = schema.PlotKind(strings.ToLower(input.Kind))
		if _, ok := schema.ValidPlotKinds[cfg.PlotKind]; !ok {
			return fmt.Errorf("invalid plot kind '%s'. must be elevation-bins, hypsometry, vegetation, trend", input.Kind)
		}
	}
	cfg.PlotFile = input.PlotFile
	if cfg.PlotFile == "" {
		cfg.PlotFile = string(cfg.PlotKind) + ".png"
	}
	cfg.PlotWidthCm = input.PlotWidth
	if cfg.PlotWidthCm <= 0 {
		cfg.PlotWidthCm = DefaultPlotWidthCm
	}
	cfg.PlotHeightCm = input.PlotHeight
	if cfg.PlotHeightCm <= 0 {
		cfg.PlotHeightCm = DefaultPlotHeightCm
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
