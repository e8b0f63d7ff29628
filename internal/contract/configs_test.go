package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a minimal raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:      10,
		Workers:    4,
		Precision:  1,
		Output:     "text",
		Color:      "yes",
		RunBackend: string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidate(t *testing.T) {
	dir := t.TempDir()
	bsPath := filepath.Join(dir, "backscatter.parquet")
	require.NoError(t, os.WriteFile(bsPath, []byte("x"), 0o644))

	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{name: "invalid limit (zero)", modify: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "invalid limit (too large)", modify: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "invalid workers (negative)", modify: func(in *ConfigRawInput) { in.Workers = -1 }, expectError: true},
		{name: "invalid precision (too high)", modify: func(in *ConfigRawInput) { in.Precision = 5 }, expectError: true},
		{name: "invalid output format", modify: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet output without file", modify: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet output with file", modify: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = filepath.Join(dir, "out.parquet")
		}},
		{name: "invalid color", modify: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid run backend", modify: func(in *ConfigRawInput) { in.RunBackend = "redis" }, expectError: true},
		{name: "mysql backend without connection string", modify: func(in *ConfigRawInput) { in.RunBackend = "mysql" }, expectError: true},
		{name: "mysql backend with connection string", modify: func(in *ConfigRawInput) {
			in.RunBackend = "mysql"
			in.RunDBConnect = "user:pass@tcp(localhost:3306)/s1snow"
		}},
		{name: "none backend", modify: func(in *ConfigRawInput) { in.RunBackend = "none" }},
		{name: "existing input file", modify: func(in *ConfigRawInput) { in.Backscatter = bsPath }},
		{name: "missing input file", modify: func(in *ConfigRawInput) { in.DEM = filepath.Join(dir, "nope.parquet") }, expectError: true},
		{name: "directory as input", modify: func(in *ConfigRawInput) { in.Aspect = dir }, expectError: true},
		{name: "utm crs", modify: func(in *ConfigRawInput) { in.CRS = "EPSG:32610" }},
		{name: "unsupported crs", modify: func(in *ConfigRawInput) { in.CRS = "EPSG:2154" }, expectError: true},
		{name: "invalid orbit", modify: func(in *ConfigRawInput) { in.Orbit = "sideways" }, expectError: true},
		{name: "short orbit spelling", modify: func(in *ConfigRawInput) { in.RipeningOrbit = "D" }},
		{name: "invalid missing policy", modify: func(in *ConfigRawInput) { in.Missing = "fill" }, expectError: true},
		{name: "start after end", modify: func(in *ConfigRawInput) {
			in.Start = "2024-06-01"
			in.End = "2024-01-01"
		}, expectError: true},
		{name: "invalid start", modify: func(in *ConfigRawInput) { in.Start = "6 months ago" }, expectError: true},
		{name: "invalid bbox", modify: func(in *ConfigRawInput) { in.BBox = "1,2,3" }, expectError: true},
		{name: "negative bin size", modify: func(in *ConfigRawInput) { in.BinSize = -50 }, expectError: true},
		{name: "cloud threshold out of range", modify: func(in *ConfigRawInput) { in.CloudThreshold = 150 }, expectError: true},
		{name: "invalid plot kind", modify: func(in *ConfigRawInput) { in.Kind = "pie" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
				assert.Equal(t, input.Limit, cfg.ResultLimit)
			}
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, DefaultBand, cfg.Band)
	assert.Equal(t, DefaultCRS, cfg.ImageryCRS)
	assert.Equal(t, cfg.ImageryCRS, cfg.TerrainCRS)
	assert.Equal(t, schema.AllOrbits, cfg.Orbit)
	assert.Equal(t, schema.Ascending, cfg.RipeningOrbit)
	assert.Equal(t, schema.MissingSkip, cfg.Missing)
	assert.True(t, cfg.StartTime.IsZero())
	assert.True(t, cfg.EndTime.IsZero())
	assert.Nil(t, cfg.BBox)
	assert.Equal(t, DefaultBinSize, cfg.BinSize)
	assert.Equal(t, DefaultCloudThreshold, cfg.CloudThreshold)
	assert.Equal(t, schema.ElevationBinsPlot, cfg.PlotKind)
	assert.Equal(t, "elevation-bins.png", cfg.PlotFile)
	assert.Equal(t, schema.SQLiteBackend, cfg.RunBackend)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidate_Selection(t *testing.T) {
	input := validInput()
	input.Start = "2024-03-01"
	input.End = "2024-07-15T12:00:00Z"
	input.BBox = "-121.8, 46.7, -121.6, 46.9"
	input.Orbit = "DESCENDING"
	input.Missing = "strict"
	input.Band = "GAMMA0_VH"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cfg.StartTime)
	assert.Equal(t, time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), cfg.EndTime)
	require.NotNil(t, cfg.BBox)
	assert.Equal(t, -121.8, cfg.BBox.Min.X)
	assert.Equal(t, 46.9, cfg.BBox.Max.Y)
	assert.Equal(t, schema.Descending, cfg.Orbit)
	assert.Equal(t, schema.MissingStrict, cfg.Missing)
	assert.Equal(t, "gamma0_vh", cfg.Band)
}

func TestRequireInputs(t *testing.T) {
	cfg := &Config{BackscatterPath: "bs.parquet", DEMPath: "dem.parquet"}

	assert.NoError(t, cfg.RequireInputs(BackscatterInput, DEMInput))

	err := cfg.RequireInputs(BackscatterInput, AspectInput, OpticalInput)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--aspect")
	assert.Contains(t, err.Error(), "--optical")

	assert.Error(t, cfg.RequireTerrainHeating())
	cfg.SlopePath = "slope.parquet"
	assert.NoError(t, cfg.RequireTerrainHeating())
}

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "-121.8,46.7,-121.6,46.9", false},
		{"spaces", " 10 , 20 , 11 , 21 ", false},
		{"three values", "1,2,3", true},
		{"not a number", "a,2,3,4", true},
		{"inverted", "3,4,1,2", true},
		{"out of range", "-200,0,0,1", true},
		{"nan", "NaN,0,1,1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBBox(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/s1snow", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/s1snow", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost user=u password=p dbname=s1snow", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost user=u", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	bbox, err := ParseBBox("0,0,1,1")
	require.NoError(t, err)
	cfg := &Config{Band: "gamma0_vv", BBox: bbox}

	clone := cfg.Clone()
	clone.BBox.Max.X = 5
	clone.Band = "gamma0_vh"

	assert.Equal(t, 1.0, cfg.BBox.Max.X)
	assert.Equal(t, "gamma0_vv", cfg.Band)
}
