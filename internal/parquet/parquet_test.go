package parquet

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestExportStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"run", new(Run), []string{"run_id", "start_time", "end_time", "run_duration_ms", "total_cells", "retained_cells", "config_params"}},
		{"fit", new(Fit), []string{"run_id", "target", "intercept", "beta_elevation", "beta_heating_index", "rank", "n", "r_squared", "rmse"}},
		{"cell", new(Cell), []string{"run_id", "y", "x", "elevation", "aspect", "heating_index", "runoff_day_of_year", "ripening_day_of_year", "runoff_prediction", "ripening_prediction"}},
		{"onset", new(OnsetRecord), []string{"x", "y", "elevation", "aspect", "aspect_rescale", "heating_index", "runoff_day_of_year", "ripening_day_of_year", "runoff_prediction", "ripening_prediction"}},
		{"backscatter", new(BackscatterSample), []string{"time", "orbit", "band", "y", "x", "value"}},
		{"optical", new(OpticalSample), []string{"time", "cloud_cover", "y", "x", "red", "nir"}},
		{"grid", new(GridCell), []string{"y", "x", "value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				col, ok := s.Lookup(colName)
				require.True(t, ok, "Column %s should exist in schema", colName)
				require.NotNil(t, col, "Column %s should not be nil", colName)
			}
		})
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	data := []Run{
		{RunID: 1, StartTime: start, EndTime: &end, RunDurationMs: ptr(int32(2000)), TotalCells: ptr(int32(9)), RetainedCells: ptr(int32(3)), ConfigParams: ptr(`{"band":"gamma0_vv"}`)},
		{RunID: 2, StartTime: start.Add(time.Hour)},
	}

	require.NoError(t, WriteRunsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	readData, err := parquet.ReadFile[Run](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 2)

	assert.Equal(t, int64(1), readData[0].RunID)
	require.NotNil(t, readData[0].EndTime)
	assert.WithinDuration(t, end, *readData[0].EndTime, time.Nanosecond)
	require.NotNil(t, readData[0].RunDurationMs)
	assert.Equal(t, int32(2000), *readData[0].RunDurationMs)
	require.NotNil(t, readData[0].ConfigParams)
	assert.Equal(t, `{"band":"gamma0_vv"}`, *readData[0].ConfigParams)

	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
	assert.Nil(t, readData[1].ConfigParams)
}

func TestWriteFitsAndCellsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	fits := ConvertFitRecords([]schema.FitRecord{
		schema.NewFitRecord(7, schema.TrendFit{Target: schema.RunoffTarget, Intercept: 60, BetaElevation: 0.05, Rank: 3, N: 12, RSquared: 0.8, RMSE: 2}),
	})
	cells := ConvertCellRecords([]schema.CellRecord{
		schema.NewCellRecord(7, schema.OnsetRow{X: 1, Y: 2, Elevation: 1500, RunoffDayOfYear: 130, RipeningDayOfYear: 110, RunoffPrediction: 129.5}),
	})

	fitsPath := filepath.Join(tmpDir, "fits.parquet")
	cellsPath := filepath.Join(tmpDir, "cells.parquet")
	require.NoError(t, WriteFitsParquet(fits, fitsPath))
	require.NoError(t, WriteCellsParquet(cells, cellsPath))

	readFits, err := parquet.ReadFile[Fit](fitsPath)
	require.NoError(t, err)
	require.Len(t, readFits, 1)
	assert.Equal(t, "runoff", readFits[0].Target)
	assert.Equal(t, int32(12), readFits[0].N)
	assert.InDelta(t, 0.05, readFits[0].BetaElevation, 1e-12)

	readCells, err := parquet.ReadFile[Cell](cellsPath)
	require.NoError(t, err)
	require.Len(t, readCells, 1)
	assert.Equal(t, int64(7), readCells[0].RunID)
	assert.Equal(t, int32(130), readCells[0].RunoffDOY)
	assert.Equal(t, 129.5, readCells[0].RunoffPrediction)
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}

func TestConvertRunRecords(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []schema.RunRecord{{RunID: 3, StartTime: start, TotalCells: ptr(int32(4))}}

	runs := ConvertRunRecords(records)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(3), runs[0].RunID)
	assert.Equal(t, start, runs[0].StartTime)
	assert.Equal(t, int32(4), *runs[0].TotalCells)
	assert.Nil(t, runs[0].EndTime)
}

func TestWriteOnsetTable(t *testing.T) {
	rows := []schema.OnsetRow{
		{X: 0, Y: 1, Elevation: 1000, Aspect: 90, AspectRescale: 90, HeatingIndex: 0.2, RunoffDayOfYear: 120, RipeningDayOfYear: 100, RunoffPrediction: 121, RipeningPrediction: 99},
		{X: 1, Y: 1, Elevation: 1200, Aspect: 180, AspectRescale: 0, HeatingIndex: 0.5, RunoffDayOfYear: 128, RipeningDayOfYear: 104, RunoffPrediction: 127, RipeningPrediction: 105},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOnsetTable(&buf, rows))

	got, err := parquet.Read[OnsetRecord](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, ConvertOnsetRows(rows), got)
}

func TestConvertElevationBins(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
	}
	series := &schema.ElevationBinSeries{
		Centers: []float64{1150, 1050},
		Times:   times,
		Values:  [][]float64{{-10, -12}, {math.NaN(), math.NaN()}},
		Counts:  []int{4, 0},
	}

	records := ConvertElevationBins(series)
	require.Len(t, records, 4)
	assert.Equal(t, 1150.0, records[0].Center)
	assert.Equal(t, times[1], records[1].Time)
	require.NotNil(t, records[1].Mean)
	assert.Equal(t, -12.0, *records[1].Mean)
	assert.Equal(t, int32(4), records[1].Cells)
	assert.Nil(t, records[2].Mean)
	assert.Equal(t, int32(0), records[3].Cells)

	var buf bytes.Buffer
	require.NoError(t, WriteElevationBins(&buf, series))
	assert.Greater(t, buf.Len(), 0)
}
