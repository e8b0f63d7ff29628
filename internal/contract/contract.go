// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/ctessum/geom"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// ImageryQuery selects scenes from an imagery source.
// Zero times and a nil BBox leave that dimension unrestricted.
type ImageryQuery struct {
	Band  string // polarization band, ignored for optical
	Start time.Time
	End   time.Time
	BBox  *geom.Bounds // EPSG:4326
	Orbit schema.OrbitDirection
}

// ImageryProvider supplies stacked satellite imagery.
// This allows the pipeline to be tested without real scene archives.
type ImageryProvider interface {
	// Backscatter returns the SAR backscatter cube for the query, one band only.
	Backscatter(ctx context.Context, query ImageryQuery) (*raster.TimeSeries, error)

	// Optical returns red and near-infrared reflectance with per-scene cloud cover.
	Optical(ctx context.Context, query ImageryQuery) (*raster.OpticalSeries, error)
}

// TerrainProvider supplies static terrain rasters.
type TerrainProvider interface {
	// Terrain returns the named layer clipped to bounds (EPSG:4326), or the full
	// layer when bounds is nil.
	Terrain(ctx context.Context, layer schema.TerrainLayer, bounds *geom.Bounds) (*raster.Grid, error)

	// Has reports whether the layer can be served at all.
	Has(layer schema.TerrainLayer) bool
}

// StoreManager defines the interface for reaching the run store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking onset runs and their results.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalCells, retainedCells int) error

	// RecordFits stores the trend models of a run
	RecordFits(runID int64, fits []schema.TrendFit) error

	// RecordCells stores the retained rows of a run
	RecordCells(runID int64, rows []schema.OnsetRow) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns retrieves every run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFits retrieves every stored fit
	GetAllFits() ([]schema.FitRecord, error)

	// GetAllCells retrieves every stored cell
	GetAllCells() ([]schema.CellRecord, error)

	// Close closes the underlying connection
	Close() error
}
