package contract

import (
	"context"

	"github.com/ctessum/geom"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/mock"
)

// MockImageryProvider is a mock implementation of ImageryProvider for testing.
type MockImageryProvider struct {
	mock.Mock
}

var _ ImageryProvider = &MockImageryProvider{} // Compile-time check

// Backscatter implements the ImageryProvider interface.
func (m *MockImageryProvider) Backscatter(ctx context.Context, query ImageryQuery) (*raster.TimeSeries, error) {
	args := m.Called(ctx, query)
	ts, _ := args.Get(0).(*raster.TimeSeries)
	return ts, args.Error(1)
}

// Optical implements the ImageryProvider interface.
func (m *MockImageryProvider) Optical(ctx context.Context, query ImageryQuery) (*raster.OpticalSeries, error) {
	args := m.Called(ctx, query)
	optical, _ := args.Get(0).(*raster.OpticalSeries)
	return optical, args.Error(1)
}

// MockTerrainProvider is a mock implementation of TerrainProvider for testing.
type MockTerrainProvider struct {
	mock.Mock
}

var _ TerrainProvider = &MockTerrainProvider{} // Compile-time check

// Terrain implements the TerrainProvider interface.
func (m *MockTerrainProvider) Terrain(ctx context.Context, layer schema.TerrainLayer, bounds *geom.Bounds) (*raster.Grid, error) {
	args := m.Called(ctx, layer, bounds)
	grid, _ := args.Get(0).(*raster.Grid)
	return grid, args.Error(1)
}

// Has implements the TerrainProvider interface.
func (m *MockTerrainProvider) Has(layer schema.TerrainLayer) bool {
	return m.Called(layer).Bool(0)
}
