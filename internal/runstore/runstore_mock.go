package runstore

import (
	"time"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalCells, retainedCells int) error {
	args := m.Called(runID, endTime, totalCells, retainedCells)
	return args.Error(0)
}

// RecordFits implements the RunStore interface.
func (m *MockRunStore) RecordFits(runID int64, fits []schema.TrendFit) error {
	args := m.Called(runID, fits)
	return args.Error(0)
}

// RecordCells implements the RunStore interface.
func (m *MockRunStore) RecordCells(runID int64, rows []schema.OnsetRow) error {
	args := m.Called(runID, rows)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllFits implements the RunStore interface.
func (m *MockRunStore) GetAllFits() ([]schema.FitRecord, error) {
	args := m.Called()
	fits, _ := args.Get(0).([]schema.FitRecord)
	return fits, args.Error(1)
}

// GetAllCells implements the RunStore interface.
func (m *MockRunStore) GetAllCells() ([]schema.CellRecord, error) {
	args := m.Called()
	cells, _ := args.Get(0).([]schema.CellRecord)
	return cells, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
