package history

import (
	"time"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetRunStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetRunStore() contract.RunStore {
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
func (m *MockRunStore) BeginRun(startTime time.Time, inputPath string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, inputPath, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordChart implements the RunStore interface.
func (m *MockRunStore) RecordChart(runID int64, outcome schema.ChartOutcome) error {
	args := m.Called(runID, outcome)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalRecords, totalCharts, failedCharts int) error {
	args := m.Called(runID, endTime, totalRecords, totalCharts, failedCharts)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllSeries implements the RunStore interface.
func (m *MockRunStore) GetAllSeries() ([]schema.SeriesRecord, error) {
	args := m.Called()
	series, _ := args.Get(0).([]schema.SeriesRecord)
	return series, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
