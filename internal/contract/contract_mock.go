package contract

import (
	"io"
	"time"

	"github.com/huangsam/weightplot/schema"
	"github.com/stretchr/testify/mock"
)

// MockRenderer is a mock implementation of Renderer for testing.
type MockRenderer struct {
	mock.Mock
}

var _ Renderer = &MockRenderer{} // Compile-time check

// Render implements the Renderer interface.
func (m *MockRenderer) Render(spec schema.ChartSpec, w io.Writer) error {
	args := m.Called(spec, w)
	return args.Error(0)
}

// Extension implements the Renderer interface.
func (m *MockRenderer) Extension() string {
	args := m.Called()
	return args.String(0)
}

// MockSummaryWriter is a mock implementation of SummaryWriter for testing.
type MockSummaryWriter struct {
	mock.Mock
}

var _ SummaryWriter = &MockSummaryWriter{} // Compile-time check

// WriteSummaries implements the SummaryWriter interface.
func (m *MockSummaryWriter) WriteSummaries(summaries []schema.SeriesSummary, parse schema.ParseStats, cfg *Config, duration time.Duration) error {
	args := m.Called(summaries, parse, cfg, duration)
	return args.Error(0)
}
