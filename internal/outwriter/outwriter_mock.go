package outwriter

import (
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockResultWriter is a mock implementation of ResultWriter for testing.
type MockResultWriter struct {
	mock.Mock
}

var _ contract.ResultWriter = &MockResultWriter{} // Compile-time check

// WriteComparison implements the ResultWriter interface.
func (m *MockResultWriter) WriteComparison(snapshot schema.ComparisonSnapshot, cfg *contract.Config) error {
	return m.Called(snapshot, cfg).Error(0)
}

// WriteChart implements the ResultWriter interface.
func (m *MockResultWriter) WriteChart(snapshot schema.ChartSnapshot, cfg *contract.Config) error {
	return m.Called(snapshot, cfg).Error(0)
}

// WriteWindows implements the ResultWriter interface.
func (m *MockResultWriter) WriteWindows(options []schema.WindowOption, cfg *contract.Config) error {
	return m.Called(options, cfg).Error(0)
}

// WriteReleases implements the ResultWriter interface.
func (m *MockResultWriter) WriteReleases(releases []string, cfg *contract.Config) error {
	return m.Called(releases, cfg).Error(0)
}

// WriteSourceStatus implements the ResultWriter interface.
func (m *MockResultWriter) WriteSourceStatus(status schema.SourceStatus, cfg *contract.Config) error {
	return m.Called(status, cfg).Error(0)
}
