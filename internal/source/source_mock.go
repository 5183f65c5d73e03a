package source

import (
	"context"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockReleaseSource is a mock implementation of ReleaseSource for testing.
type MockReleaseSource struct {
	mock.Mock
}

var _ contract.ReleaseSource = &MockReleaseSource{} // Compile-time check

// FetchSeries implements the ReleaseSource interface.
func (m *MockReleaseSource) FetchSeries(ctx context.Context, release string, bucket schema.BucketWidth) ([]schema.Series, error) {
	args := m.Called(ctx, release, bucket)
	series, _ := args.Get(0).([]schema.Series)
	return series, args.Error(1)
}

// FetchSummary implements the ReleaseSource interface.
func (m *MockReleaseSource) FetchSummary(ctx context.Context, release string) (schema.SummaryMetrics, error) {
	args := m.Called(ctx, release)
	summary, _ := args.Get(0).(schema.SummaryMetrics)
	return summary, args.Error(1)
}

// ListReleases implements the ReleaseSource interface.
func (m *MockReleaseSource) ListReleases(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	releases, _ := args.Get(0).([]string)
	return releases, args.Error(1)
}

// GetStatus implements the ReleaseSource interface.
func (m *MockReleaseSource) GetStatus() (schema.SourceStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SourceStatus), args.Error(1)
}

// Close implements the ReleaseSource interface.
func (m *MockReleaseSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
