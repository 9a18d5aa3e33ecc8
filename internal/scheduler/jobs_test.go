package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/modules/analysis"
	"github.com/finsight/finsight/internal/modules/assets"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) List(assetType string) ([]assets.Asset, error) {
	args := m.Called(assetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assets.Asset), args.Error(1)
}

func (m *mockCatalog) History(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	args := m.Called(ctx, symbol, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bar), args.Error(1)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, symbol string, days int, benchmark string, withNarrative bool) (*analysis.Result, error) {
	args := m.Called(ctx, symbol, days, benchmark, withNarrative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

func trackedAssets(symbols ...string) []assets.Asset {
	out := make([]assets.Asset, len(symbols))
	for i, symbol := range symbols {
		out[i] = assets.Asset{ID: int64(i + 1), Symbol: symbol}
	}
	return out
}

func TestPriceSyncJobContinuesPastFailures(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("List", "").Return(trackedAssets("AAPL", "MSFT", "GOOG"), nil)
	catalog.On("History", mock.Anything, "AAPL", 365).Return([]domain.Bar{}, nil)
	catalog.On("History", mock.Anything, "MSFT", 365).Return(nil, errors.New("upstream down"))
	catalog.On("History", mock.Anything, "GOOG", 365).Return([]domain.Bar{}, nil)

	job := NewPriceSyncJob(catalog, 0, zerolog.Nop())
	require.NoError(t, job.Run())
	catalog.AssertExpectations(t)
}

func TestPriceSyncJobPropagatesListError(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("List", "").Return(nil, errors.New("db down"))

	job := NewPriceSyncJob(catalog, 365, zerolog.Nop())
	assert.Error(t, job.Run())
}

func TestMetricsSnapshotJobSkipsNarratives(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("List", "").Return(trackedAssets("AAPL"), nil)

	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "AAPL", 90, "", false).
		Return(&analysis.Result{Symbol: "AAPL"}, nil)

	job := NewMetricsSnapshotJob(catalog, analyzer, 90, zerolog.Nop())
	require.NoError(t, job.Run())
	analyzer.AssertExpectations(t)
}

type stubAlerts struct {
	triggered int
	err       error
	calls     int
}

func (s *stubAlerts) CheckAlerts(ctx context.Context) (int, error) {
	s.calls++
	return s.triggered, s.err
}

func TestAlertCheckJob(t *testing.T) {
	alerts := &stubAlerts{triggered: 2}
	job := NewAlertCheckJob(alerts, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, 1, alerts.calls)

	alerts.err = errors.New("quote provider down")
	assert.Error(t, job.Run())
}

type stubPruner struct {
	retention time.Duration
}

func (s *stubPruner) Prune(retention time.Duration) (int64, error) {
	s.retention = retention
	return 3, nil
}

func TestNewsPruneJobPassesRetention(t *testing.T) {
	pruner := &stubPruner{}
	job := NewNewsPruneJob(pruner, 30*24*time.Hour, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, 30*24*time.Hour, pruner.retention)
}

func TestSchedulerRunNow(t *testing.T) {
	alerts := &stubAlerts{}
	job := NewAlertCheckJob(alerts, zerolog.Nop())

	s := New(zerolog.Nop())
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, alerts.calls)
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.AddJob("not a schedule", NewAlertCheckJob(&stubAlerts{}, zerolog.Nop()))
	assert.Error(t, err)
}
