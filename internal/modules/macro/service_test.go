package macro

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/finsight/finsight/internal/clients/fred"
)

const testSchema = `
CREATE TABLE macro_metrics (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    metric_code TEXT NOT NULL,
    metric_name TEXT NOT NULL,
    country     TEXT NOT NULL,
    date        INTEGER NOT NULL,
    value       REAL NOT NULL,
    unit        TEXT,
    frequency   TEXT,
    source      TEXT,
    created_at  INTEGER NOT NULL,
    UNIQUE (metric_code, country, date)
);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Series(ctx context.Context, seriesID string, start time.Time) ([]fred.Observation, error) {
	args := m.Called(ctx, seriesID, start)
	if obs := args.Get(0); obs != nil {
		return obs.([]fred.Observation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNarrator struct {
	mock.Mock
}

func (m *mockNarrator) AnalyzeMacro(ctx context.Context, country string, latest map[string]float64) (string, error) {
	args := m.Called(ctx, country, latest)
	return args.String(0), args.Error(1)
}

func observations(values ...float64) []fred.Observation {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]fred.Observation, len(values))
	for i, value := range values {
		obs[i] = fred.Observation{Date: base.AddDate(0, i, 0), Value: value}
	}
	return obs
}

func TestSyncPersistsAllSeries(t *testing.T) {
	source := new(mockSource)
	source.On("Series", mock.Anything, mock.Anything, mock.Anything).Return(observations(1.0, 2.0, 3.0), nil)

	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	svc := NewService(repo, source, nil, zerolog.Nop())

	synced, err := svc.Sync(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, len(USSeries), synced)

	latest, err := svc.Latest("US")
	require.NoError(t, err)
	require.Len(t, latest, len(USSeries))

	for _, metric := range latest {
		assert.Equal(t, 3.0, metric.Value, "latest observation wins")
		assert.Equal(t, "FRED", metric.Source)
	}
}

func TestSyncSkipsFailingSeries(t *testing.T) {
	source := new(mockSource)
	source.On("Series", mock.Anything, "GDP", mock.Anything).Return(nil, fred.ErrUnavailable)
	source.On("Series", mock.Anything, mock.Anything, mock.Anything).Return(observations(1.0), nil)

	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	svc := NewService(repo, source, nil, zerolog.Nop())

	synced, err := svc.Sync(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, len(USSeries)-1, synced)
}

func TestSyncIsIdempotent(t *testing.T) {
	source := new(mockSource)
	source.On("Series", mock.Anything, mock.Anything, mock.Anything).Return(observations(1.0, 2.0), nil)

	db := setupTestDB(t)
	repo := NewRepository(db, zerolog.Nop())
	svc := NewService(repo, source, nil, zerolog.Nop())

	_, err := svc.Sync(context.Background(), 5)
	require.NoError(t, err)
	_, err = svc.Sync(context.Background(), 5)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM macro_metrics WHERE metric_code = 'CPI'").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestHistory(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	def := SeriesDef{Code: "CPI", Name: "Consumer Price Index", Country: "US"}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, repo.SaveObservations(def, []Metric{
		{Date: now.AddDate(0, 0, -400), Value: 1.0},
		{Date: now.AddDate(0, 0, -30), Value: 2.0},
		{Date: now, Value: 3.0},
	}))

	svc := NewService(repo, nil, nil, zerolog.Nop())

	history, err := svc.History("CPI", "US", 365)
	require.NoError(t, err)
	require.Len(t, history, 2, "observation outside the window is excluded")
	assert.Equal(t, 2.0, history[0].Value)
	assert.Equal(t, 3.0, history[1].Value)
}

func TestAnalysis(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	require.NoError(t, repo.SaveObservations(
		SeriesDef{Code: "CPI", Name: "Consumer Price Index", Country: "US"},
		[]Metric{{Date: time.Now(), Value: 310.5}}))

	narrator := new(mockNarrator)
	narrator.On("AnalyzeMacro", mock.Anything, "US",
		map[string]float64{"CPI": 310.5}).Return("Inflation is cooling.", nil)

	svc := NewService(repo, nil, narrator, zerolog.Nop())

	text, err := svc.Analysis(context.Background(), "US")
	require.NoError(t, err)
	assert.Equal(t, "Inflation is cooling.", text)
	narrator.AssertExpectations(t)
}

func TestAnalysisNoData(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	svc := NewService(repo, nil, new(mockNarrator), zerolog.Nop())

	_, err := svc.Analysis(context.Background(), "US")
	assert.Error(t, err)
}
