package news

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

	"github.com/finsight/finsight/internal/modules/assets"
)

const testSchema = `
CREATE TABLE news (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    asset_id        INTEGER,
    title           TEXT NOT NULL,
    content         TEXT,
    summary         TEXT,
    source          TEXT,
    source_url      TEXT UNIQUE,
    published_at    INTEGER NOT NULL,
    sentiment       TEXT,
    relevance_score REAL,
    created_at      INTEGER NOT NULL
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

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Ensure(ctx context.Context, symbol string) (*assets.Asset, error) {
	args := m.Called(ctx, symbol)
	if asset := args.Get(0); asset != nil {
		return asset.(*assets.Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(t *testing.T, catalog AssetCatalog) *Service {
	return NewService(NewRepository(setupTestDB(t), zerolog.Nop()), catalog, zerolog.Nop())
}

func TestIngestTagsSentimentAndAsset(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("Ensure", mock.Anything, "AAPL").Return(&assets.Asset{ID: 7, Symbol: "AAPL"}, nil)

	svc := newTestService(t, catalog)

	article := &Article{
		Title:       "Apple shares surge on record profit",
		PublishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	inserted, err := svc.Ingest(context.Background(), "AAPL", article)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, SentimentPositive, article.Sentiment)
	require.NotNil(t, article.AssetID)
	assert.Equal(t, int64(7), *article.AssetID)

	articles, err := svc.ForAsset(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Apple shares surge on record profit", articles[0].Title)
}

func TestIngestKeepsCallerSentiment(t *testing.T) {
	svc := newTestService(t, new(mockCatalog))

	article := &Article{Title: "Shares surge", Sentiment: SentimentNegative}
	_, err := svc.Ingest(context.Background(), "", article)
	require.NoError(t, err)
	assert.Equal(t, SentimentNegative, article.Sentiment)
}

func TestIngestDeduplicatesByURL(t *testing.T) {
	svc := newTestService(t, new(mockCatalog))

	first := &Article{Title: "Market update", SourceURL: "https://example.com/a"}
	inserted, err := svc.Ingest(context.Background(), "", first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := &Article{Title: "Market update again", SourceURL: "https://example.com/a"}
	inserted, err = svc.Ingest(context.Background(), "", second)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestIngestRequiresTitle(t *testing.T) {
	svc := newTestService(t, new(mockCatalog))

	_, err := svc.Ingest(context.Background(), "", &Article{Title: "   "})
	assert.Error(t, err)
}

func TestMarketExcludesAssetNews(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("Ensure", mock.Anything, "AAPL").Return(&assets.Asset{ID: 7, Symbol: "AAPL"}, nil)

	svc := newTestService(t, catalog)

	_, err := svc.Ingest(context.Background(), "AAPL", &Article{Title: "Asset story"})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), "", &Article{Title: "Market story"})
	require.NoError(t, err)

	articles, err := svc.Market(10)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Market story", articles[0].Title)
}

func TestHeadlines(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("Ensure", mock.Anything, "AAPL").Return(&assets.Asset{ID: 7, Symbol: "AAPL"}, nil)

	svc := newTestService(t, catalog)

	older := &Article{Title: "Older story", PublishedAt: time.Now().Add(-2 * time.Hour)}
	newer := &Article{Title: "Newer story", PublishedAt: time.Now().Add(-time.Hour)}
	_, err := svc.Ingest(context.Background(), "AAPL", older)
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), "AAPL", newer)
	require.NoError(t, err)

	headlines, err := svc.Headlines(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Newer story", "Older story"}, headlines)
}

func TestPrune(t *testing.T) {
	svc := newTestService(t, new(mockCatalog))

	old := &Article{Title: "Old story", PublishedAt: time.Now().Add(-100 * 24 * time.Hour)}
	recent := &Article{Title: "Recent story", PublishedAt: time.Now()}
	_, err := svc.Ingest(context.Background(), "", old)
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), "", recent)
	require.NoError(t, err)

	removed, err := svc.Prune(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	articles, err := svc.Market(10)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Recent story", articles[0].Title)
}
