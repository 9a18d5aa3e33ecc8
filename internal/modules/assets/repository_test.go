package assets

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/finsight/finsight/internal/domain"
)

const testSchema = `
CREATE TABLE assets (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol      TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    asset_type  TEXT NOT NULL,
    market      TEXT,
    sector      TEXT,
    currency    TEXT,
    description TEXT,
    is_active   INTEGER NOT NULL DEFAULT 1,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER
);
CREATE TABLE price_history (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    asset_id   INTEGER NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
    date       INTEGER NOT NULL,
    open       REAL,
    high       REAL,
    low        REAL,
    close      REAL NOT NULL,
    volume     REAL,
    adj_close  REAL,
    created_at INTEGER NOT NULL,
    UNIQUE (asset_id, date)
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

func newTestRepo(t *testing.T) *Repository {
	return NewRepository(setupTestDB(t), zerolog.Nop())
}

func TestCreateAndGetBySymbol(t *testing.T) {
	repo := newTestRepo(t)

	asset := &Asset{
		Symbol:    "aapl",
		Name:      "Apple Inc.",
		AssetType: TypeStock,
		Market:    "NasdaqGS",
		Sector:    "Technology",
		Currency:  "USD",
	}
	require.NoError(t, repo.Create(asset))
	assert.Equal(t, "AAPL", asset.Symbol)
	assert.NotZero(t, asset.ID)

	got, err := repo.GetBySymbol(" aapl ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, asset.ID, got.ID)
	assert.Equal(t, "Apple Inc.", got.Name)
	assert.Equal(t, "Technology", got.Sector)
	assert.True(t, got.IsActive)
}

func TestGetBySymbolNotFound(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetBySymbol("MISSING")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListFiltersByType(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(&Asset{Symbol: "AAPL", Name: "Apple", AssetType: TypeStock}))
	require.NoError(t, repo.Create(&Asset{Symbol: "^GSPC", Name: "S&P 500", AssetType: TypeIndex}))

	all, err := repo.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	indices, err := repo.List(TypeIndex)
	require.NoError(t, err)
	require.Len(t, indices, 1)
	assert.Equal(t, "^GSPC", indices[0].Symbol)
}

func TestSearch(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(&Asset{Symbol: "AAPL", Name: "Apple Inc.", AssetType: TypeStock}))
	require.NoError(t, repo.Create(&Asset{Symbol: "MSFT", Name: "Microsoft Corporation", AssetType: TypeStock}))

	bySymbol, err := repo.Search("AAP", 10)
	require.NoError(t, err)
	require.Len(t, bySymbol, 1)
	assert.Equal(t, "AAPL", bySymbol[0].Symbol)

	byName, err := repo.Search("micro", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "MSFT", byName[0].Symbol)
}

func testBars(n int) []domain.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, domain.Bar{
			Date:  base.AddDate(0, 0, i),
			Close: 100 + float64(i),
		})
	}
	return bars
}

func TestSaveAndGetPriceHistory(t *testing.T) {
	repo := newTestRepo(t)

	asset := &Asset{Symbol: "AAPL", Name: "Apple", AssetType: TypeStock}
	require.NoError(t, repo.Create(asset))

	require.NoError(t, repo.SavePriceHistory(asset.ID, testBars(5)))

	bars, err := repo.GetPriceHistory(asset.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 5)
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 104.0, bars[4].Close)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
}

func TestSavePriceHistoryIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	asset := &Asset{Symbol: "AAPL", Name: "Apple", AssetType: TypeStock}
	require.NoError(t, repo.Create(asset))

	require.NoError(t, repo.SavePriceHistory(asset.ID, testBars(5)))
	require.NoError(t, repo.SavePriceHistory(asset.ID, testBars(5)))

	bars, err := repo.GetPriceHistory(asset.ID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, bars, 5)
}

func TestGetPriceHistoryFromDate(t *testing.T) {
	repo := newTestRepo(t)

	asset := &Asset{Symbol: "AAPL", Name: "Apple", AssetType: TypeStock}
	require.NoError(t, repo.Create(asset))
	require.NoError(t, repo.SavePriceHistory(asset.ID, testBars(5)))

	from := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	bars, err := repo.GetPriceHistory(asset.ID, from)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}

func TestLatestPriceDate(t *testing.T) {
	repo := newTestRepo(t)

	asset := &Asset{Symbol: "AAPL", Name: "Apple", AssetType: TypeStock}
	require.NoError(t, repo.Create(asset))

	latest, err := repo.LatestPriceDate(asset.ID)
	require.NoError(t, err)
	assert.True(t, latest.IsZero())

	require.NoError(t, repo.SavePriceHistory(asset.ID, testBars(3)))

	latest, err = repo.LatestPriceDate(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), latest)
}
