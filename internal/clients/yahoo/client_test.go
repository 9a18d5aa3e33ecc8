package yahoo

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/finsight/finsight/internal/clientdata"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {
        "symbol": "AAPL",
        "currency": "USD",
        "exchangeName": "NMS",
        "regularMarketPrice": 105.0,
        "chartPreviousClose": 103.0,
        "regularMarketTime": 1704412800
      },
      "timestamp": [1704067200, 1704153600, 1704240000, 1704326400, 1704412800],
      "indicators": {
        "quote": [{
          "open":   [100.0, 101.5, 101.0, 104.0, 104.5],
          "high":   [102.5, 102.0, 105.5, 105.5, 105.5],
          "low":    [99.5, 100.5, 100.5, 103.0, 102.5],
          "close":  [100.0, 102.0, 101.0, 105.0, 103.0],
          "volume": [1000, 1100, 900, 1200, 1000]
        }]
      }
    }],
    "error": null
  }
}`

const chartErrorJSON = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

const quoteSummaryJSON = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {
        "sector": "Technology",
        "industry": "Consumer Electronics",
        "longBusinessSummary": "Designs and sells consumer electronics.",
        "website": "https://www.apple.com"
      },
      "price": {
        "symbol": "AAPL",
        "longName": "Apple Inc.",
        "currency": "USD",
        "exchangeName": "NasdaqGS",
        "marketCap": {"raw": 2900000000000}
      }
    }],
    "error": null
  }
}`

func newCacheRepo(t *testing.T) *clientdata.Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE client_cache (
		provider TEXT NOT NULL, cache_key TEXT NOT NULL, payload BLOB NOT NULL,
		fetched_at INTEGER NOT NULL, ttl_secs INTEGER NOT NULL,
		PRIMARY KEY (provider, cache_key))`)
	require.NoError(t, err)

	return clientdata.NewRepository(db)
}

func newTestClient(t *testing.T, handler http.Handler, repo *clientdata.Repository) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(repo, zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestHistory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		w.Write([]byte(chartJSON))
	}), nil)

	bars, err := client.History(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	require.Len(t, bars, 5)

	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 103.0, bars[4].Close)
	assert.Equal(t, 1100.0, bars[1].Volume)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
}

func TestHistoryProviderError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartErrorJSON))
	}), nil)

	_, err := client.History(context.Background(), "GONE", "1mo")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHistoryHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}), nil)

	_, err := client.History(context.Background(), "AAPL", "1mo")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHistoryStaleFallback(t *testing.T) {
	var calls atomic.Int64
	repo := newCacheRepo(t)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(chartJSON))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}), repo)

	bars, err := client.History(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	require.Len(t, bars, 5)

	// Expire the entry, then break the API. The stale copy must be served.
	require.NoError(t, repo.Store("yahoo", "history:AAPL:1mo", bars, -time.Minute))

	stale, err := client.History(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	assert.Len(t, stale, 5)
	assert.Equal(t, int64(2), calls.Load())
}

func TestHistoryCacheHitSkipsAPI(t *testing.T) {
	var calls atomic.Int64
	repo := newCacheRepo(t)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(chartJSON))
	}), repo)

	_, err := client.History(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	_, err = client.History(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load())
}

func TestQuote(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartJSON))
	}), nil)

	quote, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 105.0, quote.Price)
	assert.Equal(t, 103.0, quote.PreviousClose)
	assert.InDelta(t, (105.0/103.0-1)*100, quote.ChangePercent(), 1e-9)
}

func TestInfo(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/AAPL")
		w.Write([]byte(quoteSummaryJSON))
	}), nil)

	info, err := client.Info(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", info.Name)
	assert.Equal(t, "Technology", info.Sector)
	assert.Equal(t, "Consumer Electronics", info.Industry)
	assert.Equal(t, 2.9e12, info.MarketCap)
}
