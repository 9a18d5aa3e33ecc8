package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const observationsJSON = `{
  "observations": [
    {"date": "2024-01-01", "value": "308.417"},
    {"date": "2024-02-01", "value": "."},
    {"date": "2024-03-01", "value": "312.332"}
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", nil, zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestSeries(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CPIAUCSL", r.URL.Query().Get("series_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("observation_start"))
		w.Write([]byte(observationsJSON))
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	observations, err := client.Series(context.Background(), "CPIAUCSL", start)
	require.NoError(t, err)

	// The "." placeholder row is dropped.
	require.Len(t, observations, 2)
	assert.Equal(t, 308.417, observations[0].Value)
	assert.Equal(t, 312.332, observations[1].Value)
}

func TestSeriesAsPrices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(observationsJSON))
	}))

	prices, err := client.SeriesAsPrices(context.Background(), "CPIAUCSL", time.Time{})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, 308.417, prices[0].Value)
}

func TestSeriesHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := client.Series(context.Background(), "UNRATE", time.Time{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSeriesProviderError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code": 400, "error_message": "Bad Request. Invalid series_id."}`))
	}))

	_, err := client.Series(context.Background(), "NOPE", time.Time{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
