// Package yahoo provides a client for the Yahoo Finance chart and
// quoteSummary APIs. Responses are cached persistently; when the API is down
// stale cache entries are served instead, and provider-specific failures are
// masked behind ErrUnavailable.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clientdata"
	"github.com/finsight/finsight/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// ErrUnavailable signals that the provider could not serve the request and no
// cached fallback existed. Callers treat it as "data not available right
// now", never as a reason to abort a larger computation.
var ErrUnavailable = errors.New("market data unavailable")

// Client is the Yahoo Finance API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
	cacheRepo  *clientdata.Repository
}

// NewClient creates a new Yahoo Finance client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       log.With().Str("component", "yahoo").Logger(),
		cacheRepo: cacheRepo,
	}
}

// History fetches daily OHLCV bars for symbol over the given range
// (e.g. "1mo", "6mo", "1y", "5y", "max").
func (c *Client) History(ctx context.Context, symbol, rng string) ([]domain.Bar, error) {
	cacheKey := "history:" + symbol + ":" + rng

	var bars []domain.Bar
	if c.getFresh(cacheKey, &bars) {
		c.log.Debug().Str("symbol", symbol).Str("range", rng).Msg("History cache hit")
		return bars, nil
	}

	chart, err := c.fetchChart(ctx, symbol, rng)
	if err != nil {
		if c.getStale(cacheKey, &bars) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached history")
			return bars, nil
		}
		return nil, err
	}

	bars = barsFromChart(chart)
	c.setCache(cacheKey, bars, clientdata.TTLPriceHistory)

	c.log.Info().Str("symbol", symbol).Str("range", rng).Int("bars", len(bars)).Msg("Fetched price history")
	return bars, nil
}

// Quote fetches the latest price snapshot for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	cacheKey := "quote:" + symbol

	var quote Quote
	if c.getFresh(cacheKey, &quote) {
		c.log.Debug().Str("symbol", symbol).Msg("Quote cache hit")
		return &quote, nil
	}

	chart, err := c.fetchChart(ctx, symbol, "1d")
	if err != nil {
		if c.getStale(cacheKey, &quote) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached quote")
			return &quote, nil
		}
		return nil, err
	}

	meta := chart.Chart.Result[0].Meta
	quote = Quote{
		Symbol:        meta.Symbol,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		Currency:      meta.Currency,
		MarketTime:    time.Unix(meta.RegularMarketTime, 0).UTC(),
	}
	c.setCache(cacheKey, quote, clientdata.TTLQuote)

	return &quote, nil
}

// Info fetches the descriptive profile for symbol.
func (c *Client) Info(ctx context.Context, symbol string) (*AssetInfo, error) {
	cacheKey := "info:" + symbol

	var info AssetInfo
	if c.getFresh(cacheKey, &info) {
		c.log.Debug().Str("symbol", symbol).Msg("Info cache hit")
		return &info, nil
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,price",
		c.baseURL, url.PathEscape(symbol))

	var parsed quoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		if c.getStale(cacheKey, &info) {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("API failed, using stale cached info")
			return &info, nil
		}
		return nil, err
	}

	if parsed.QuoteSummary.Error != nil || len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: no profile for %s", ErrUnavailable, symbol)
	}

	result := parsed.QuoteSummary.Result[0]
	name := result.Price.LongName
	if name == "" {
		name = result.Price.ShortName
	}
	info = AssetInfo{
		Symbol:    symbol,
		Name:      name,
		Exchange:  result.Price.ExchangeName,
		Currency:  result.Price.Currency,
		Sector:    result.AssetProfile.Sector,
		Industry:  result.AssetProfile.Industry,
		Summary:   result.AssetProfile.LongBusinessSummary,
		Website:   result.AssetProfile.Website,
		MarketCap: result.Price.MarketCap.Raw,
	}
	c.setCache(cacheKey, info, clientdata.TTLAssetInfo)

	return &info, nil
}

// fetchChart performs a chart API request and validates the envelope.
func (c *Client) fetchChart(ctx context.Context, symbol, rng string) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(rng))

	var parsed chartResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty chart result for %s", ErrUnavailable, symbol)
	}

	return &parsed, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "finsight/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	return nil
}

// barsFromChart flattens the chart payload into bars, skipping rows the
// provider delivered without a close price.
func barsFromChart(chart *chartResponse) []domain.Bar {
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]domain.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := domain.Bar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *quote.Close[i],
		}
		bar.AdjClose = bar.Close
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars
}

func (c *Client) getFresh(key string, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	found, err := c.cacheRepo.GetIfFresh("yahoo", key, out)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to get from cache")
		return false
	}
	return found
}

func (c *Client) getStale(key string, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	found, err := c.cacheRepo.Get("yahoo", key, out)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to get stale data from cache")
		return false
	}
	return found
}

func (c *Client) setCache(key string, data interface{}, ttl time.Duration) {
	if c.cacheRepo == nil {
		return
	}
	if err := c.cacheRepo.Store("yahoo", key, data, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
	}
}
