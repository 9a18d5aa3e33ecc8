// Package fred provides a client for the St. Louis Fed FRED API, used to
// fetch macro indicator series (CPI, rates, unemployment and similar).
// Responses are cached persistently with stale fallback, matching the other
// provider clients.
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clientdata"
	"github.com/finsight/finsight/internal/domain"
)

const defaultBaseURL = "https://api.stlouisfed.org/fred"

// ErrUnavailable signals that the provider could not serve the request and no
// cached fallback existed.
var ErrUnavailable = errors.New("macro data unavailable")

// Observation is a single dated value of a macro series. The provider marks
// missing values with "."; those rows are dropped during parsing.
type Observation struct {
	Date  time.Time `json:"date" msgpack:"date"`
	Value float64   `json:"value" msgpack:"value"`
}

// Client is the FRED API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
	cacheRepo  *clientdata.Repository
}

// NewClient creates a new FRED client. An API key is required by the
// provider; cacheRepo is optional - if nil, caching is disabled.
func NewClient(apiKey string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       log.With().Str("component", "fred").Logger(),
		cacheRepo: cacheRepo,
	}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Series fetches the observations of a FRED series (e.g. "CPIAUCSL",
// "UNRATE", "DGS10") from start onward.
func (c *Client) Series(ctx context.Context, seriesID string, start time.Time) ([]Observation, error) {
	cacheKey := "series:" + seriesID + ":" + start.Format("2006-01-02")

	var observations []Observation
	if c.getFresh(cacheKey, &observations) {
		c.log.Debug().Str("series", seriesID).Msg("Series cache hit")
		return observations, nil
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	params.Set("observation_start", start.Format("2006-01-02"))

	endpoint := c.baseURL + "/series/observations?" + params.Encode()

	parsed, err := c.fetch(ctx, endpoint)
	if err != nil {
		if c.getStale(cacheKey, &observations) {
			c.log.Warn().Err(err).Str("series", seriesID).Msg("API failed, using stale cached series")
			return observations, nil
		}
		return nil, err
	}

	observations = make([]Observation, 0, len(parsed.Observations))
	for _, obs := range parsed.Observations {
		if obs.Value == "." {
			continue
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		observations = append(observations, Observation{Date: date, Value: value})
	}

	c.setCache(cacheKey, observations)

	c.log.Info().Str("series", seriesID).Int("observations", len(observations)).Msg("Fetched macro series")
	return observations, nil
}

// SeriesAsPrices converts a series fetch into a price series so macro
// indicators can flow through the same metric computations as asset prices.
func (c *Client) SeriesAsPrices(ctx context.Context, seriesID string, start time.Time) (domain.PriceSeries, error) {
	observations, err := c.Series(ctx, seriesID, start)
	if err != nil {
		return nil, err
	}

	prices := make(domain.PriceSeries, 0, len(observations))
	for _, obs := range observations {
		prices = append(prices, domain.PricePoint{Date: obs.Date, Value: obs.Value})
	}
	return prices, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*observationsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if parsed.ErrorCode != 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, parsed.ErrorMessage)
	}

	return &parsed, nil
}

func (c *Client) getFresh(key string, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}
	found, err := c.cacheRepo.GetIfFresh("fred", key, out)
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
	found, err := c.cacheRepo.Get("fred", key, out)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to get stale data from cache")
		return false
	}
	return found
}

func (c *Client) setCache(key string, data interface{}) {
	if c.cacheRepo == nil {
		return
	}
	if err := c.cacheRepo.Store("fred", key, data, clientdata.TTLMacroSeries); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
	}
}
