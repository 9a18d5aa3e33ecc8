package charts

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/modules/metrics"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

type mockPriceSource struct {
	mock.Mock
}

func (m *mockPriceSource) PriceSeries(ctx context.Context, symbol string, days int) (domain.PriceSeries, error) {
	args := m.Called(ctx, symbol, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.PriceSeries), args.Error(1)
}

func newTestService(prices PriceSource) *Service {
	calc := metrics.New(metrics.DefaultRiskFreeRate, metrics.DefaultTradingDaysPerYear)
	return NewService(prices, calc, zerolog.Nop())
}

func testSeries(closes ...float64) domain.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = domain.PricePoint{Date: start.AddDate(0, 0, i), Value: c}
	}
	return series
}

func rampSeries(n int) domain.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return testSeries(closes...)
}

func TestPriceChartRendersPNG(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "AAPL", 365).Return(rampSeries(60), nil)

	img, err := newTestService(prices).PriceChart(context.Background(), "aapl", 0, []int{20})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngHeader))
}

func TestPriceChartSkipsOversizedWindows(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "AAPL", 30).Return(rampSeries(10), nil)

	// 50-day SMA cannot be computed from 10 points, only the price renders
	img, err := newTestService(prices).PriceChart(context.Background(), "AAPL", 30, []int{50})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngHeader))
}

func TestDrawdownChart(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "MSFT", 365).
		Return(testSeries(100, 110, 99, 104, 112), nil)

	img, err := newTestService(prices).DrawdownChart(context.Background(), "MSFT", 365)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngHeader))
}

func TestCumulativeReturnChart(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "MSFT", 180).Return(rampSeries(30), nil)

	img, err := newTestService(prices).CumulativeReturnChart(context.Background(), "MSFT", 180)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngHeader))
}

func TestChartsRejectShortHistory(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "AAPL", 365).Return(testSeries(100), nil)

	_, err := newTestService(prices).PriceChart(context.Background(), "AAPL", 365, nil)
	assert.Error(t, err)
}

func TestComparisonChartSkipsFailingSymbols(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "AAPL", 365).Return(rampSeries(20), nil)
	prices.On("PriceSeries", mock.Anything, "MSFT", 365).Return(nil, errors.New("upstream down"))
	prices.On("PriceSeries", mock.Anything, "GOOG", 365).Return(rampSeries(20), nil)

	img, err := newTestService(prices).ComparisonChart(context.Background(),
		[]string{"aapl", "msft", "goog"}, 365)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngHeader))
}

func TestComparisonChartNeedsTwoSymbols(t *testing.T) {
	prices := new(mockPriceSource)
	prices.On("PriceSeries", mock.Anything, "AAPL", 365).Return(rampSeries(20), nil)
	prices.On("PriceSeries", mock.Anything, "MSFT", 365).Return(nil, errors.New("upstream down"))

	_, err := newTestService(prices).ComparisonChart(context.Background(),
		[]string{"AAPL", "MSFT"}, 365)
	assert.Error(t, err)
}
