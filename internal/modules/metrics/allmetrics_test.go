package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

var universalKeys = []string{
	domain.MetricTotalReturn,
	domain.MetricAnnualizedReturn,
	domain.MetricVolatility,
	domain.MetricDownsideDeviation,
	domain.MetricMaxDrawdown,
	domain.MetricSharpeRatio,
	domain.MetricSortinoRatio,
	domain.MetricVaR95,
	domain.MetricCVaR95,
}

var marketKeys = []string{
	domain.MetricBeta,
	domain.MetricAlpha,
	domain.MetricInformationRatio,
	domain.MetricCorrelationWithMarket,
}

func TestCalculateAllMetricsUniversalKeys(t *testing.T) {
	calc := New(0.03, 252)

	record := calc.CalculateAllMetrics(priceSeries(100, 102, 101, 105, 103), nil)
	require.Len(t, record, len(universalKeys))
	for _, key := range universalKeys {
		assert.True(t, record.Has(key), "missing key %s", key)
	}
	for _, key := range marketKeys {
		assert.False(t, record.Has(key), "unexpected key %s", key)
	}

	assert.InDelta(t, 3.0, record[domain.MetricTotalReturn], 1e-9)
	assert.InDelta(t, 42.900, record[domain.MetricVolatility], 0.005)
	assert.InDelta(t, (103.0/105.0-1)*100, record[domain.MetricMaxDrawdown], 1e-9)
}

func TestCalculateAllMetricsWithMarket(t *testing.T) {
	calc := New(0.03, 252)

	prices := priceSeries(100, 102, 101, 105, 103)
	market := priceSeries(1000, 1010, 1005, 1020, 1015)

	record := calc.CalculateAllMetrics(prices, market)
	require.Len(t, record, len(universalKeys)+len(marketKeys))
	for _, key := range marketKeys {
		assert.True(t, record.Has(key), "missing key %s", key)
	}
}

func TestCalculateAllMetricsAgainstItself(t *testing.T) {
	calc := New(0.03, 252)
	prices := priceSeries(100, 102, 101, 105, 103)

	record := calc.CalculateAllMetrics(prices, prices)
	assert.InDelta(t, 1.0, record[domain.MetricBeta], 1e-9)
	assert.InDelta(t, 0.0, record[domain.MetricAlpha], 1e-9)
	assert.InDelta(t, 1.0, record[domain.MetricCorrelationWithMarket], 1e-9)
	assert.Zero(t, record[domain.MetricInformationRatio])
}

func TestCalculateAllMetricsInsufficientData(t *testing.T) {
	calc := New(0.03, 252)

	assert.Empty(t, calc.CalculateAllMetrics(domain.PriceSeries{}, nil))
	assert.Empty(t, calc.CalculateAllMetrics(priceSeries(100), nil))
	assert.Empty(t, calc.CalculateAllMetrics(priceSeries(100), priceSeries(100, 101)))
}

func TestCalculateAllMetricsIdempotent(t *testing.T) {
	calc := New(0.03, 252)
	prices := priceSeries(100, 102, 101, 105, 103)
	market := priceSeries(1000, 1010, 1005, 1020, 1015)

	first := calc.CalculateAllMetrics(prices, market)
	second := calc.CalculateAllMetrics(prices, market)
	assert.Equal(t, first, second)
}

func TestCalculatorDefaults(t *testing.T) {
	calc := New(0, 0)
	assert.Equal(t, DefaultRiskFreeRate, calc.RiskFreeRate())
	assert.Equal(t, DefaultTradingDaysPerYear, calc.TradingDaysPerYear())

	custom := New(0.05, 260)
	assert.Equal(t, 0.05, custom.RiskFreeRate())
	assert.Equal(t, 260, custom.TradingDaysPerYear())
}
