package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

func TestVolatility(t *testing.T) {
	calc := New(0, 0)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	// Sample standard deviation of the four daily returns, annualized by
	// sqrt(252), as a percentage.
	assert.InDelta(t, 42.900, calc.Volatility(returns, true), 0.005)

	daily := calc.Volatility(returns, false)
	assert.InDelta(t, 2.7025, daily, 0.001)
}

func TestVolatilityShortSeries(t *testing.T) {
	calc := New(0, 0)

	assert.Zero(t, calc.Volatility(domain.ReturnSeries{}, true))
	assert.Zero(t, calc.Volatility(returnSeries(0.01), true))
}

func TestDownsideDeviation(t *testing.T) {
	calc := New(0, 0)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	assert.InDelta(t, 1.5148, calc.DownsideDeviation(returns, 0, false), 0.001)
	assert.InDelta(t, 24.047, calc.DownsideDeviation(returns, 0, true), 0.01)
}

func TestDownsideDeviationNoDownside(t *testing.T) {
	calc := New(0, 0)

	assert.Zero(t, calc.DownsideDeviation(returnSeries(0.01, 0.02, 0.005), 0, true))
	assert.Zero(t, calc.DownsideDeviation(domain.ReturnSeries{}, 0, true))
}

func TestMaxDrawdown(t *testing.T) {
	calc := New(0, 0)

	// The deepest decline is the 105 -> 103 dip, not the earlier 102 -> 101
	// one, so the full running-maximum formula must pick day 3 as the peak.
	dd, peak, trough := calc.MaxDrawdown(priceSeries(100, 102, 101, 105, 103))

	assert.InDelta(t, (103.0/105.0-1)*100, dd, 1e-9)
	require.NotNil(t, peak)
	require.NotNil(t, trough)
	assert.Equal(t, tradingDay(3), *peak)
	assert.Equal(t, tradingDay(4), *trough)
}

func TestMaxDrawdownNeverPositive(t *testing.T) {
	calc := New(0, 0)

	series := []domain.PriceSeries{
		priceSeries(100, 102, 101, 105, 103),
		priceSeries(50, 40, 45, 30, 60),
		priceSeries(10, 10, 10),
		priceSeries(100, 110, 120),
	}
	for _, prices := range series {
		dd, _, _ := calc.MaxDrawdown(prices)
		assert.LessOrEqual(t, dd, 0.0)
	}
}

func TestMaxDrawdownMonotonicSeries(t *testing.T) {
	calc := New(0, 0)

	dd, peak, trough := calc.MaxDrawdown(priceSeries(100, 101, 102, 105))

	assert.Zero(t, dd)
	require.NotNil(t, peak)
	require.NotNil(t, trough)
	assert.Equal(t, tradingDay(0), *peak)
	assert.Equal(t, tradingDay(3), *trough)
}

func TestMaxDrawdownShortSeries(t *testing.T) {
	calc := New(0, 0)

	dd, peak, trough := calc.MaxDrawdown(priceSeries(100))
	assert.Zero(t, dd)
	assert.Nil(t, peak)
	assert.Nil(t, trough)
}
