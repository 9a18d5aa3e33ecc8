package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

func tradingDay(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func priceSeries(prices ...float64) domain.PriceSeries {
	series := make(domain.PriceSeries, 0, len(prices))
	for i, p := range prices {
		series = append(series, domain.PricePoint{Date: tradingDay(i), Value: p})
	}
	return series
}

func returnSeries(returns ...float64) domain.ReturnSeries {
	series := make(domain.ReturnSeries, 0, len(returns))
	for i, r := range returns {
		series = append(series, domain.ReturnPoint{Date: tradingDay(i), Value: r})
	}
	return series
}

func TestSimpleReturns(t *testing.T) {
	calc := New(0, 0)

	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))
	require.Len(t, returns, 4)

	assert.InDelta(t, 0.02, returns[0].Value, 1e-12)
	assert.InDelta(t, -1.0/102.0, returns[1].Value, 1e-12)
	assert.InDelta(t, 4.0/101.0, returns[2].Value, 1e-12)
	assert.InDelta(t, -2.0/105.0, returns[3].Value, 1e-12)
	assert.Equal(t, tradingDay(1), returns[0].Date)
	assert.Equal(t, tradingDay(4), returns[3].Date)
}

func TestSimpleReturnsShortSeries(t *testing.T) {
	calc := New(0, 0)

	assert.Empty(t, calc.SimpleReturns(domain.PriceSeries{}))
	assert.Empty(t, calc.SimpleReturns(priceSeries(100)))
}

func TestLogReturns(t *testing.T) {
	calc := New(0, 0)

	returns := calc.LogReturns(priceSeries(100, 102, 101))
	require.Len(t, returns, 2)
	assert.InDelta(t, math.Log(102.0/100.0), returns[0].Value, 1e-12)
	assert.InDelta(t, math.Log(101.0/102.0), returns[1].Value, 1e-12)
}

func TestCumulativeReturns(t *testing.T) {
	calc := New(0, 0)

	cumulative := calc.CumulativeReturns(priceSeries(100, 102, 101, 105, 103))
	require.Len(t, cumulative, 4)

	// The final cumulative return equals the total return of the series.
	assert.InDelta(t, 0.03, cumulative[3].Value, 1e-12)
	assert.InDelta(t, 0.02, cumulative[0].Value, 1e-12)
}

func TestPeriodReturn(t *testing.T) {
	calc := New(0, 0)

	tests := []struct {
		name     string
		prices   domain.PriceSeries
		periods  int
		expected float64
	}{
		{"entire series", priceSeries(100, 102, 101, 105, 103), 0, 3.0},
		{"last two points", priceSeries(100, 102, 101, 105, 103), 2, (103.0/105.0 - 1) * 100},
		{"periods beyond length", priceSeries(100, 103), 10, 3.0},
		{"single point", priceSeries(100), 0, 0.0},
		{"empty", domain.PriceSeries{}, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, calc.PeriodReturn(tt.prices, tt.periods), 1e-9)
		})
	}
}

func TestPeriodReturnScaleInvariant(t *testing.T) {
	calc := New(0, 0)

	base := priceSeries(100, 102, 101, 105, 103)
	scaled := make(domain.PriceSeries, len(base))
	for i, p := range base {
		scaled[i] = domain.PricePoint{Date: p.Date, Value: p.Value * 7.5}
	}

	assert.InDelta(t, calc.PeriodReturn(base, 0), calc.PeriodReturn(scaled, 0), 1e-9)
	assert.InDelta(t, calc.AnnualizedReturn(base), calc.AnnualizedReturn(scaled), 1e-6)
}

func TestAnnualizedReturn(t *testing.T) {
	calc := New(0, 0)

	// 10% gain over 365 calendar days annualizes to just above 10%.
	prices := domain.PriceSeries{
		{Date: tradingDay(0), Value: 100},
		{Date: tradingDay(365), Value: 110},
	}
	assert.InDelta(t, 10.007, calc.AnnualizedReturn(prices), 0.01)
}

func TestAnnualizedReturnGuards(t *testing.T) {
	calc := New(0, 0)

	assert.Zero(t, calc.AnnualizedReturn(domain.PriceSeries{}))
	assert.Zero(t, calc.AnnualizedReturn(priceSeries(100)))

	// Zero elapsed days must not divide by zero.
	sameDay := domain.PriceSeries{
		{Date: tradingDay(0), Value: 100},
		{Date: tradingDay(0).Add(2 * time.Hour), Value: 105},
	}
	assert.Zero(t, calc.AnnualizedReturn(sameDay))
}
