package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

func negate(returns domain.ReturnSeries) domain.ReturnSeries {
	out := make(domain.ReturnSeries, len(returns))
	for i, r := range returns {
		out[i] = domain.ReturnPoint{Date: r.Date, Value: -r.Value}
	}
	return out
}

func TestBetaAgainstItself(t *testing.T) {
	calc := New(0, 0)
	returns := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	assert.InDelta(t, 1.0, calc.Beta(returns, returns), 1e-9)
}

func TestBetaNeutralFallbacks(t *testing.T) {
	calc := New(0, 0)
	returns := returnSeries(0.01, -0.02, 0.015)

	assert.Equal(t, 1.0, calc.Beta(domain.ReturnSeries{}, returns))
	assert.Equal(t, 1.0, calc.Beta(returns, domain.ReturnSeries{}))
	assert.Equal(t, 1.0, calc.Beta(returnSeries(0.01), returnSeries(0.02)))

	// Zero market variance.
	flat := returnSeries(0.01, 0.01, 0.01)
	assert.Equal(t, 1.0, calc.Beta(returns, flat))

	// Disjoint dates leave no aligned rows.
	shifted := domain.ReturnSeries{
		{Date: tradingDay(100), Value: 0.01},
		{Date: tradingDay(101), Value: 0.02},
	}
	assert.Equal(t, 1.0, calc.Beta(returns, shifted))
}

func TestBetaScalesWithLeverage(t *testing.T) {
	calc := New(0, 0)
	market := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	levered := make(domain.ReturnSeries, len(market))
	for i, r := range market {
		levered[i] = domain.ReturnPoint{Date: r.Date, Value: 2 * r.Value}
	}

	assert.InDelta(t, 2.0, calc.Beta(levered, market), 1e-9)
}

func TestAlphaOfMarketIsZero(t *testing.T) {
	calc := New(0.03, 252)
	returns := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	assert.InDelta(t, 0.0, calc.Alpha(returns, returns), 1e-9)
}

func TestAlphaWithBetaReusesBeta(t *testing.T) {
	calc := New(0.03, 252)
	asset := returnSeries(0.02, -0.01, 0.03, 0.01, -0.005)
	market := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	beta := calc.Beta(asset, market)
	assert.InDelta(t, calc.Alpha(asset, market), calc.AlphaWithBeta(asset, market, beta), 1e-12)
}

func TestInformationRatio(t *testing.T) {
	calc := New(0, 0)
	asset := returnSeries(0.02, -0.01, 0.03, 0.01, -0.005)
	benchmark := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	ir := calc.InformationRatio(asset, benchmark)
	assert.Greater(t, ir, 0.0)

	// Against itself the tracking error is zero.
	assert.Zero(t, calc.InformationRatio(asset, asset))
	assert.Zero(t, calc.InformationRatio(returnSeries(0.01), returnSeries(0.02)))
}

func TestCorrelation(t *testing.T) {
	calc := New(0, 0)
	returns := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	assert.InDelta(t, 1.0, calc.Correlation(returns, returns), 1e-9)
	assert.InDelta(t, -1.0, calc.Correlation(returns, negate(returns)), 1e-9)
	assert.Zero(t, calc.Correlation(returnSeries(0.01), returnSeries(0.02)))
}

func TestCorrelationMatrix(t *testing.T) {
	calc := New(0, 0)

	a := returnSeries(0.01, -0.02, 0.015, 0.005)
	b := make(domain.ReturnSeries, len(a))
	for i, r := range a {
		b[i] = domain.ReturnPoint{Date: r.Date, Value: 2 * r.Value}
	}
	// No dates in common with the others.
	c := domain.ReturnSeries{
		{Date: tradingDay(200), Value: 0.01},
		{Date: tradingDay(201), Value: -0.01},
	}

	matrix := calc.CorrelationMatrixOf(map[string]domain.ReturnSeries{
		"AAA": a,
		"BBB": b,
		"CCC": c,
	})

	require.Equal(t, []string{"AAA", "BBB", "CCC"}, matrix.Symbols)
	require.Len(t, matrix.Values, 3)

	assert.InDelta(t, 1.0, matrix.Values[0][0], 1e-9)
	assert.InDelta(t, 1.0, matrix.Values[0][1], 1e-9)
	assert.InDelta(t, 1.0, matrix.Values[1][0], 1e-9)
	assert.True(t, math.IsNaN(matrix.Values[0][2]))
	assert.True(t, math.IsNaN(matrix.Values[2][1]))
	assert.InDelta(t, 1.0, matrix.Values[2][2], 1e-9)
}
