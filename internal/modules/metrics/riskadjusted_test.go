package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finsight/finsight/internal/domain"
)

func TestSharpeRatio(t *testing.T) {
	calc := New(0.03, 252)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	assert.InDelta(t, 4.446, calc.SharpeRatio(returns), 0.005)
}

func TestSharpeRatioGuards(t *testing.T) {
	calc := New(0.03, 252)

	assert.Zero(t, calc.SharpeRatio(domain.ReturnSeries{}))
	assert.Zero(t, calc.SharpeRatio(returnSeries(0.01)))

	// Constant returns have zero excess-return variance.
	assert.Zero(t, calc.SharpeRatio(returnSeries(0.01, 0.01, 0.01)))
}

func TestSharpeRatioScaleInvariantAtZeroRate(t *testing.T) {
	calc := New(0.03, 252)
	returns := returnSeries(0.01, -0.02, 0.015, 0.005, -0.01)

	scaled := make(domain.ReturnSeries, len(returns))
	for i, r := range returns {
		scaled[i] = domain.ReturnPoint{Date: r.Date, Value: 3 * r.Value}
	}

	base := calc.SharpeRatioWithRate(returns, 0)
	assert.InDelta(t, base, calc.SharpeRatioWithRate(scaled, 0), 1e-9)
}

func TestSortinoRatio(t *testing.T) {
	calc := New(0.03, 252)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	assert.InDelta(t, 7.932, calc.SortinoRatio(returns, 0), 0.01)
}

func TestSortinoRatioGuards(t *testing.T) {
	calc := New(0.03, 252)

	assert.Zero(t, calc.SortinoRatio(domain.ReturnSeries{}, 0))
	assert.Zero(t, calc.SortinoRatio(returnSeries(0.01), 0))

	// All returns above target leave no downside deviation.
	assert.Zero(t, calc.SortinoRatio(returnSeries(0.01, 0.02, 0.015), 0))
}

func TestSortinoRatioWithRate(t *testing.T) {
	calc := New(0.03, 252)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	// The override at the configured rate matches the default form.
	assert.InDelta(t, calc.SortinoRatio(returns, 0), calc.SortinoRatioWithRate(returns, 0, 0.03), 1e-12)

	// A higher risk-free rate shrinks the excess return and the ratio.
	assert.Less(t, calc.SortinoRatioWithRate(returns, 0, 0.10), calc.SortinoRatioWithRate(returns, 0, 0))
}

func TestValueAtRisk(t *testing.T) {
	calc := New(0, 0)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	// 5th percentile of four returns, linearly interpolated between the two
	// worst observations.
	assert.InDelta(t, -1.7661, calc.ValueAtRisk(returns, 0.95), 0.001)

	assert.Zero(t, calc.ValueAtRisk(domain.ReturnSeries{}, 0.95))
	assert.InDelta(t, -2.0, calc.ValueAtRisk(returnSeries(-0.02), 0.95), 1e-9)
}

func TestValueAtRiskDeterministic(t *testing.T) {
	calc := New(0, 0)
	returns := returnSeries(0.012, -0.03, 0.007, -0.011, 0.024, -0.002, 0.018, -0.026)

	first := calc.ValueAtRisk(returns, 0.95)
	second := calc.ValueAtRisk(returns, 0.95)
	assert.Equal(t, first, second)
}

func TestConditionalValueAtRisk(t *testing.T) {
	calc := New(0, 0)
	returns := calc.SimpleReturns(priceSeries(100, 102, 101, 105, 103))

	// Only the worst return sits at or below the interpolated VaR threshold.
	assert.InDelta(t, (-2.0/105.0)*100, calc.ConditionalValueAtRisk(returns, 0.95), 1e-9)

	assert.Zero(t, calc.ConditionalValueAtRisk(domain.ReturnSeries{}, 0.95))
}

func TestCVaRAtMostVaR(t *testing.T) {
	calc := New(0, 0)
	returns := returnSeries(0.012, -0.03, 0.007, -0.011, 0.024, -0.002, 0.018, -0.026, 0.004, -0.015)

	varPct := calc.ValueAtRisk(returns, 0.95)
	cvarPct := calc.ConditionalValueAtRisk(returns, 0.95)
	assert.LessOrEqual(t, cvarPct, varPct)
}
