package metrics

import (
	"math"

	"github.com/finsight/finsight/internal/domain"
)

// SharpeRatio is the annualized mean excess return over its standard
// deviation, using the configured annual risk-free rate.
func (c *Calculator) SharpeRatio(returns domain.ReturnSeries) float64 {
	return c.SharpeRatioWithRate(returns, c.riskFreeRate)
}

// SharpeRatioWithRate computes the Sharpe ratio against an explicit annual
// risk-free rate. The rate is deannualized to a daily figure before the
// excess returns are formed. Returns 0 for fewer than 2 observations or zero
// excess-return variance.
func (c *Calculator) SharpeRatioWithRate(returns domain.ReturnSeries, annualRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	dailyRf := annualRate / c.tradingDays
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r.Value - dailyRf
	}

	sd := stdDev(excess)
	if sd == 0 {
		return 0
	}

	return mean(excess) / sd * math.Sqrt(c.tradingDays)
}

// SortinoRatio is the Sharpe ratio with the denominator replaced by the
// downside deviation against target, penalizing only downside volatility.
// The downside deviation enters as a non-annualized fraction. Returns 0 for
// fewer than 2 observations or zero downside deviation.
func (c *Calculator) SortinoRatio(returns domain.ReturnSeries, target float64) float64 {
	return c.SortinoRatioWithRate(returns, target, c.riskFreeRate)
}

// SortinoRatioWithRate computes the Sortino ratio against an explicit annual
// risk-free rate, deannualized the same way as SharpeRatioWithRate.
func (c *Calculator) SortinoRatioWithRate(returns domain.ReturnSeries, target, annualRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	dailyRf := annualRate / c.tradingDays
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r.Value - dailyRf
	}

	downsideDev := c.DownsideDeviation(returns, target, false)
	if downsideDev == 0 {
		return 0
	}

	return mean(excess) / (downsideDev / 100) * math.Sqrt(c.tradingDays)
}

// ValueAtRisk is the (1-confidence) empirical percentile of the return
// distribution as a percentage. The value is signed, typically negative.
func (c *Calculator) ValueAtRisk(returns domain.ReturnSeries, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return percentile(returns.Values(), (1-confidence)*100) * 100
}

// ConditionalValueAtRisk is the mean of all returns at or below the VaR
// threshold, as a percentage. The threshold comparison happens on fractional
// returns, only the final result is scaled to a percentage.
func (c *Calculator) ConditionalValueAtRisk(returns domain.ReturnSeries, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	threshold := c.ValueAtRisk(returns, confidence) / 100

	var sum float64
	var n int
	for _, r := range returns {
		if r.Value <= threshold {
			sum += r.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}

	return sum / float64(n) * 100
}
