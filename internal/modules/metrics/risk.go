package metrics

import (
	"math"
	"time"

	"github.com/finsight/finsight/internal/domain"
)

// Volatility calculates the sample standard deviation of returns as a
// percentage. When annualize is true the daily figure is scaled by
// sqrt(tradingDaysPerYear). Returns 0 for fewer than 2 observations.
func (c *Calculator) Volatility(returns domain.ReturnSeries, annualize bool) float64 {
	if len(returns) < 2 {
		return 0
	}

	vol := stdDev(returns.Values())
	if annualize {
		vol *= math.Sqrt(c.tradingDays)
	}
	return vol * 100
}

// DownsideDeviation is the root mean square of the returns strictly below
// target, as a percentage. The squared terms are the raw return values, not
// deviations from the series mean. Returns 0 when no observation falls below
// target.
func (c *Calculator) DownsideDeviation(returns domain.ReturnSeries, target float64, annualize bool) float64 {
	var sumSq float64
	var n int
	for _, r := range returns {
		if r.Value < target {
			sumSq += r.Value * r.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}

	dev := math.Sqrt(sumSq / float64(n))
	if annualize {
		dev *= math.Sqrt(c.tradingDays)
	}
	return dev * 100
}

// MaxDrawdown finds the deepest decline from a running maximum of the
// cumulative growth factor, as a percentage (always <= 0), together with the
// peak and trough dates. For fewer than 2 prices the result is (0, nil, nil);
// a series that never declines yields 0 with the first and last dates.
func (c *Calculator) MaxDrawdown(prices domain.PriceSeries) (float64, *time.Time, *time.Time) {
	if len(prices) < 2 {
		return 0, nil, nil
	}

	returns := c.SimpleReturns(prices)

	cumulative := make([]float64, len(returns))
	runningMax := make([]float64, len(returns))
	growth := 1.0
	peak := math.Inf(-1)
	for i, r := range returns {
		growth *= 1 + r.Value
		cumulative[i] = growth
		if growth > peak {
			peak = growth
		}
		runningMax[i] = peak
	}

	minDD := math.Inf(1)
	troughIdx := 0
	for i := range cumulative {
		dd := (cumulative[i] - runningMax[i]) / runningMax[i]
		if dd < minDD {
			minDD = dd
			troughIdx = i
		}
	}

	if minDD == 0 {
		first := prices[0].Date
		last := prices[len(prices)-1].Date
		return 0, &first, &last
	}

	// Peak is the first index at which the running maximum reached the level
	// it held at the trough.
	peakIdx := troughIdx
	for i := 0; i <= troughIdx; i++ {
		if runningMax[i] == runningMax[troughIdx] {
			peakIdx = i
			break
		}
	}

	peakDate := returns[peakIdx].Date
	troughDate := returns[troughIdx].Date
	return minDD * 100, &peakDate, &troughDate
}
