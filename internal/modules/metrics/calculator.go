package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultRiskFreeRate is the annual risk-free rate assumed when none is configured.
	DefaultRiskFreeRate = 0.03

	// DefaultTradingDaysPerYear is the annualization convention for daily return statistics.
	DefaultTradingDaysPerYear = 252
)

// Calculator computes return, risk and risk-adjusted metrics over price and
// return series. It carries two process-lifetime constants and is otherwise
// stateless, so a single instance is safe for concurrent use.
type Calculator struct {
	riskFreeRate float64
	tradingDays  float64
}

// New creates a Calculator. Non-positive arguments fall back to the defaults
// (3% annual risk-free rate, 252 trading days per year).
func New(riskFreeRate float64, tradingDaysPerYear int) *Calculator {
	if riskFreeRate <= 0 {
		riskFreeRate = DefaultRiskFreeRate
	}
	if tradingDaysPerYear <= 0 {
		tradingDaysPerYear = DefaultTradingDaysPerYear
	}
	return &Calculator{
		riskFreeRate: riskFreeRate,
		tradingDays:  float64(tradingDaysPerYear),
	}
}

// RiskFreeRate returns the configured annual risk-free rate.
func (c *Calculator) RiskFreeRate() float64 { return c.riskFreeRate }

// TradingDaysPerYear returns the configured annualization convention.
func (c *Calculator) TradingDaysPerYear() int { return int(c.tradingDays) }

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// percentile computes the q-th percentile (q in [0, 100]) of values using
// linear interpolation between order statistics, matching the behavior most
// empirical-VaR references use for sample percentiles.
func percentile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := q / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
