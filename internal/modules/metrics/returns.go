package metrics

import (
	"math"

	"github.com/finsight/finsight/internal/domain"
)

// SimpleReturns converts a price series into period-over-period simple
// returns. The result is one entry shorter than the input since the first
// price has no prior period.
func (c *Calculator) SimpleReturns(prices domain.PriceSeries) domain.ReturnSeries {
	if len(prices) < 2 {
		return domain.ReturnSeries{}
	}

	returns := make(domain.ReturnSeries, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, domain.ReturnPoint{
			Date:  prices[i].Date,
			Value: (prices[i].Value - prices[i-1].Value) / prices[i-1].Value,
		})
	}
	return returns
}

// LogReturns converts a price series into logarithmic returns ln(p[i]/p[i-1]).
func (c *Calculator) LogReturns(prices domain.PriceSeries) domain.ReturnSeries {
	if len(prices) < 2 {
		return domain.ReturnSeries{}
	}

	returns := make(domain.ReturnSeries, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, domain.ReturnPoint{
			Date:  prices[i].Date,
			Value: math.Log(prices[i].Value / prices[i-1].Value),
		})
	}
	return returns
}

// CumulativeReturns builds the running compound return of a price series:
// the i-th entry is the product of (1+r) over all returns up to i, minus 1.
func (c *Calculator) CumulativeReturns(prices domain.PriceSeries) domain.ReturnSeries {
	simple := c.SimpleReturns(prices)

	cumulative := make(domain.ReturnSeries, 0, len(simple))
	growth := 1.0
	for _, r := range simple {
		growth *= 1 + r.Value
		cumulative = append(cumulative, domain.ReturnPoint{Date: r.Date, Value: growth - 1})
	}
	return cumulative
}

// PeriodReturn calculates the total return over the last periods observations
// as a percentage. A non-positive periods means the entire series. Returns 0
// when fewer than 2 observations remain.
func (c *Calculator) PeriodReturn(prices domain.PriceSeries, periods int) float64 {
	if len(prices) == 0 {
		return 0
	}

	if periods > 0 && periods < len(prices) {
		prices = prices[len(prices)-periods:]
	}

	if len(prices) < 2 {
		return 0
	}

	return (prices[len(prices)-1].Value/prices[0].Value - 1) * 100
}

// AnnualizedReturn computes the geometric annualized return as a percentage.
// Annualization uses elapsed calendar days over 365.25, not trading days,
// since it compounds point-to-point growth rather than a return distribution.
func (c *Calculator) AnnualizedReturn(prices domain.PriceSeries) float64 {
	if len(prices) < 2 {
		return 0
	}

	first := prices[0]
	last := prices[len(prices)-1]

	totalDays := int(last.Date.Sub(first.Date).Hours() / 24)
	if totalDays == 0 {
		return 0
	}

	totalReturn := last.Value/first.Value - 1
	years := float64(totalDays) / 365.25

	return (math.Pow(1+totalReturn, 1/years) - 1) * 100
}
