package metrics

import (
	"github.com/finsight/finsight/internal/domain"
)

// CalculateAllMetrics computes the full metrics record for an asset. With a
// non-empty marketPrices series the four market-relative metrics are included
// as well, with alpha reusing the already-computed beta. A series of fewer
// than 2 prices yields an empty record; no sub-computation ever fails, each
// falls back to its documented neutral default instead.
func (c *Calculator) CalculateAllMetrics(prices, marketPrices domain.PriceSeries) domain.MetricsRecord {
	if len(prices) < 2 {
		return domain.MetricsRecord{}
	}

	returns := c.SimpleReturns(prices)

	maxDD, _, _ := c.MaxDrawdown(prices)

	record := domain.MetricsRecord{
		domain.MetricTotalReturn:       c.PeriodReturn(prices, 0),
		domain.MetricAnnualizedReturn:  c.AnnualizedReturn(prices),
		domain.MetricVolatility:        c.Volatility(returns, true),
		domain.MetricDownsideDeviation: c.DownsideDeviation(returns, 0, true),
		domain.MetricMaxDrawdown:       maxDD,
		domain.MetricSharpeRatio:       c.SharpeRatio(returns),
		domain.MetricSortinoRatio:      c.SortinoRatio(returns, 0),
		domain.MetricVaR95:             c.ValueAtRisk(returns, 0.95),
		domain.MetricCVaR95:            c.ConditionalValueAtRisk(returns, 0.95),
	}

	if len(marketPrices) > 0 {
		marketReturns := c.SimpleReturns(marketPrices)

		beta := c.Beta(returns, marketReturns)
		record[domain.MetricBeta] = beta
		record[domain.MetricAlpha] = c.AlphaWithBeta(returns, marketReturns, beta)
		record[domain.MetricInformationRatio] = c.InformationRatio(returns, marketReturns)
		record[domain.MetricCorrelationWithMarket] = c.Correlation(returns, marketReturns)
	}

	return record
}
