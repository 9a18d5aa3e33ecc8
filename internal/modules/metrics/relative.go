package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/finsight/finsight/internal/domain"
)

// Beta measures the sensitivity of asset returns to market returns:
// covariance(asset, market) / variance(market) over the dates the two series
// share. Returns the neutral 1.0 when either series is empty, fewer than 2
// aligned observations remain, or the market variance is zero. The fallback
// keeps downstream aggregation total on sparse histories.
func (c *Calculator) Beta(assetReturns, marketReturns domain.ReturnSeries) float64 {
	if len(assetReturns) == 0 || len(marketReturns) == 0 {
		return 1.0
	}

	asset, market := domain.AlignReturns(assetReturns, marketReturns)
	if len(asset) < 2 {
		return 1.0
	}

	marketVariance := stat.Variance(market.Values(), nil)
	if marketVariance == 0 {
		return 1.0
	}

	return stat.Covariance(asset.Values(), market.Values(), nil) / marketVariance
}

// Alpha computes the CAPM residual as an annualized percentage, deriving beta
// from the two series.
func (c *Calculator) Alpha(assetReturns, marketReturns domain.ReturnSeries) float64 {
	return c.AlphaWithBeta(assetReturns, marketReturns, c.Beta(assetReturns, marketReturns))
}

// AlphaWithBeta computes alpha using an already-known beta:
// annualizedAsset - (rf + beta*(annualizedMarket - rf)), times 100. Mean
// daily returns are annualized by multiplying with tradingDaysPerYear.
func (c *Calculator) AlphaWithBeta(assetReturns, marketReturns domain.ReturnSeries, beta float64) float64 {
	avgAsset := mean(assetReturns.Values()) * c.tradingDays
	avgMarket := mean(marketReturns.Values()) * c.tradingDays

	alpha := avgAsset - (c.riskFreeRate + beta*(avgMarket-c.riskFreeRate))
	return alpha * 100
}

// InformationRatio is the annualized mean active return over its tracking
// error versus the benchmark, computed on aligned observations. Returns 0 for
// fewer than 2 aligned rows or zero tracking error.
func (c *Calculator) InformationRatio(assetReturns, benchmarkReturns domain.ReturnSeries) float64 {
	asset, benchmark := domain.AlignReturns(assetReturns, benchmarkReturns)
	if len(asset) < 2 {
		return 0
	}

	active := make([]float64, len(asset))
	for i := range asset {
		active[i] = asset[i].Value - benchmark[i].Value
	}

	trackingError := stdDev(active)
	if trackingError == 0 {
		return 0
	}

	return mean(active) / trackingError * math.Sqrt(c.tradingDays)
}

// Correlation is the Pearson correlation of two return series over their
// shared dates. Returns 0 for fewer than 2 aligned observations.
func (c *Calculator) Correlation(returns1, returns2 domain.ReturnSeries) float64 {
	r1, r2 := domain.AlignReturns(returns1, returns2)
	if len(r1) < 2 {
		return 0
	}
	return stat.Correlation(r1.Values(), r2.Values(), nil)
}

// CorrelationMatrix holds pairwise Pearson correlations for a set of assets.
// Symbols are sorted; Values[i][j] is the correlation between Symbols[i] and
// Symbols[j], NaN where fewer than 2 shared observations exist.
type CorrelationMatrix struct {
	Symbols []string    `json:"symbols"`
	Values  [][]float64 `json:"values"`
}

// CorrelationMatrixOf computes the pairwise correlation matrix across the
// given return series, aligning each pair on its own shared dates.
func (c *Calculator) CorrelationMatrixOf(returnsBySymbol map[string]domain.ReturnSeries) CorrelationMatrix {
	symbols := make([]string, 0, len(returnsBySymbol))
	for symbol := range returnsBySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	values := make([][]float64, len(symbols))
	for i := range symbols {
		values[i] = make([]float64, len(symbols))
		for j := range symbols {
			if j < i {
				values[i][j] = values[j][i]
				continue
			}
			values[i][j] = pairCorrelation(returnsBySymbol[symbols[i]], returnsBySymbol[symbols[j]])
		}
	}

	return CorrelationMatrix{Symbols: symbols, Values: values}
}

func pairCorrelation(a, b domain.ReturnSeries) float64 {
	x, y := domain.AlignReturns(a, b)
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x.Values(), y.Values(), nil)
}
