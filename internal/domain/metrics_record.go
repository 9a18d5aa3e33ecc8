package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Metric keys present in every non-empty MetricsRecord.
const (
	MetricTotalReturn       = "total_return"
	MetricAnnualizedReturn  = "annualized_return"
	MetricVolatility        = "volatility"
	MetricDownsideDeviation = "downside_deviation"
	MetricMaxDrawdown       = "max_drawdown"
	MetricSharpeRatio       = "sharpe_ratio"
	MetricSortinoRatio      = "sortino_ratio"
	MetricVaR95             = "var_95"
	MetricCVaR95            = "cvar_95"
)

// Metric keys present only when a benchmark series was supplied.
const (
	MetricBeta                  = "beta"
	MetricAlpha                 = "alpha"
	MetricInformationRatio      = "information_ratio"
	MetricCorrelationWithMarket = "correlation_with_market"
)

// MetricsRecord maps metric name to value. NaN marks "undefined for this
// input"; it serializes as JSON null so downstream consumers see a nullable
// float, never an exception.
type MetricsRecord map[string]float64

// DrawdownDates carries the peak and trough of the maximum drawdown.
// Both are nil when the series was too short to have a drawdown.
type DrawdownDates struct {
	Peak   *time.Time
	Trough *time.Time
}

// Has reports whether the record contains the given metric key.
func (m MetricsRecord) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// MarshalJSON renders NaN values as null.
func (m MetricsRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) {
			out[k] = nil
			continue
		}
		v := v
		out[k] = &v
	}
	return json.Marshal(out)
}
