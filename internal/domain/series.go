// Package domain holds the shared data model for the finSight backend:
// price/return time series, OHLCV bars and the metrics record produced by
// the metrics engine.
package domain

import (
	"math"
	"time"
)

// PricePoint is a single dated observation in a price series.
type PricePoint struct {
	Date  time.Time
	Value float64
}

// PriceSeries is an ordered sequence of (date, price) observations.
// Timestamps are strictly increasing with no duplicates; the upstream data
// provider is responsible for deduplication and sorting. The engine treats a
// series as immutable and never retains references across calls.
type PriceSeries []PricePoint

// ReturnPoint is a single dated return observation.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// ReturnSeries is an ordered sequence of (date, return) observations. Derived
// from a PriceSeries it is one entry shorter than its source: the first price
// has no prior period.
type ReturnSeries []ReturnPoint

// Values returns the raw price values in order.
func (s PriceSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the last `n` observations, or the whole series if it has
// fewer than n.
func (s PriceSeries) Last(n int) PriceSeries {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Values returns the raw return values in order.
func (s ReturnSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.Value
	}
	return out
}

// AlignReturns inner-joins two return series on shared timestamps, dropping
// rows where either side is missing or NaN. Both outputs have equal length
// and matching dates.
func AlignReturns(a, b ReturnSeries) (ReturnSeries, ReturnSeries) {
	byDate := make(map[int64]float64, len(b))
	for _, p := range b {
		byDate[p.Date.Unix()] = p.Value
	}

	var outA, outB ReturnSeries
	for _, p := range a {
		v, ok := byDate[p.Date.Unix()]
		if !ok {
			continue
		}
		if math.IsNaN(p.Value) || math.IsNaN(v) {
			continue
		}
		outA = append(outA, p)
		outB = append(outB, ReturnPoint{Date: p.Date, Value: v})
	}
	return outA, outB
}

// Bar is a single OHLCV observation as delivered by a market-data provider.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// CloseSeries extracts the close-price series from a bar slice.
func CloseSeries(bars []Bar) PriceSeries {
	out := make(PriceSeries, 0, len(bars))
	for _, b := range bars {
		out = append(out, PricePoint{Date: b.Date, Value: b.Close})
	}
	return out
}
