// Package charts renders PNG charts from historical price series: price with
// moving average overlays, drawdown, cumulative return and multi-asset
// comparison.
package charts

import (
	"context"
	"fmt"
	"strings"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/modules/metrics"
)

// PriceSource provides historical prices. Satisfied by the assets service.
type PriceSource interface {
	PriceSeries(ctx context.Context, symbol string, days int) (domain.PriceSeries, error)
}

// Service renders charts from price history.
type Service struct {
	prices PriceSource
	calc   *metrics.Calculator
	log    zerolog.Logger
}

// NewService creates a new charts service.
func NewService(prices PriceSource, calc *metrics.Calculator, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		calc:   calc,
		log:    log.With().Str("service", "charts").Logger(),
	}
}

// PriceChart renders the close price with optional SMA overlays.
func (s *Service) PriceChart(ctx context.Context, symbol string, days int, smaWindows []int) ([]byte, error) {
	symbol = strings.ToUpper(symbol)
	series, err := s.fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	closes := series.Values()
	values := [][]float64{closes}
	names := []string{symbol}

	for _, window := range smaWindows {
		if window < 2 || window > len(closes) {
			continue
		}
		values = append(values, maskWarmup(talib.Sma(closes, window), window-1))
		names = append(names, fmt.Sprintf("SMA %d", window))
	}

	return renderLines(values, names, dateLabels(series),
		fmt.Sprintf("%s price", symbol), "")
}

// DrawdownChart renders the drawdown from the running peak, in percent.
func (s *Service) DrawdownChart(ctx context.Context, symbol string, days int) ([]byte, error) {
	symbol = strings.ToUpper(symbol)
	series, err := s.fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	drawdowns := make([]float64, len(series))
	peak := series[0].Value
	for i, point := range series {
		if point.Value > peak {
			peak = point.Value
		}
		if peak > 0 {
			drawdowns[i] = (point.Value/peak - 1) * 100
		}
	}

	return renderLines([][]float64{drawdowns}, []string{symbol}, dateLabels(series),
		fmt.Sprintf("%s drawdown", symbol), "% below running peak")
}

// CumulativeReturnChart renders the cumulative return since the start of the
// window, in percent.
func (s *Service) CumulativeReturnChart(ctx context.Context, symbol string, days int) ([]byte, error) {
	symbol = strings.ToUpper(symbol)
	series, err := s.fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	cumulative := s.calc.CumulativeReturns(series)
	values := make([]float64, len(cumulative))
	labels := make([]string, len(cumulative))
	for i, point := range cumulative {
		values[i] = point.Value * 100
		labels[i] = point.Date.Format("2006-01-02")
	}

	return renderLines([][]float64{values}, []string{symbol}, labels,
		fmt.Sprintf("%s cumulative return", symbol), "% since window start")
}

// ComparisonChart renders several assets normalized to 100 at the window
// start. Symbols whose history cannot be fetched are skipped; at least two
// usable symbols are required.
func (s *Service) ComparisonChart(ctx context.Context, symbols []string, days int) ([]byte, error) {
	var (
		values [][]float64
		names  []string
		labels []string
	)
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		series, err := s.fetch(ctx, symbol, days)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping symbol in comparison chart")
			continue
		}

		base := series[0].Value
		normalized := make([]float64, len(series))
		for i, point := range series {
			normalized[i] = point.Value / base * 100
		}
		values = append(values, normalized)
		names = append(names, symbol)
		if len(series) > len(labels) {
			labels = dateLabels(series)
		}
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("comparison chart needs at least 2 symbols with price history")
	}

	return renderLines(values, names, labels,
		"Performance comparison", "normalized to 100")
}

func (s *Service) fetch(ctx context.Context, symbol string, days int) (domain.PriceSeries, error) {
	if days <= 0 {
		days = 365
	}
	series, err := s.prices.PriceSeries(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", symbol, err)
	}
	if len(series) < 2 {
		return nil, fmt.Errorf("not enough price history for %s", symbol)
	}
	return series, nil
}

func dateLabels(series domain.PriceSeries) []string {
	labels := make([]string, len(series))
	for i, point := range series {
		labels[i] = point.Date.Format("2006-01-02")
	}
	return labels
}

// maskWarmup hides the indicator warmup period so overlays start where the
// window is actually full.
func maskWarmup(values []float64, warmup int) []float64 {
	for i := 0; i < warmup && i < len(values); i++ {
		values[i] = nullValue()
	}
	return values
}
