package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/ai"
	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/modules/metrics"
)

// DefaultBenchmark is the market series used for relative metrics when the
// caller does not name one.
const DefaultBenchmark = "^GSPC"

// PriceSource provides price history and descriptive data for symbols.
// Satisfied by the assets service.
type PriceSource interface {
	PriceSeries(ctx context.Context, symbol string, days int) (domain.PriceSeries, error)
	Info(ctx context.Context, symbol string) (*yahoo.AssetInfo, error)
}

// Narrator produces a written interpretation of a metrics record.
// Satisfied by the AI analyzer.
type Narrator interface {
	Enabled() bool
	AnalyzeAsset(ctx context.Context, asset ai.AssetContext, record domain.MetricsRecord, headlines []string) (string, error)
}

// Result is a full analysis of one asset over a lookback window.
type Result struct {
	Symbol        string               `json:"symbol"`
	Benchmark     string               `json:"benchmark"`
	PeriodDays    int                  `json:"period_days"`
	CalculatedAt  time.Time            `json:"calculated_at"`
	Metrics       domain.MetricsRecord `json:"metrics"`
	DrawdownDates domain.DrawdownDates `json:"drawdown_dates"`
	Narrative     string               `json:"narrative,omitempty"`
}

// Service computes, persists and narrates asset analytics.
type Service struct {
	repo     *Repository
	prices   PriceSource
	calc     *metrics.Calculator
	narrator Narrator
	log      zerolog.Logger
}

// NewService creates a new analysis service. narrator may be nil, in which
// case results carry no narrative.
func NewService(repo *Repository, prices PriceSource, calc *metrics.Calculator, narrator Narrator, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		prices:   prices,
		calc:     calc,
		narrator: narrator,
		log:      log.With().Str("service", "analysis").Logger(),
	}
}

// Analyze computes the full metrics record for a symbol over the lookback
// window, persists it, and optionally attaches an AI narrative. Benchmark
// data is best effort: if the benchmark series cannot be fetched the
// market-relative metrics are simply absent from the record.
func (s *Service) Analyze(ctx context.Context, symbol string, days int, benchmark string, withNarrative bool) (*Result, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if benchmark == "" {
		benchmark = DefaultBenchmark
	}
	if days <= 0 {
		days = 365
	}

	prices, err := s.prices.PriceSeries(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if len(prices) < 2 {
		return nil, fmt.Errorf("not enough price history for %s", symbol)
	}

	var marketPrices domain.PriceSeries
	if benchmark != symbol {
		marketPrices, err = s.prices.PriceSeries(ctx, benchmark, days)
		if err != nil {
			s.log.Warn().Err(err).Str("benchmark", benchmark).Msg("Benchmark unavailable, skipping relative metrics")
			marketPrices = nil
		}
	}

	record := s.calc.CalculateAllMetrics(prices, marketPrices)
	_, peak, trough := s.calc.MaxDrawdown(prices)

	asOf := prices[len(prices)-1].Date
	if err := s.repo.SaveMetrics(symbol, asOf, days, record); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist metrics")
	}

	result := &Result{
		Symbol:        symbol,
		Benchmark:     benchmark,
		PeriodDays:    days,
		CalculatedAt:  asOf,
		Metrics:       record,
		DrawdownDates: domain.DrawdownDates{Peak: peak, Trough: trough},
	}

	if withNarrative && s.narrator != nil {
		result.Narrative = s.narrative(ctx, symbol, record)
	}
	return result, nil
}

func (s *Service) narrative(ctx context.Context, symbol string, record domain.MetricsRecord) string {
	asset := ai.AssetContext{Symbol: symbol}
	if info, err := s.prices.Info(ctx, symbol); err == nil && info != nil {
		asset.Name = info.Name
		asset.Sector = info.Sector
		asset.Market = info.Exchange
	}

	text, err := s.narrator.AnalyzeAsset(ctx, asset, record, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Narrative generation failed")
		return ""
	}
	return text
}

// CorrelationMatrix computes pairwise return correlations across the given
// symbols over the lookback window and persists the pairs. Symbols whose
// history cannot be fetched are dropped from the matrix.
func (s *Service) CorrelationMatrix(ctx context.Context, symbols []string, days int) (*metrics.CorrelationMatrix, error) {
	if days <= 0 {
		days = 365
	}
	if len(symbols) < 2 {
		return nil, fmt.Errorf("need at least two symbols")
	}

	series := make(map[string]domain.ReturnSeries, len(symbols))
	var asOf time.Time
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		prices, err := s.prices.PriceSeries(ctx, symbol, days)
		if err != nil || len(prices) < 2 {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping symbol in correlation matrix")
			continue
		}
		series[symbol] = s.calc.SimpleReturns(prices)
		if last := prices[len(prices)-1].Date; last.After(asOf) {
			asOf = last
		}
	}
	if len(series) < 2 {
		return nil, fmt.Errorf("not enough usable symbols for a correlation matrix")
	}

	matrix := s.calc.CorrelationMatrixOf(series)
	if err := s.repo.SaveCorrelations(asOf, days, matrix); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist correlations")
	}
	return &matrix, nil
}

// Cached returns the most recent stored analysis for a symbol and period,
// without recomputing. A nil result means nothing has been stored yet.
func (s *Service) Cached(symbol string, days int) (*Result, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	record, asOf, err := s.repo.GetLatestMetrics(symbol, days)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return &Result{
		Symbol:       symbol,
		PeriodDays:   days,
		CalculatedAt: asOf,
		Metrics:      record,
	}, nil
}
