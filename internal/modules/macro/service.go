package macro

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/fred"
)

// SeriesSource fetches indicator observations from a provider.
// Satisfied by the FRED client.
type SeriesSource interface {
	Series(ctx context.Context, seriesID string, start time.Time) ([]fred.Observation, error)
}

// Narrator produces a written interpretation of macro conditions.
// Satisfied by the AI analyzer.
type Narrator interface {
	AnalyzeMacro(ctx context.Context, country string, latest map[string]float64) (string, error)
}

// Service syncs and serves macroeconomic indicators.
type Service struct {
	repo     *Repository
	source   SeriesSource
	narrator Narrator
	series   []SeriesDef
	log      zerolog.Logger
}

// NewService creates a new macro service tracking the default US series.
// narrator may be nil.
func NewService(repo *Repository, source SeriesSource, narrator Narrator, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		source:   source,
		narrator: narrator,
		series:   USSeries,
		log:      log.With().Str("service", "macro").Logger(),
	}
}

// Sync pulls the configured indicators from the provider and persists them.
// A failing series is logged and skipped so one outage does not block the
// rest. Returns the number of series synced.
func (s *Service) Sync(ctx context.Context, lookbackYears int) (int, error) {
	if s.source == nil {
		return 0, fmt.Errorf("no macro data source configured")
	}
	if lookbackYears <= 0 {
		lookbackYears = 5
	}
	start := time.Now().AddDate(-lookbackYears, 0, 0)

	synced := 0
	for _, def := range s.series {
		observations, err := s.source.Series(ctx, def.SeriesID, start)
		if err != nil {
			s.log.Warn().Err(err).Str("series", def.SeriesID).Msg("Failed to sync macro series")
			continue
		}

		metrics := make([]Metric, 0, len(observations))
		for _, obs := range observations {
			metrics = append(metrics, Metric{Date: obs.Date, Value: obs.Value})
		}
		if err := s.repo.SaveObservations(def, metrics); err != nil {
			s.log.Error().Err(err).Str("series", def.SeriesID).Msg("Failed to persist macro series")
			continue
		}

		s.log.Debug().Str("series", def.SeriesID).Int("observations", len(metrics)).Msg("Macro series synced")
		synced++
	}
	return synced, nil
}

// Latest returns the most recent reading of every tracked indicator.
func (s *Service) Latest(country string) ([]Metric, error) {
	if country == "" {
		country = "US"
	}
	return s.repo.Latest(country)
}

// History returns one indicator's observations over the lookback window.
func (s *Service) History(code, country string, days int) ([]Metric, error) {
	if country == "" {
		country = "US"
	}
	if days <= 0 {
		days = 365
	}
	return s.repo.History(code, country, time.Now().AddDate(0, 0, -days))
}

// Analysis produces an AI assessment of the latest macro readings. Returns
// an empty string when no narrator is configured.
func (s *Service) Analysis(ctx context.Context, country string) (string, error) {
	if s.narrator == nil {
		return "", nil
	}
	if country == "" {
		country = "US"
	}

	metrics, err := s.repo.Latest(country)
	if err != nil {
		return "", err
	}
	if len(metrics) == 0 {
		return "", fmt.Errorf("no macro data for %s, sync first", country)
	}

	latest := make(map[string]float64, len(metrics))
	for _, metric := range metrics {
		latest[metric.MetricCode] = metric.Value
	}
	return s.narrator.AnalyzeMacro(ctx, country, latest)
}
