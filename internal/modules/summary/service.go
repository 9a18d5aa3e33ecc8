package summary

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/ai"
	"github.com/finsight/finsight/internal/clients/yahoo"
)

// QuoteSource provides live quotes for the tracked indices. Satisfied by the
// assets service.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*yahoo.Quote, error)
}

// Narrator produces the AI write-up of the day. Satisfied by the AI
// analyzer.
type Narrator interface {
	DailySummary(ctx context.Context, date string, indices []ai.IndexQuote, gainers, losers []ai.IndexQuote) (string, error)
}

// Service builds and serves daily market summaries.
type Service struct {
	repo     *Repository
	quotes   QuoteSource
	narrator Narrator
	indices  []IndexDef
	log      zerolog.Logger
}

// NewService creates a new summary service tracking the default US indices.
// narrator may be nil, in which case summaries carry no AI analysis.
func NewService(repo *Repository, quotes QuoteSource, narrator Narrator, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		quotes:   quotes,
		narrator: narrator,
		indices:  USIndices,
		log:      log.With().Str("service", "summary").Logger(),
	}
}

// Generate builds and persists the summary for a date. Indices whose quote
// cannot be fetched are skipped; at least one is required.
func (s *Service) Generate(ctx context.Context, date time.Time, market string) (*DailySummary, error) {
	if market == "" {
		market = "US"
	}

	var indexQuotes []ai.IndexQuote
	for _, def := range s.indices {
		quote, err := s.quotes.Quote(ctx, def.Symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("index", def.Symbol).Msg("Index quote unavailable")
			continue
		}
		indexQuotes = append(indexQuotes, ai.IndexQuote{
			Name:          def.Name,
			Price:         quote.Price,
			ChangePercent: quote.ChangePercent(),
		})
	}
	if len(indexQuotes) == 0 {
		return nil, fmt.Errorf("no index quotes available for %s summary", market)
	}

	summary := &DailySummary{
		SummaryDate: date,
		Market:      market,
		Title:       fmt.Sprintf("%s market summary for %s", market, date.Format("January 2, 2006")),
		Summary:     composeSummary(indexQuotes),
		Sentiment:   classifySentiment(indexQuotes),
	}

	if s.narrator != nil {
		analysis, err := s.narrator.DailySummary(ctx, date.Format("2006-01-02"), indexQuotes, nil, nil)
		if err != nil {
			s.log.Warn().Err(err).Msg("AI summary failed, storing without analysis")
		} else {
			summary.AIAnalysis = analysis
		}
	}

	if err := s.repo.Save(summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// Get returns the stored summary for a date, nil when none exists.
func (s *Service) Get(date time.Time, market string) (*DailySummary, error) {
	if market == "" {
		market = "US"
	}
	return s.repo.Get(date, market)
}

// Latest returns the most recent summaries for a market.
func (s *Service) Latest(market string, limit int) ([]DailySummary, error) {
	if market == "" {
		market = "US"
	}
	return s.repo.Latest(market, limit)
}

// composeSummary renders a one-line-per-index plain text digest.
func composeSummary(indices []ai.IndexQuote) string {
	lines := make([]string, 0, len(indices))
	for _, index := range indices {
		direction := "up"
		if index.ChangePercent < 0 {
			direction = "down"
		}
		lines = append(lines, fmt.Sprintf("%s closed at %.2f, %s %.2f%%",
			index.Name, index.Price, direction, math.Abs(index.ChangePercent)))
	}
	return strings.Join(lines, "\n")
}

// classifySentiment labels the day by the average index move. Moves within
// a quarter percent either way count as neutral.
func classifySentiment(indices []ai.IndexQuote) string {
	var total float64
	for _, index := range indices {
		total += index.ChangePercent
	}
	average := total / float64(len(indices))

	switch {
	case average > 0.25:
		return SentimentBullish
	case average < -0.25:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
