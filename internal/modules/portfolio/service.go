package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/ai"
	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/modules/assets"
)

// AssetCatalog resolves symbols to assets and provides live quotes.
// Satisfied by the assets service.
type AssetCatalog interface {
	Ensure(ctx context.Context, symbol string) (*assets.Asset, error)
	Quote(ctx context.Context, symbol string) (*yahoo.Quote, error)
}

// Narrator produces a written interpretation of a portfolio.
// Satisfied by the AI analyzer.
type Narrator interface {
	AnalyzePortfolio(ctx context.Context, holdings []ai.Holding, metrics map[string]float64) (string, error)
}

// Service manages user holdings and their valuation.
type Service struct {
	repo     *Repository
	catalog  AssetCatalog
	narrator Narrator
	log      zerolog.Logger
}

// NewService creates a new portfolio service. narrator may be nil.
func NewService(repo *Repository, catalog AssetCatalog, narrator Narrator, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		narrator: narrator,
		log:      log.With().Str("service", "portfolio").Logger(),
	}
}

// SetHolding creates or replaces the user's position in a symbol. The asset
// is created from provider data when it is not yet known.
func (s *Service) SetHolding(ctx context.Context, userID int64, symbol string, quantity, averageCost float64, notes string) (*Holding, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if averageCost < 0 {
		return nil, fmt.Errorf("average cost cannot be negative")
	}

	asset, err := s.catalog.Ensure(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(userID, asset.ID, quantity, averageCost, notes); err != nil {
		return nil, err
	}
	return s.repo.Get(userID, asset.ID)
}

// RemoveHolding deletes the user's position in a symbol. Returns false when
// the user held none.
func (s *Service) RemoveHolding(ctx context.Context, userID int64, symbol string) (bool, error) {
	asset, err := s.catalog.Ensure(ctx, symbol)
	if err != nil {
		return false, err
	}
	return s.repo.Delete(userID, asset.ID)
}

// Holdings returns the user's raw holdings without market valuation.
func (s *Service) Holdings(userID int64) ([]Holding, error) {
	return s.repo.ListByUser(userID)
}

// Summary values all holdings of a user at current quotes. Positions whose
// quote cannot be fetched are valued at cost and flagged unpriced.
func (s *Service) Summary(ctx context.Context, userID int64) (*Summary, error) {
	holdings, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Positions: make([]Position, 0, len(holdings))}
	for _, holding := range holdings {
		position := Position{
			Holding:   holding,
			CostBasis: holding.Quantity * holding.AverageCost,
		}

		quote, err := s.catalog.Quote(ctx, holding.Symbol)
		if err != nil || quote == nil {
			s.log.Warn().Err(err).Str("symbol", holding.Symbol).Msg("No quote, valuing position at cost")
			position.MarketValue = position.CostBasis
		} else {
			position.Priced = true
			position.CurrentPrice = quote.Price
			position.MarketValue = holding.Quantity * quote.Price
			position.UnrealizedPnL = position.MarketValue - position.CostBasis
			if position.CostBasis != 0 {
				position.UnrealizedPnLPercent = position.UnrealizedPnL / position.CostBasis * 100
			}
		}

		summary.TotalValue += position.MarketValue
		summary.TotalCost += position.CostBasis
		summary.Positions = append(summary.Positions, position)
	}

	summary.PositionCount = len(summary.Positions)
	summary.TotalPnL = summary.TotalValue - summary.TotalCost
	if summary.TotalCost != 0 {
		summary.TotalPnLPercent = summary.TotalPnL / summary.TotalCost * 100
	}
	return summary, nil
}

// Narrative produces an AI assessment of the user's portfolio. Returns an
// empty string when no narrator is configured or the user holds nothing.
func (s *Service) Narrative(ctx context.Context, userID int64) (string, error) {
	if s.narrator == nil {
		return "", nil
	}

	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return "", err
	}
	if summary.PositionCount == 0 {
		return "", nil
	}

	holdings := make([]ai.Holding, 0, summary.PositionCount)
	for _, position := range summary.Positions {
		holdings = append(holdings, ai.Holding{
			Symbol:      position.Symbol,
			Quantity:    position.Quantity,
			AverageCost: position.AverageCost,
		})
	}

	metrics := map[string]float64{
		"total_value":       summary.TotalValue,
		"total_cost":        summary.TotalCost,
		"total_pnl":         summary.TotalPnL,
		"total_pnl_percent": summary.TotalPnLPercent,
	}
	return s.narrator.AnalyzePortfolio(ctx, holdings, metrics)
}
