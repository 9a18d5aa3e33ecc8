package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/domain"
)

// MarketData is the provider surface the service needs. Satisfied by the
// yahoo client; narrowed to an interface so tests can stub it.
type MarketData interface {
	History(ctx context.Context, symbol, rng string) ([]domain.Bar, error)
	Quote(ctx context.Context, symbol string) (*yahoo.Quote, error)
	Info(ctx context.Context, symbol string) (*yahoo.AssetInfo, error)
}

// Service coordinates asset master data with the market-data provider.
type Service struct {
	repo   *Repository
	market MarketData
	log    zerolog.Logger
}

// NewService creates a new asset service.
func NewService(repo *Repository, market MarketData, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		market: market,
		log:    log.With().Str("service", "assets").Logger(),
	}
}

// lookbackToRange maps a lookback in days to the provider's range parameter.
func lookbackToRange(days int) string {
	switch {
	case days <= 0:
		return "1y"
	case days <= 31:
		return "1mo"
	case days <= 93:
		return "3mo"
	case days <= 186:
		return "6mo"
	case days <= 366:
		return "1y"
	case days <= 731:
		return "2y"
	case days <= 1830:
		return "5y"
	default:
		return "max"
	}
}

// Ensure returns the asset for symbol, creating it from the provider's
// profile when it is not yet tracked.
func (s *Service) Ensure(ctx context.Context, symbol string) (*Asset, error) {
	asset, err := s.repo.GetBySymbol(symbol)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		return asset, nil
	}

	info, err := s.market.Info(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("cannot register %s: %w", symbol, err)
	}

	asset = &Asset{
		Symbol:      info.Symbol,
		Name:        info.Name,
		AssetType:   TypeStock,
		Market:      info.Exchange,
		Sector:      info.Sector,
		Currency:    info.Currency,
		Description: info.Summary,
	}
	if asset.Name == "" {
		asset.Name = normalizeSymbol(symbol)
	}
	if err := s.repo.Create(asset); err != nil {
		return nil, err
	}

	s.log.Info().Str("symbol", asset.Symbol).Msg("Registered new asset")
	return asset, nil
}

// History returns the close-price bars for symbol over the last days,
// fetching from the provider and writing through to price_history. When the
// provider is unavailable the stored history is served instead.
func (s *Service) History(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	asset, err := s.Ensure(ctx, symbol)
	if err != nil {
		return nil, err
	}

	from := time.Now().UTC().AddDate(0, 0, -days)

	bars, err := s.market.History(ctx, symbol, lookbackToRange(days))
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Provider unavailable, serving stored history")
		return s.repo.GetPriceHistory(asset.ID, from)
	}

	if err := s.repo.SavePriceHistory(asset.ID, bars); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to persist price history")
	}

	filtered := make([]domain.Bar, 0, len(bars))
	for _, bar := range bars {
		if !bar.Date.Before(from) {
			filtered = append(filtered, bar)
		}
	}
	return filtered, nil
}

// PriceSeries returns the close-price series for symbol over the last days.
func (s *Service) PriceSeries(ctx context.Context, symbol string, days int) (domain.PriceSeries, error) {
	bars, err := s.History(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	return domain.CloseSeries(bars), nil
}

// Quote returns the latest quote for symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (*yahoo.Quote, error) {
	return s.market.Quote(ctx, symbol)
}

// Info returns the provider profile for symbol.
func (s *Service) Info(ctx context.Context, symbol string) (*yahoo.AssetInfo, error) {
	return s.market.Info(ctx, symbol)
}

// List returns tracked assets, optionally filtered by type.
func (s *Service) List(assetType string) ([]Asset, error) {
	return s.repo.List(assetType)
}

// Search finds tracked assets by symbol or name fragment.
func (s *Service) Search(q string, limit int) ([]Asset, error) {
	return s.repo.Search(q, limit)
}
