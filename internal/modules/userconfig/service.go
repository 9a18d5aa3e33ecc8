package userconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/clients/yahoo"
)

// QuoteSource provides live quotes for alert checks. Satisfied by the assets
// service.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*yahoo.Quote, error)
}

// Service manages watchlists and alerts.
type Service struct {
	watchlists *WatchlistRepository
	alerts     *AlertRepository
	quotes     QuoteSource
	log        zerolog.Logger
}

// NewService creates a new userconfig service.
func NewService(watchlists *WatchlistRepository, alerts *AlertRepository, quotes QuoteSource, log zerolog.Logger) *Service {
	return &Service{
		watchlists: watchlists,
		alerts:     alerts,
		quotes:     quotes,
		log:        log.With().Str("service", "userconfig").Logger(),
	}
}

// CreateWatchlist creates a watchlist for a user.
func (s *Service) CreateWatchlist(userID int64, name, description string, symbols []string) (*Watchlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("watchlist name is required")
	}

	watchlist := &Watchlist{
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Description:  description,
		AssetSymbols: normalizeSymbols(symbols),
	}
	if err := s.watchlists.Create(watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// Watchlists returns all watchlists of a user.
func (s *Service) Watchlists(userID int64) ([]Watchlist, error) {
	return s.watchlists.ListByUser(userID)
}

// UpdateWatchlist replaces a watchlist's name, description and symbols.
// Returns nil when the watchlist does not exist.
func (s *Service) UpdateWatchlist(userID, id int64, name, description string, symbols []string) (*Watchlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("watchlist name is required")
	}

	watchlist := &Watchlist{
		ID:           id,
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		Description:  description,
		AssetSymbols: normalizeSymbols(symbols),
	}
	updated, err := s.watchlists.Update(watchlist)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}
	return s.watchlists.Get(userID, id)
}

// DeleteWatchlist removes a user's watchlist.
func (s *Service) DeleteWatchlist(userID, id int64) (bool, error) {
	return s.watchlists.Delete(userID, id)
}

// CreateAlert creates a price alert for a user.
func (s *Service) CreateAlert(userID int64, symbol, alertType string, target float64) (*Alert, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if alertType != AlertPriceAbove && alertType != AlertPriceBelow {
		return nil, fmt.Errorf("unknown alert type %q", alertType)
	}
	if target <= 0 {
		return nil, fmt.Errorf("target value must be positive")
	}

	alert := &Alert{
		UserID:      userID,
		AssetSymbol: symbol,
		AlertType:   alertType,
		TargetValue: target,
	}
	if err := s.alerts.Create(alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Alerts returns all alerts of a user.
func (s *Service) Alerts(userID int64) ([]Alert, error) {
	return s.alerts.ListByUser(userID)
}

// ResetAlert re-arms a triggered alert.
func (s *Service) ResetAlert(userID, id int64) (bool, error) {
	return s.alerts.Reset(userID, id)
}

// DeleteAlert removes a user's alert.
func (s *Service) DeleteAlert(userID, id int64) (bool, error) {
	return s.alerts.Delete(userID, id)
}

// CheckAlerts fetches a quote per distinct symbol with active alerts and
// marks the alerts whose condition is met. Quotes are fetched once per
// symbol. Returns the number of alerts triggered.
func (s *Service) CheckAlerts(ctx context.Context) (int, error) {
	alerts, err := s.alerts.ListActive()
	if err != nil {
		return 0, err
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	prices := make(map[string]float64)
	triggered := 0
	for _, alert := range alerts {
		price, ok := prices[alert.AssetSymbol]
		if !ok {
			quote, err := s.quotes.Quote(ctx, alert.AssetSymbol)
			if err != nil {
				s.log.Warn().Err(err).Str("symbol", alert.AssetSymbol).Msg("No quote for alert check")
				continue
			}
			price = quote.Price
			prices[alert.AssetSymbol] = price
		}

		if !alert.ShouldTrigger(price) {
			continue
		}

		direction := "above"
		if alert.AlertType == AlertPriceBelow {
			direction = "below"
		}
		message := fmt.Sprintf("%s is %s %.2f (current price %.2f)",
			alert.AssetSymbol, direction, alert.TargetValue, price)

		if err := s.alerts.MarkTriggered(alert.ID, message); err != nil {
			s.log.Error().Err(err).Int64("alert_id", alert.ID).Msg("Failed to mark alert triggered")
			continue
		}
		s.log.Info().Int64("alert_id", alert.ID).Str("symbol", alert.AssetSymbol).Msg("Alert triggered")
		triggered++
	}
	return triggered, nil
}

func normalizeSymbols(symbols []string) []string {
	normalized := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		normalized = append(normalized, symbol)
	}
	return normalized
}
