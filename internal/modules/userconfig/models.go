// Package userconfig holds per-user configuration: watchlists and price
// alerts.
package userconfig

import "time"

// Watchlist is a named list of symbols a user follows.
type Watchlist struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"-"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	AssetSymbols []string   `json:"asset_symbols"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Alert types.
const (
	AlertPriceAbove = "price_above"
	AlertPriceBelow = "price_below"
)

// Alert is a one-shot price alert. Once triggered it stays triggered until
// the user resets or deletes it.
type Alert struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"-"`
	AssetSymbol string     `json:"asset_symbol"`
	AlertType   string     `json:"alert_type"`
	TargetValue float64    `json:"target_value"`
	IsActive    bool       `json:"is_active"`
	IsTriggered bool       `json:"is_triggered"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ShouldTrigger reports whether the alert fires at the given price.
func (a *Alert) ShouldTrigger(price float64) bool {
	if !a.IsActive || a.IsTriggered {
		return false
	}
	switch a.AlertType {
	case AlertPriceAbove:
		return price >= a.TargetValue
	case AlertPriceBelow:
		return price <= a.TargetValue
	default:
		return false
	}
}
