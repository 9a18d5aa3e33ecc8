// Package portfolio manages user holdings and their live valuation.
package portfolio

import "time"

// Holding is one position a user holds in an asset.
type Holding struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"-"`
	AssetID     int64      `json:"asset_id"`
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	AssetType   string     `json:"asset_type"`
	Quantity    float64    `json:"quantity"`
	AverageCost float64    `json:"average_cost"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Position is a holding valued at the current market price. When no quote is
// available Priced is false and the market fields fall back to cost.
type Position struct {
	Holding
	Priced               bool    `json:"priced"`
	CurrentPrice         float64 `json:"current_price"`
	MarketValue          float64 `json:"market_value"`
	CostBasis            float64 `json:"cost_basis"`
	UnrealizedPnL        float64 `json:"unrealized_pnl"`
	UnrealizedPnLPercent float64 `json:"unrealized_pnl_percent"`
}

// Summary aggregates a user's positions.
type Summary struct {
	TotalValue      float64    `json:"total_value"`
	TotalCost       float64    `json:"total_cost"`
	TotalPnL        float64    `json:"total_pnl"`
	TotalPnLPercent float64    `json:"total_pnl_percent"`
	PositionCount   int        `json:"position_count"`
	Positions       []Position `json:"positions"`
}
