// Package assets manages asset master data and price history persistence.
// Fresh data comes from the market-data provider; everything fetched is
// written through to the price_history table so analyses keep working when
// the provider is down.
package assets

import "time"

// Asset is a tracked instrument: stock, index, crypto, commodity or forex
// pair.
type Asset struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	AssetType   string    `json:"asset_type"`
	Market      string    `json:"market,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Asset types stored in assets.asset_type.
const (
	TypeStock     = "stock"
	TypeIndex     = "index"
	TypeCrypto    = "crypto"
	TypeCommodity = "commodity"
	TypeForex     = "forex"
)
