package assets

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/domain"
)

// Repository handles asset and price history database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new asset repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "assets").Logger(),
	}
}

const assetColumns = `id, symbol, name, asset_type, market, sector, currency, description, is_active, created_at, updated_at`

func scanAsset(row interface{ Scan(...interface{}) error }) (*Asset, error) {
	var a Asset
	var market, sector, currency, description sql.NullString
	var createdAt int64
	var updatedAt sql.NullInt64

	err := row.Scan(&a.ID, &a.Symbol, &a.Name, &a.AssetType, &market, &sector,
		&currency, &description, &a.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.Market = market.String
	a.Sector = sector.String
	a.Currency = currency.String
	a.Description = description.String
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		a.UpdatedAt = time.Unix(updatedAt.Int64, 0).UTC()
	}
	return &a, nil
}

// GetBySymbol returns an asset by symbol, nil when not found.
func (r *Repository) GetBySymbol(symbol string) (*Asset, error) {
	query := "SELECT " + assetColumns + " FROM assets WHERE symbol = ?"

	asset, err := scanAsset(r.db.QueryRow(query, normalizeSymbol(symbol)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query asset by symbol: %w", err)
	}
	return asset, nil
}

// List returns all active assets, optionally filtered by asset type.
func (r *Repository) List(assetType string) ([]Asset, error) {
	query := "SELECT " + assetColumns + " FROM assets WHERE is_active = 1"
	args := []interface{}{}
	if assetType != "" {
		query += " AND asset_type = ?"
		args = append(args, assetType)
	}
	query += " ORDER BY symbol"

	return r.queryAssets(query, args...)
}

// Search finds active assets whose symbol or name matches the query.
func (r *Repository) Search(q string, limit int) ([]Asset, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.TrimSpace(q) + "%"
	query := "SELECT " + assetColumns + ` FROM assets
		WHERE is_active = 1 AND (symbol LIKE ? OR name LIKE ?)
		ORDER BY symbol LIMIT ?`

	return r.queryAssets(query, pattern, pattern, limit)
}

func (r *Repository) queryAssets(query string, args ...interface{}) ([]Asset, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

// Create inserts a new asset and returns it with its assigned ID.
func (r *Repository) Create(a *Asset) error {
	a.Symbol = normalizeSymbol(a.Symbol)
	a.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT INTO assets
		(symbol, name, asset_type, market, sector, currency, description, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		a.Symbol, a.Name, a.AssetType, nullable(a.Market), nullable(a.Sector),
		nullable(a.Currency), nullable(a.Description), a.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create asset %s: %w", a.Symbol, err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get asset id: %w", err)
	}
	a.IsActive = true
	return nil
}

// SavePriceHistory upserts bars into price_history for the asset. Existing
// rows for the same date are replaced so re-syncs are idempotent.
func (r *Repository) SavePriceHistory(assetID int64, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO price_history
		(asset_id, date, open, high, low, close, volume, adj_close, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, bar := range bars {
		if _, err := stmt.Exec(assetID, bar.Date.Unix(), bar.Open, bar.High,
			bar.Low, bar.Close, bar.Volume, bar.AdjClose, now); err != nil {
			return fmt.Errorf("failed to insert price row: %w", err)
		}
	}

	return tx.Commit()
}

// GetPriceHistory returns the bars for an asset from the given date onward,
// ascending by date.
func (r *Repository) GetPriceHistory(assetID int64, from time.Time) ([]domain.Bar, error) {
	rows, err := r.db.Query(`SELECT date, open, high, low, close, volume, adj_close
		FROM price_history WHERE asset_id = ? AND date >= ? ORDER BY date ASC`,
		assetID, from.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var bar domain.Bar
		var date int64
		var open, high, low, volume, adjClose sql.NullFloat64
		if err := rows.Scan(&date, &open, &high, &low, &bar.Close, &volume, &adjClose); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		bar.Date = time.Unix(date, 0).UTC()
		bar.Open = open.Float64
		bar.High = high.Float64
		bar.Low = low.Float64
		bar.Volume = volume.Float64
		bar.AdjClose = adjClose.Float64
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

// LatestPriceDate returns the most recent stored price date for an asset,
// zero time when no history exists.
func (r *Repository) LatestPriceDate(assetID int64) (time.Time, error) {
	var date sql.NullInt64
	err := r.db.QueryRow("SELECT MAX(date) FROM price_history WHERE asset_id = ?", assetID).Scan(&date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest price date: %w", err)
	}
	if !date.Valid {
		return time.Time{}, nil
	}
	return time.Unix(date.Int64, 0).UTC(), nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
