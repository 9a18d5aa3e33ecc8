package portfolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles holding database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new portfolio repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

const holdingColumns = `ua.id, ua.user_id, ua.asset_id, a.symbol, a.name, a.asset_type,
	ua.quantity, ua.average_cost, ua.notes, ua.created_at, ua.updated_at`

func scanHolding(row interface{ Scan(...interface{}) error }) (*Holding, error) {
	var h Holding
	var averageCost sql.NullFloat64
	var notes sql.NullString
	var createdAt int64
	var updatedAt sql.NullInt64

	err := row.Scan(&h.ID, &h.UserID, &h.AssetID, &h.Symbol, &h.Name, &h.AssetType,
		&h.Quantity, &averageCost, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	h.AverageCost = averageCost.Float64
	h.Notes = notes.String
	h.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		h.UpdatedAt = &t
	}
	return &h, nil
}

// Upsert inserts a holding or updates quantity, cost and notes for an
// existing (user, asset) pair.
func (r *Repository) Upsert(userID, assetID int64, quantity, averageCost float64, notes string) error {
	now := time.Now().Unix()
	_, err := r.db.Exec(`INSERT INTO user_assets (user_id, asset_id, quantity, average_cost, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, asset_id) DO UPDATE SET
			quantity = excluded.quantity,
			average_cost = excluded.average_cost,
			notes = excluded.notes,
			updated_at = ?`,
		userID, assetID, quantity, averageCost, nullableString(notes), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// Get returns the holding for a (user, asset) pair, nil when not found.
func (r *Repository) Get(userID, assetID int64) (*Holding, error) {
	query := "SELECT " + holdingColumns + ` FROM user_assets ua
		JOIN assets a ON a.id = ua.asset_id
		WHERE ua.user_id = ? AND ua.asset_id = ?`

	holding, err := scanHolding(r.db.QueryRow(query, userID, assetID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query holding: %w", err)
	}
	return holding, nil
}

// ListByUser returns all holdings of a user, ordered by symbol.
func (r *Repository) ListByUser(userID int64) ([]Holding, error) {
	query := "SELECT " + holdingColumns + ` FROM user_assets ua
		JOIN assets a ON a.id = ua.asset_id
		WHERE ua.user_id = ?
		ORDER BY a.symbol`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, *holding)
	}
	return holdings, rows.Err()
}

// Delete removes a holding. Returns false when nothing was deleted.
func (r *Repository) Delete(userID, assetID int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM user_assets WHERE user_id = ? AND asset_id = ?", userID, assetID)
	if err != nil {
		return false, fmt.Errorf("failed to delete holding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
