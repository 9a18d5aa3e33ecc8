package userconfig

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// AlertRepository handles alert database operations.
type AlertRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewAlertRepository creates a new alert repository.
func NewAlertRepository(db *sql.DB, log zerolog.Logger) *AlertRepository {
	return &AlertRepository{
		db:  db,
		log: log.With().Str("repo", "alerts").Logger(),
	}
}

const alertColumns = `id, user_id, asset_symbol, alert_type, target_value,
	is_active, is_triggered, triggered_at, message, created_at, updated_at`

func scanAlert(row interface{ Scan(...interface{}) error }) (*Alert, error) {
	var a Alert
	var triggeredAt, updatedAt sql.NullInt64
	var message sql.NullString
	var createdAt int64

	err := row.Scan(&a.ID, &a.UserID, &a.AssetSymbol, &a.AlertType, &a.TargetValue,
		&a.IsActive, &a.IsTriggered, &triggeredAt, &message, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if triggeredAt.Valid {
		t := time.Unix(triggeredAt.Int64, 0).UTC()
		a.TriggeredAt = &t
	}
	a.Message = message.String
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		a.UpdatedAt = &t
	}
	return &a, nil
}

// Create inserts a new alert and returns it with its assigned ID.
func (r *AlertRepository) Create(a *Alert) error {
	a.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT INTO alerts
		(user_id, asset_symbol, alert_type, target_value, is_active, is_triggered, message, created_at)
		VALUES (?, ?, ?, ?, 1, 0, ?, ?)`,
		a.UserID, a.AssetSymbol, a.AlertType, a.TargetValue,
		nullableString(a.Message), a.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get alert id: %w", err)
	}
	a.IsActive = true
	return nil
}

// Get returns a user's alert by ID, nil when not found.
func (r *AlertRepository) Get(userID, id int64) (*Alert, error) {
	query := "SELECT " + alertColumns + " FROM alerts WHERE id = ? AND user_id = ?"

	alert, err := scanAlert(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query alert: %w", err)
	}
	return alert, nil
}

// ListByUser returns all alerts of a user, newest first.
func (r *AlertRepository) ListByUser(userID int64) ([]Alert, error) {
	query := "SELECT " + alertColumns + " FROM alerts WHERE user_id = ? ORDER BY created_at DESC"
	return r.queryAlerts(query, userID)
}

// ListActive returns every active untriggered alert across all users.
func (r *AlertRepository) ListActive() ([]Alert, error) {
	query := "SELECT " + alertColumns + " FROM alerts WHERE is_active = 1 AND is_triggered = 0"
	return r.queryAlerts(query)
}

func (r *AlertRepository) queryAlerts(query string, args ...interface{}) ([]Alert, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}

// MarkTriggered records that an alert fired with the given message.
func (r *AlertRepository) MarkTriggered(id int64, message string) error {
	now := time.Now().Unix()
	_, err := r.db.Exec(`UPDATE alerts
		SET is_triggered = 1, triggered_at = ?, message = ?, updated_at = ?
		WHERE id = ?`, now, message, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return nil
}

// Reset re-arms a user's triggered alert. Returns false when the alert does
// not exist.
func (r *AlertRepository) Reset(userID, id int64) (bool, error) {
	result, err := r.db.Exec(`UPDATE alerts
		SET is_triggered = 0, triggered_at = NULL, updated_at = ?
		WHERE id = ? AND user_id = ?`, time.Now().Unix(), id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to reset alert: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a user's alert. Returns false when nothing was deleted.
func (r *AlertRepository) Delete(userID, id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM alerts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}
