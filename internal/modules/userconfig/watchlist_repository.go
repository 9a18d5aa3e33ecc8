package userconfig

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// WatchlistRepository handles watchlist database operations.
type WatchlistRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewWatchlistRepository creates a new watchlist repository.
func NewWatchlistRepository(db *sql.DB, log zerolog.Logger) *WatchlistRepository {
	return &WatchlistRepository{
		db:  db,
		log: log.With().Str("repo", "watchlists").Logger(),
	}
}

const watchlistColumns = `id, user_id, name, description, asset_symbols, created_at, updated_at`

func scanWatchlist(row interface{ Scan(...interface{}) error }) (*Watchlist, error) {
	var w Watchlist
	var description sql.NullString
	var symbolsJSON string
	var createdAt int64
	var updatedAt sql.NullInt64

	err := row.Scan(&w.ID, &w.UserID, &w.Name, &description, &symbolsJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	w.Description = description.String
	if err := json.Unmarshal([]byte(symbolsJSON), &w.AssetSymbols); err != nil {
		return nil, fmt.Errorf("failed to decode watchlist symbols: %w", err)
	}
	if w.AssetSymbols == nil {
		w.AssetSymbols = []string{}
	}
	w.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		w.UpdatedAt = &t
	}
	return &w, nil
}

// Create inserts a new watchlist and returns it with its assigned ID.
func (r *WatchlistRepository) Create(w *Watchlist) error {
	if w.AssetSymbols == nil {
		w.AssetSymbols = []string{}
	}
	symbolsJSON, err := json.Marshal(w.AssetSymbols)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist symbols: %w", err)
	}
	w.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT INTO watchlists
		(user_id, name, description, asset_symbols, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		w.UserID, w.Name, nullableString(w.Description), string(symbolsJSON), w.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}

	w.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get watchlist id: %w", err)
	}
	return nil
}

// Get returns a user's watchlist by ID, nil when not found.
func (r *WatchlistRepository) Get(userID, id int64) (*Watchlist, error) {
	query := "SELECT " + watchlistColumns + " FROM watchlists WHERE id = ? AND user_id = ?"

	watchlist, err := scanWatchlist(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	return watchlist, nil
}

// ListByUser returns all watchlists of a user, ordered by name.
func (r *WatchlistRepository) ListByUser(userID int64) ([]Watchlist, error) {
	query := "SELECT " + watchlistColumns + " FROM watchlists WHERE user_id = ? ORDER BY name"

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlists: %w", err)
	}
	defer rows.Close()

	var watchlists []Watchlist
	for rows.Next() {
		watchlist, err := scanWatchlist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist: %w", err)
		}
		watchlists = append(watchlists, *watchlist)
	}
	return watchlists, rows.Err()
}

// Update replaces name, description and symbols of a user's watchlist.
// Returns false when the watchlist does not exist.
func (r *WatchlistRepository) Update(w *Watchlist) (bool, error) {
	if w.AssetSymbols == nil {
		w.AssetSymbols = []string{}
	}
	symbolsJSON, err := json.Marshal(w.AssetSymbols)
	if err != nil {
		return false, fmt.Errorf("failed to encode watchlist symbols: %w", err)
	}

	result, err := r.db.Exec(`UPDATE watchlists
		SET name = ?, description = ?, asset_symbols = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		w.Name, nullableString(w.Description), string(symbolsJSON), time.Now().Unix(), w.ID, w.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to update watchlist: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a user's watchlist. Returns false when nothing was deleted.
func (r *WatchlistRepository) Delete(userID, id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM watchlists WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete watchlist: %w", err)
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
