package notebook

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles journal entry database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new notebook repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "notebook").Logger(),
	}
}

const entryColumns = `id, user_id, title, content, entry_date, tags, asset_symbols, created_at, updated_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*Entry, error) {
	var e Entry
	var tagsJSON, symbolsJSON string
	var entryDate, createdAt int64
	var updatedAt sql.NullInt64

	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &entryDate,
		&tagsJSON, &symbolsJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode entry tags: %w", err)
	}
	if err := json.Unmarshal([]byte(symbolsJSON), &e.AssetSymbols); err != nil {
		return nil, fmt.Errorf("failed to decode entry symbols: %w", err)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.AssetSymbols == nil {
		e.AssetSymbols = []string{}
	}
	e.EntryDate = time.Unix(entryDate, 0).UTC()
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		e.UpdatedAt = &t
	}
	return &e, nil
}

func encodeLists(e *Entry) (string, string, error) {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.AssetSymbols == nil {
		e.AssetSymbols = []string{}
	}
	tagsJSON, err := json.Marshal(e.Tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode entry tags: %w", err)
	}
	symbolsJSON, err := json.Marshal(e.AssetSymbols)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode entry symbols: %w", err)
	}
	return string(tagsJSON), string(symbolsJSON), nil
}

// Create inserts a new entry and returns it with its assigned ID.
func (r *Repository) Create(e *Entry) error {
	tagsJSON, symbolsJSON, err := encodeLists(e)
	if err != nil {
		return err
	}
	e.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT INTO notebooks
		(user_id, title, content, entry_date, tags, asset_symbols, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Title, e.Content, e.EntryDate.Unix(), tagsJSON, symbolsJSON, e.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	e.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get entry id: %w", err)
	}
	return nil
}

// Get returns a user's entry by ID, nil when not found.
func (r *Repository) Get(userID, id int64) (*Entry, error) {
	query := "SELECT " + entryColumns + " FROM notebooks WHERE id = ? AND user_id = ?"

	entry, err := scanEntry(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

// ListByUser returns a page of a user's entries, newest entry date first.
func (r *Repository) ListByUser(userID int64, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := "SELECT " + entryColumns + ` FROM notebooks
		WHERE user_id = ? ORDER BY entry_date DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Update replaces a user's entry. Returns false when the entry does not
// exist.
func (r *Repository) Update(e *Entry) (bool, error) {
	tagsJSON, symbolsJSON, err := encodeLists(e)
	if err != nil {
		return false, err
	}

	result, err := r.db.Exec(`UPDATE notebooks
		SET title = ?, content = ?, entry_date = ?, tags = ?, asset_symbols = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		e.Title, e.Content, e.EntryDate.Unix(), tagsJSON, symbolsJSON,
		time.Now().Unix(), e.ID, e.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to update entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a user's entry. Returns false when nothing was deleted.
func (r *Repository) Delete(userID, id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM notebooks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}
