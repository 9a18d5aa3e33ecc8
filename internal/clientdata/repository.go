// Package clientdata provides persistent caching for external API client
// responses. Payloads are stored as msgpack blobs with a fetch timestamp and
// TTL so clients can prefer fresh data but fall back to stale data when a
// provider is down.
package clientdata

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Repository provides cache operations over the client_cache table.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new client data repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Store saves data for (provider, key) with the given TTL, replacing any
// previous entry.
func (r *Repository) Store(provider, key string, data interface{}, ttl time.Duration) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO client_cache (provider, cache_key, payload, fetched_at, ttl_secs) VALUES (?, ?, ?, ?, ?)",
		provider, key, payload, time.Now().Unix(), int64(ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to store %s/%s: %w", provider, key, err)
	}
	return nil
}

// GetIfFresh decodes the entry into out only if its TTL has not elapsed.
// Returns false when the key is missing or expired. Use Get to retrieve
// stale data as a fallback when a provider call fails.
func (r *Repository) GetIfFresh(provider, key string, out interface{}) (bool, error) {
	return r.get(provider, key, out, true)
}

// Get decodes the entry into out regardless of expiration. Stale data is
// better than no data when the upstream provider is unavailable.
func (r *Repository) Get(provider, key string, out interface{}) (bool, error) {
	return r.get(provider, key, out, false)
}

func (r *Repository) get(provider, key string, out interface{}, freshOnly bool) (bool, error) {
	query := "SELECT payload FROM client_cache WHERE provider = ? AND cache_key = ?"
	args := []interface{}{provider, key}
	if freshOnly {
		query += " AND fetched_at + ttl_secs > ?"
		args = append(args, time.Now().Unix())
	}

	var payload []byte
	err := r.db.QueryRow(query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s/%s: %w", provider, key, err)
	}

	if err := msgpack.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s/%s: %w", provider, key, err)
	}
	return true, nil
}

// Delete removes a specific entry.
func (r *Repository) Delete(provider, key string) error {
	_, err := r.db.Exec("DELETE FROM client_cache WHERE provider = ? AND cache_key = ?", provider, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", provider, key, err)
	}
	return nil
}

// DeleteExpired removes all entries whose TTL has elapsed.
// Returns the number of rows deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM client_cache WHERE fetched_at + ttl_secs < ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
