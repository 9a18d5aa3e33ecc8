// Package notebook is the investment journal: dated entries tagged with
// topics and symbols.
package notebook

import "time"

// Entry is one journal entry.
type Entry struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"-"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	EntryDate    time.Time  `json:"entry_date"`
	Tags         []string   `json:"tags"`
	AssetSymbols []string   `json:"asset_symbols"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
