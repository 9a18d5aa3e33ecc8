package summary

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles daily summary database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new summary repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "summary").Logger(),
	}
}

// Save upserts a summary for (date, market).
func (r *Repository) Save(s *DailySummary) error {
	s.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT OR REPLACE INTO daily_market_summaries
		(summary_date, market, title, summary, ai_analysis, sentiment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		dateOnly(s.SummaryDate).Unix(), s.Market, nullableString(s.Title), s.Summary,
		nullableString(s.AIAnalysis), nullableString(s.Sentiment), s.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	s.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get summary id: %w", err)
	}
	return nil
}

const summaryColumns = `id, summary_date, market, title, summary, ai_analysis, sentiment, created_at`

func scanSummary(row interface{ Scan(...interface{}) error }) (*DailySummary, error) {
	var s DailySummary
	var title, aiAnalysis, sentiment sql.NullString
	var summaryDate, createdAt int64

	err := row.Scan(&s.ID, &summaryDate, &s.Market, &title, &s.Summary,
		&aiAnalysis, &sentiment, &createdAt)
	if err != nil {
		return nil, err
	}

	s.SummaryDate = time.Unix(summaryDate, 0).UTC()
	s.Title = title.String
	s.AIAnalysis = aiAnalysis.String
	s.Sentiment = sentiment.String
	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &s, nil
}

// Get returns the summary for a date and market, nil when none exists.
func (r *Repository) Get(date time.Time, market string) (*DailySummary, error) {
	query := "SELECT " + summaryColumns + ` FROM daily_market_summaries
		WHERE summary_date = ? AND market = ?`

	summary, err := scanSummary(r.db.QueryRow(query, dateOnly(date).Unix(), market))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	return summary, nil
}

// Latest returns the most recent summaries for a market, newest first.
func (r *Repository) Latest(market string, limit int) ([]DailySummary, error) {
	if limit <= 0 {
		limit = 7
	}
	query := "SELECT " + summaryColumns + ` FROM daily_market_summaries
		WHERE market = ? ORDER BY summary_date DESC LIMIT ?`

	rows, err := r.db.Query(query, market, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, *summary)
	}
	return summaries, rows.Err()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
