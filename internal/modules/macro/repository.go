package macro

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles macro metric database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new macro repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "macro").Logger(),
	}
}

// SaveObservations upserts observations for one indicator. Existing rows for
// the same (code, country, date) are replaced so re-syncs are idempotent.
func (r *Repository) SaveObservations(def SeriesDef, observations []Metric) error {
	if len(observations) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO macro_metrics
		(metric_code, metric_name, country, date, value, unit, frequency, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, obs := range observations {
		if _, err := stmt.Exec(def.Code, def.Name, def.Country, obs.Date.Unix(),
			obs.Value, def.Unit, def.Frequency, "FRED", now); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	return tx.Commit()
}

const metricColumns = `id, metric_code, metric_name, country, date, value, unit, frequency, source, created_at`

func scanMetric(row interface{ Scan(...interface{}) error }) (*Metric, error) {
	var m Metric
	var date, createdAt int64
	var unit, frequency, source sql.NullString

	err := row.Scan(&m.ID, &m.MetricCode, &m.MetricName, &m.Country, &date,
		&m.Value, &unit, &frequency, &source, &createdAt)
	if err != nil {
		return nil, err
	}

	m.Date = time.Unix(date, 0).UTC()
	m.Unit = unit.String
	m.Frequency = frequency.String
	m.Source = source.String
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &m, nil
}

// Latest returns the most recent observation of every indicator for a
// country, ordered by code.
func (r *Repository) Latest(country string) ([]Metric, error) {
	query := "SELECT " + metricColumns + ` FROM macro_metrics m
		WHERE country = ? AND date = (
			SELECT MAX(date) FROM macro_metrics
			WHERE metric_code = m.metric_code AND country = m.country
		)
		ORDER BY metric_code`

	rows, err := r.db.Query(query, country)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest macro metrics: %w", err)
	}
	defer rows.Close()

	var metrics []Metric
	for rows.Next() {
		metric, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan macro metric: %w", err)
		}
		metrics = append(metrics, *metric)
	}
	return metrics, rows.Err()
}

// History returns the observations of one indicator from the given date
// onward, ascending by date.
func (r *Repository) History(code, country string, from time.Time) ([]Metric, error) {
	query := "SELECT " + metricColumns + ` FROM macro_metrics
		WHERE metric_code = ? AND country = ? AND date >= ?
		ORDER BY date ASC`

	rows, err := r.db.Query(query, code, country, from.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query macro history: %w", err)
	}
	defer rows.Close()

	var metrics []Metric
	for rows.Next() {
		metric, err := scanMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan macro metric: %w", err)
		}
		metrics = append(metrics, *metric)
	}
	return metrics, rows.Err()
}
