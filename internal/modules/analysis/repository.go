// Package analysis orchestrates metric computation for assets: it pulls
// price series, runs the metrics engine, persists the resulting records and
// correlation pairs, and attaches an AI narrative.
package analysis

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/modules/metrics"
)

// Repository persists calculated metrics and asset correlations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new analysis repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "analysis").Logger(),
	}
}

// metricColumn maps record keys onto calculated_metrics columns.
var metricColumn = map[string]string{
	domain.MetricTotalReturn:           "total_return",
	domain.MetricAnnualizedReturn:      "annualized_return",
	domain.MetricVolatility:            "volatility",
	domain.MetricDownsideDeviation:     "downside_deviation",
	domain.MetricMaxDrawdown:           "max_drawdown",
	domain.MetricSharpeRatio:           "sharpe_ratio",
	domain.MetricSortinoRatio:          "sortino_ratio",
	domain.MetricVaR95:                 "var_95",
	domain.MetricCVaR95:                "cvar_95",
	domain.MetricBeta:                  "beta",
	domain.MetricAlpha:                 "alpha",
	domain.MetricInformationRatio:      "information_ratio",
	domain.MetricCorrelationWithMarket: "correlation_market",
}

// column order used by save and load, kept stable for the scan.
var metricKeys = []string{
	domain.MetricTotalReturn,
	domain.MetricAnnualizedReturn,
	domain.MetricVolatility,
	domain.MetricDownsideDeviation,
	domain.MetricMaxDrawdown,
	domain.MetricSharpeRatio,
	domain.MetricSortinoRatio,
	domain.MetricVaR95,
	domain.MetricCVaR95,
	domain.MetricBeta,
	domain.MetricAlpha,
	domain.MetricInformationRatio,
	domain.MetricCorrelationWithMarket,
}

// SaveMetrics upserts a metrics record for (symbol, asOf, periodDays).
// Absent and NaN values persist as NULL.
func (r *Repository) SaveMetrics(symbol string, asOf time.Time, periodDays int, record domain.MetricsRecord) error {
	columns := "asset_symbol, calculation_date, period_days, created_at"
	placeholders := "?, ?, ?, ?"
	args := []interface{}{symbol, dateOnly(asOf).Unix(), periodDays, time.Now().Unix()}

	for _, key := range metricKeys {
		columns += ", " + metricColumn[key]
		placeholders += ", ?"
		if value, ok := record[key]; ok && !math.IsNaN(value) {
			args = append(args, value)
		} else {
			args = append(args, nil)
		}
	}

	query := fmt.Sprintf("INSERT OR REPLACE INTO calculated_metrics (%s) VALUES (%s)", columns, placeholders)
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to save metrics for %s: %w", symbol, err)
	}
	return nil
}

// GetLatestMetrics returns the most recent stored record for (symbol,
// periodDays), nil when none exists.
func (r *Repository) GetLatestMetrics(symbol string, periodDays int) (domain.MetricsRecord, time.Time, error) {
	query := "SELECT calculation_date"
	for _, key := range metricKeys {
		query += ", " + metricColumn[key]
	}
	query += ` FROM calculated_metrics
		WHERE asset_symbol = ? AND period_days = ?
		ORDER BY calculation_date DESC LIMIT 1`

	var calcDate int64
	values := make([]sql.NullFloat64, len(metricKeys))
	scanArgs := make([]interface{}, 0, len(metricKeys)+1)
	scanArgs = append(scanArgs, &calcDate)
	for i := range values {
		scanArgs = append(scanArgs, &values[i])
	}

	err := r.db.QueryRow(query, symbol, periodDays).Scan(scanArgs...)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load metrics for %s: %w", symbol, err)
	}

	record := domain.MetricsRecord{}
	for i, key := range metricKeys {
		if values[i].Valid {
			record[key] = values[i].Float64
		}
	}
	return record, time.Unix(calcDate, 0).UTC(), nil
}

// SaveCorrelations upserts the pairwise entries of a correlation matrix for
// the given date and period. NaN pairs (no overlapping observations) are
// skipped; the diagonal is not stored.
func (r *Repository) SaveCorrelations(asOf time.Time, periodDays int, matrix metrics.CorrelationMatrix) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO asset_correlations
		(asset_symbol_1, asset_symbol_2, calculation_date, period_days, correlation, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	date := dateOnly(asOf).Unix()
	for i, s1 := range matrix.Symbols {
		for j, s2 := range matrix.Symbols {
			if j <= i || math.IsNaN(matrix.Values[i][j]) {
				continue
			}
			if _, err := stmt.Exec(s1, s2, date, periodDays, matrix.Values[i][j], now); err != nil {
				return fmt.Errorf("failed to insert correlation %s/%s: %w", s1, s2, err)
			}
		}
	}

	return tx.Commit()
}

// GetCorrelation returns the most recent stored correlation between two
// symbols for the period, NaN when none exists. Symbol order does not
// matter.
func (r *Repository) GetCorrelation(symbol1, symbol2 string, periodDays int) (float64, error) {
	var correlation float64
	err := r.db.QueryRow(`SELECT correlation FROM asset_correlations
		WHERE ((asset_symbol_1 = ? AND asset_symbol_2 = ?) OR (asset_symbol_1 = ? AND asset_symbol_2 = ?))
		  AND period_days = ?
		ORDER BY calculation_date DESC LIMIT 1`,
		symbol1, symbol2, symbol2, symbol1, periodDays).Scan(&correlation)
	if err == sql.ErrNoRows {
		return math.NaN(), nil
	}
	if err != nil {
		return math.NaN(), fmt.Errorf("failed to load correlation %s/%s: %w", symbol1, symbol2, err)
	}
	return correlation, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
