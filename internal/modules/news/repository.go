package news

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles news database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new news repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "news").Logger(),
	}
}

// Save inserts an article. Articles with a source URL already stored are
// silently skipped; returns true when the article was inserted.
func (r *Repository) Save(a *Article) (bool, error) {
	a.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT INTO news
		(asset_id, title, content, summary, source, source_url, published_at, sentiment, relevance_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AssetID, a.Title, nullableString(a.Content), nullableString(a.Summary),
		nullableString(a.Source), nullableString(a.SourceURL), a.PublishedAt.Unix(),
		nullableString(a.Sentiment), a.RelevanceScore, a.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return false, nil
		}
		return false, fmt.Errorf("failed to save article: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get article id: %w", err)
	}
	return true, nil
}

const articleColumns = `id, asset_id, title, content, summary, source, source_url,
	published_at, sentiment, relevance_score, created_at`

func scanArticle(row interface{ Scan(...interface{}) error }) (*Article, error) {
	var a Article
	var assetID sql.NullInt64
	var content, summary, source, sourceURL, sentiment sql.NullString
	var relevance sql.NullFloat64
	var publishedAt, createdAt int64

	err := row.Scan(&a.ID, &assetID, &a.Title, &content, &summary, &source,
		&sourceURL, &publishedAt, &sentiment, &relevance, &createdAt)
	if err != nil {
		return nil, err
	}

	if assetID.Valid {
		a.AssetID = &assetID.Int64
	}
	a.Content = content.String
	a.Summary = summary.String
	a.Source = source.String
	a.SourceURL = sourceURL.String
	a.Sentiment = sentiment.String
	a.RelevanceScore = relevance.Float64
	a.PublishedAt = time.Unix(publishedAt, 0).UTC()
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &a, nil
}

// ListForAsset returns the newest articles for an asset.
func (r *Repository) ListForAsset(assetID int64, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 20
	}
	query := "SELECT " + articleColumns + ` FROM news
		WHERE asset_id = ? ORDER BY published_at DESC LIMIT ?`

	return r.queryArticles(query, assetID, limit)
}

// ListMarket returns the newest market-wide articles (those without an
// asset).
func (r *Repository) ListMarket(limit int) ([]Article, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + articleColumns + ` FROM news
		WHERE asset_id IS NULL ORDER BY published_at DESC LIMIT ?`

	return r.queryArticles(query, limit)
}

func (r *Repository) queryArticles(query string, args ...interface{}) ([]Article, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

// DeleteOlderThan removes articles published before the cutoff. Returns the
// number of deleted rows.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM news WHERE published_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old news: %w", err)
	}
	return result.RowsAffected()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
