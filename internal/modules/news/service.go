package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/modules/assets"
)

// AssetCatalog resolves symbols to assets. Satisfied by the assets service.
type AssetCatalog interface {
	Ensure(ctx context.Context, symbol string) (*assets.Asset, error)
}

// Service manages news ingestion and retrieval.
type Service struct {
	repo    *Repository
	catalog AssetCatalog
	log     zerolog.Logger
}

// NewService creates a new news service.
func NewService(repo *Repository, catalog AssetCatalog, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		log:     log.With().Str("service", "news").Logger(),
	}
}

// Ingest stores an article, tying it to an asset when a symbol is given and
// tagging sentiment when the caller supplied none. Returns false for
// duplicates (same source URL).
func (s *Service) Ingest(ctx context.Context, symbol string, article *Article) (bool, error) {
	if strings.TrimSpace(article.Title) == "" {
		return false, fmt.Errorf("article title is required")
	}
	if article.PublishedAt.IsZero() {
		article.PublishedAt = time.Now().UTC()
	}

	if symbol != "" {
		asset, err := s.catalog.Ensure(ctx, symbol)
		if err != nil {
			return false, err
		}
		article.AssetID = &asset.ID
	}

	if article.Sentiment == "" {
		article.Sentiment = AnalyzeSentiment(article.Title + " " + article.Content)
	}

	inserted, err := s.repo.Save(article)
	if err != nil {
		return false, err
	}
	if !inserted {
		s.log.Debug().Str("url", article.SourceURL).Msg("Duplicate article skipped")
	}
	return inserted, nil
}

// ForAsset returns the newest articles for a symbol.
func (s *Service) ForAsset(ctx context.Context, symbol string, limit int) ([]Article, error) {
	asset, err := s.catalog.Ensure(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForAsset(asset.ID, limit)
}

// Market returns the newest market-wide articles.
func (s *Service) Market(limit int) ([]Article, error) {
	return s.repo.ListMarket(limit)
}

// Headlines returns the titles of the newest articles for a symbol, for use
// as AI analysis context.
func (s *Service) Headlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	articles, err := s.ForAsset(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	headlines := make([]string, 0, len(articles))
	for _, article := range articles {
		headlines = append(headlines, article.Title)
	}
	return headlines, nil
}

// Prune removes articles older than the retention window. Returns the number
// removed.
func (s *Service) Prune(retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	return s.repo.DeleteOlderThan(time.Now().Add(-retention))
}
