// Package news stores financial news articles and tags them with a simple
// keyword-based sentiment.
package news

import "time"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Article is one stored news item. AssetID is nil for market-wide news.
type Article struct {
	ID             int64     `json:"id"`
	AssetID        *int64    `json:"asset_id,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Source         string    `json:"source,omitempty"`
	SourceURL      string    `json:"source_url,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	Sentiment      string    `json:"sentiment,omitempty"`
	RelevanceScore float64   `json:"relevance_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
