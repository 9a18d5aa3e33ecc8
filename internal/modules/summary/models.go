// Package summary generates and stores daily market summaries built from
// index quotes and an AI write-up.
package summary

import "time"

// Sentiment labels for the overall market tone.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// DailySummary is one stored market summary for a date and market.
type DailySummary struct {
	ID          int64     `json:"id"`
	SummaryDate time.Time `json:"summary_date"`
	Market      string    `json:"market"`
	Title       string    `json:"title,omitempty"`
	Summary     string    `json:"summary"`
	AIAnalysis  string    `json:"ai_analysis,omitempty"`
	Sentiment   string    `json:"sentiment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IndexDef names one benchmark index tracked in the daily summary.
type IndexDef struct {
	Symbol string
	Name   string
}

// USIndices are the benchmarks summarized for the US market.
var USIndices = []IndexDef{
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "^DJI", Name: "Dow Jones Industrial Average"},
	{Symbol: "^IXIC", Name: "Nasdaq Composite"},
}
