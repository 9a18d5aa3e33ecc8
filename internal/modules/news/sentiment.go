package news

import "strings"

var positiveKeywords = []string{
	"surge", "rally", "gain", "rise", "jump", "soar", "beat", "record high",
	"profit", "growth", "upgrade", "outperform", "breakthrough", "bullish",
}

var negativeKeywords = []string{
	"fall", "drop", "decline", "plunge", "slump", "loss", "miss", "risk",
	"warning", "downgrade", "investigation", "lawsuit", "recall", "bearish",
}

// AnalyzeSentiment classifies text by counting positive and negative keyword
// hits. Ties and keyword-free text are neutral.
func AnalyzeSentiment(text string) string {
	lower := strings.ToLower(text)

	positive := 0
	for _, keyword := range positiveKeywords {
		if strings.Contains(lower, keyword) {
			positive++
		}
	}
	negative := 0
	for _, keyword := range negativeKeywords {
		if strings.Contains(lower, keyword) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
