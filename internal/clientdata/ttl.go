package clientdata

import "time"

// TTL constants per data type. Added to the fetch time on storage.
const (
	// Price histories and quotes refresh daily; a full trading day of grace
	// keeps repeat analyses from hammering the provider.
	TTLPriceHistory = 24 * time.Hour
	TTLQuote        = 10 * time.Minute

	// Company profiles and index membership rarely change.
	TTLAssetInfo = 7 * 24 * time.Hour

	// Macro series follow release schedules measured in days.
	TTLMacroSeries = 24 * time.Hour

	// Headlines go stale fast.
	TTLNews = time.Hour
)
