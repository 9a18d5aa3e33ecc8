// Package macro tracks macroeconomic indicators synced from FRED and serves
// their latest readings and history.
package macro

import "time"

// Metric is one observation of a macroeconomic indicator.
type Metric struct {
	ID         int64     `json:"id"`
	MetricCode string    `json:"metric_code"`
	MetricName string    `json:"metric_name"`
	Country    string    `json:"country"`
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	Frequency  string    `json:"frequency,omitempty"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SeriesDef describes one indicator to sync from a provider series.
type SeriesDef struct {
	Code      string
	Name      string
	Country   string
	SeriesID  string
	Unit      string
	Frequency string
}

// USSeries are the indicators synced out of the box.
var USSeries = []SeriesDef{
	{Code: "GDP", Name: "Gross Domestic Product", Country: "US", SeriesID: "GDP", Unit: "billions USD", Frequency: "quarterly"},
	{Code: "CPI", Name: "Consumer Price Index", Country: "US", SeriesID: "CPIAUCSL", Unit: "index", Frequency: "monthly"},
	{Code: "UNEMPLOYMENT", Name: "Unemployment Rate", Country: "US", SeriesID: "UNRATE", Unit: "percent", Frequency: "monthly"},
	{Code: "FED_FUNDS", Name: "Federal Funds Rate", Country: "US", SeriesID: "FEDFUNDS", Unit: "percent", Frequency: "monthly"},
	{Code: "TREASURY_10Y", Name: "10-Year Treasury Yield", Country: "US", SeriesID: "DGS10", Unit: "percent", Frequency: "daily"},
}
