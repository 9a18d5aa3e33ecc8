package yahoo

import "time"

// Quote is a point-in-time price snapshot for a symbol.
type Quote struct {
	Symbol        string    `json:"symbol" msgpack:"symbol"`
	Price         float64   `json:"price" msgpack:"price"`
	PreviousClose float64   `json:"previous_close" msgpack:"previous_close"`
	Currency      string    `json:"currency" msgpack:"currency"`
	MarketTime    time.Time `json:"market_time" msgpack:"market_time"`
}

// ChangePercent is the percentage move from the previous close.
func (q Quote) ChangePercent() float64 {
	if q.PreviousClose == 0 {
		return 0
	}
	return (q.Price/q.PreviousClose - 1) * 100
}

// AssetInfo is the descriptive profile of a security.
type AssetInfo struct {
	Symbol    string  `json:"symbol" msgpack:"symbol"`
	Name      string  `json:"name" msgpack:"name"`
	Exchange  string  `json:"exchange" msgpack:"exchange"`
	Currency  string  `json:"currency" msgpack:"currency"`
	Sector    string  `json:"sector" msgpack:"sector"`
	Industry  string  `json:"industry" msgpack:"industry"`
	Summary   string  `json:"summary" msgpack:"summary"`
	Website   string  `json:"website" msgpack:"website"`
	MarketCap float64 `json:"market_cap" msgpack:"market_cap"`
}

// chartResponse mirrors the provider's chart API payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// quoteSummaryResponse mirrors the provider's quoteSummary API payload.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector             string `json:"sector"`
				Industry           string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
				Website            string `json:"website"`
			} `json:"assetProfile"`
			Price struct {
				Symbol       string `json:"symbol"`
				LongName     string `json:"longName"`
				ShortName    string `json:"shortName"`
				Currency     string `json:"currency"`
				ExchangeName string `json:"exchangeName"`
				MarketCap    struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}
