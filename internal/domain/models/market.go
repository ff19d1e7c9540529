package models

import "encoding/json"

// Typed upstream responses. The upstream API returns numbers as strings; they
// are kept as-is because the payload is passed through to a text consumer, not
// computed on.

// QuoteResponse is the spot quote for a single instrument.
type QuoteResponse struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name,omitempty"`
	Exchange      string `json:"exchange,omitempty"`
	Price         string `json:"close"`
	Change        string `json:"change,omitempty"`
	ChangePercent string `json:"percent_change,omitempty"`
	Volume        string `json:"volume,omitempty"`
}

// SeriesPoint is one bar of a historical series.
type SeriesPoint struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume,omitempty"`
}

// SeriesResponse is a historical time series, newest first.
type SeriesResponse struct {
	Values []SeriesPoint `json:"values"`
}

// IndicatorResponse holds values for one technical indicator. Each value is a
// map because the value columns are named after the indicator (e.g. "rsi",
// "macd"/"macd_signal").
type IndicatorResponse struct {
	Values []map[string]string `json:"values"`
}

// SentimentResponse is the social sentiment summary for an instrument.
type SentimentResponse struct {
	Symbol            string  `json:"symbol"`
	BullishPercentage float64 `json:"bullish_percentage"`
	BearishPercentage float64 `json:"bearish_percentage"`
	TotalPosts        int     `json:"total_posts"`
	OverallSentiment  string  `json:"overall_sentiment"`
	Confidence        float64 `json:"confidence"`
}

// IntelligenceResponse is the market intelligence service's answer. Exactly
// one of the content fields is normally set.
type IntelligenceResponse struct {
	SynthesizedAnalysis string          `json:"synthesizedAnalysis,omitempty"`
	Analysis            string          `json:"analysis,omitempty"`
	Alerts              json.RawMessage `json:"alerts,omitempty"`
	Error               string          `json:"error,omitempty"`
}

// Text returns whichever analysis field is populated.
func (r *IntelligenceResponse) Text() string {
	if r.SynthesizedAnalysis != "" {
		return r.SynthesizedAnalysis
	}
	return r.Analysis
}

// stockListing mirrors the upstream bulk stock listing rows.
type StockListing struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// PairListing mirrors the upstream forex/crypto pair listing rows.
type PairListing struct {
	Symbol        string `json:"symbol"`
	CurrencyBase  string `json:"currency_base"`
	CurrencyQuote string `json:"currency_quote"`
	Exchange      string `json:"exchange,omitempty"`
}

// ListingResponse wraps the upstream bulk listing envelope.
type ListingResponse struct {
	Data json.RawMessage `json:"data"`
}
