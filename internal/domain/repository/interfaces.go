package repository

import (
	"context"

	"FinSight/internal/domain/models"
)

// MarketData fetches typed category data from the upstream market-data API.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*models.QuoteResponse, error)
	TimeSeries(ctx context.Context, symbol, interval string, points int) (*models.SeriesResponse, error)
	Indicator(ctx context.Context, symbol, name, interval string) (*models.IndicatorResponse, error)
	Listing(ctx context.Context, class models.AssetClass) ([]models.Instrument, error)
}

// Advisory covers the internal sentiment and market-intelligence routes.
type Advisory interface {
	Sentiment(ctx context.Context, symbol string) (*models.SentimentResponse, error)
	Intelligence(ctx context.Context, symbol, kind string) (*models.IntelligenceResponse, error)
}

// Catalog validates and suggests instruments per asset class.
type Catalog interface {
	Symbols(ctx context.Context, class models.AssetClass) []models.Instrument
	Validate(ctx context.Context, class models.AssetClass, symbol string) bool
	Suggest(ctx context.Context, class models.AssetClass, partial string, limit int) []models.Instrument
	// Loaded reports whether the listing for class is currently available.
	// When false, validation is skipped rather than failing queries.
	Loaded(ctx context.Context, class models.AssetClass) bool
}

// EventSink records per-turn query events for offline analysis.
type EventSink interface {
	Record(ctx context.Context, ev *models.QueryEvent) error
	Close() error
}

// Metrics abstracts the Prometheus recorder.
type Metrics interface {
	RecordUpstreamCall(category, result string)
	RecordCacheLookup(category, outcome string)
	RecordResolution(strategy string)
	RecordTurn(outcome string, seconds float64)
	RecordPayloadSize(n int)
}
