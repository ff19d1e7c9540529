package advisory

import (
	"context"
	"time"

	"FinSight/internal/domain/models"
)

// Client implements the Advisory repository: the internal sentiment and
// market-intelligence routes. Both are soft dependencies — callers treat any
// error as a missing category, never a turn failure.
type Client struct {
	sentiment *httpServiceBase
	intel     *httpServiceBase
}

// New creates an advisory client. Empty URLs disable the corresponding route.
func New(sentimentURL, intelligenceURL string, timeout time.Duration) *Client {
	return &Client{
		sentiment: newHTTPServiceBase(sentimentURL, timeout),
		intel:     newHTTPServiceBase(intelligenceURL, timeout),
	}
}

// Sentiment fetches the social sentiment summary for symbol.
func (c *Client) Sentiment(ctx context.Context, symbol string) (*models.SentimentResponse, error) {
	var out models.SentimentResponse
	if err := c.sentiment.getJSON(ctx, "/api/sentiment", map[string]string{"symbol": symbol}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Intelligence fetches synthesized analysis or alerts for symbol. kind is
// "comprehensive" or "alerts".
func (c *Client) Intelligence(ctx context.Context, symbol, kind string) (*models.IntelligenceResponse, error) {
	var out models.IntelligenceResponse
	err := c.intel.getJSON(ctx, "/api/market-intelligence", map[string]string{
		"symbol": symbol,
		"type":   kind,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
