package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"FinSight/internal/domain/models"
	drepo "FinSight/internal/domain/repository"
	"FinSight/internal/service/ratelimit"
	xhttp "FinSight/pkg/http"
	xlogger "FinSight/pkg/logger"
)

// ErrRateLimited is returned after 429 retries are exhausted.
var ErrRateLimited = errors.New("rate limit exceeded")

// Client implements MarketData against the Twelve Data style REST API: one
// authenticated GET endpoint per category, parameterized by symbol/interval
// via query string and an apikey query parameter. Throttling is signaled with
// HTTP 429.
//
// Retry policy: 429 and network-level failures (connection error, non-JSON
// body) are retried up to maxRetries with a fixed delay; any other non-2xx
// status is treated as permanent and surfaced immediately with the response
// body as context.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	logger  *xlogger.Logger
	metrics drepo.Metrics

	maxRetries    int
	retryDelay    time.Duration
	netRetryDelay time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithRetry overrides retry parameters.
func WithRetry(maxRetries int, retryDelay, netRetryDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = retryDelay
		c.netRetryDelay = netRetryDelay
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(d))
	}
}

// New creates a new upstream market-data client.
func New(apiKey, baseURL string, logger *xlogger.Logger, metrics drepo.Metrics, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		baseURL:       baseURL,
		http:          xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		logger:        logger,
		metrics:       metrics,
		maxRetries:    3,
		retryDelay:    15 * time.Second,
		netRetryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote fetches the spot quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.QuoteResponse, error) {
	raw, err := c.fetch(ctx, "quote", "/quote", map[string]string{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	var q models.QuoteResponse
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("parse quote: %w", err)
	}
	return &q, nil
}

// TimeSeries fetches a historical series for symbol.
func (c *Client) TimeSeries(ctx context.Context, symbol, interval string, points int) (*models.SeriesResponse, error) {
	raw, err := c.fetch(ctx, "series", "/time_series", map[string]string{
		"symbol":     symbol,
		"interval":   string(drepo.NormalizeInterval(interval)),
		"outputsize": strconv.Itoa(points),
	})
	if err != nil {
		return nil, err
	}
	var s models.SeriesResponse
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse time series: %w", err)
	}
	return &s, nil
}

// Indicator fetches one technical indicator series for symbol. The endpoint
// path is the lower-cased indicator name.
func (c *Client) Indicator(ctx context.Context, symbol, name, interval string) (*models.IndicatorResponse, error) {
	raw, err := c.fetch(ctx, "indicator_"+name, "/"+name, map[string]string{
		"symbol":   symbol,
		"interval": string(drepo.NormalizeInterval(interval)),
	})
	if err != nil {
		return nil, err
	}
	var r models.IndicatorResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parse indicator %s: %w", name, err)
	}
	return &r, nil
}

// Listing fetches the whole symbol universe for an asset class.
func (c *Client) Listing(ctx context.Context, class models.AssetClass) ([]models.Instrument, error) {
	path := map[models.AssetClass]string{
		models.AssetClassStock:  "/stocks",
		models.AssetClassForex:  "/forex_pairs",
		models.AssetClassCrypto: "/cryptocurrencies",
	}[class]
	if path == "" {
		return nil, fmt.Errorf("no listing endpoint for class %q", class)
	}

	raw, err := c.fetch(ctx, "listing", path, nil)
	if err != nil {
		return nil, err
	}

	var envelope models.ListingResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	if class == models.AssetClassStock {
		var rows []models.StockListing
		if err := json.Unmarshal(envelope.Data, &rows); err != nil {
			return nil, fmt.Errorf("parse stock listing: %w", err)
		}
		out := make([]models.Instrument, 0, len(rows))
		for _, r := range rows {
			out = append(out, models.Instrument{
				Symbol:      models.CanonicalSymbol(r.Symbol),
				DisplayName: r.Name,
				Class:       class,
				Exchange:    r.Exchange,
			})
		}
		return out, nil
	}

	var rows []models.PairListing
	if err := json.Unmarshal(envelope.Data, &rows); err != nil {
		return nil, fmt.Errorf("parse pair listing: %w", err)
	}
	out := make([]models.Instrument, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Instrument{
			Symbol:        models.CanonicalSymbol(r.Symbol),
			DisplayName:   r.CurrencyBase + " / " + r.CurrencyQuote,
			Class:         class,
			Exchange:      r.Exchange,
			BaseCurrency:  r.CurrencyBase,
			QuoteCurrency: r.CurrencyQuote,
		})
	}
	return out, nil
}

// fetch performs one logical upstream call with retries and budget throttling.
func (c *Client) fetch(ctx context.Context, category, path string, params map[string]string) ([]byte, error) {
	budget := ratelimit.FromContext(ctx)

	query := map[string][]string{"apikey": {c.apiKey}}
	for k, v := range params {
		query[k] = []string{v}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if budget != nil {
			if err := budget.Wait(ctx); err != nil {
				return nil, err
			}
		}

		raw, retryable, err := c.once(ctx, category, path, query)
		if err == nil {
			if budget != nil {
				budget.Record()
			}
			c.metrics.RecordUpstreamCall(category, "ok")
			return raw, nil
		}

		c.metrics.RecordUpstreamCall(category, "error")
		if !retryable {
			return nil, err
		}
		lastErr = err

		c.logger.Warn("upstream retry",
			xlogger.String("category", category),
			xlogger.Int("attempt", attempt),
			xlogger.Error(err),
		)

		if attempt == c.maxRetries {
			break
		}
		delay := c.netRetryDelay
		if errors.Is(err, ErrRateLimited) {
			delay = c.retryDelay
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, fmt.Errorf("upstream %s failed after %d attempts: %w", category, c.maxRetries, lastErr)
}

// once performs a single HTTP attempt. The second return value reports
// whether the failure is transient.
func (c *Client) once(ctx context.Context, category, path string, query map[string][]string) ([]byte, bool, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	})
	if err != nil {
		return nil, true, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w (%s)", ErrRateLimited, category)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// Non-transient upstream error: no retry, body as context.
		return nil, false, fmt.Errorf("upstream status %d: %s", resp.StatusCode, body)
	}

	if !json.Valid(body) {
		return nil, true, fmt.Errorf("fetch failed: invalid JSON body")
	}
	return body, false, nil
}
