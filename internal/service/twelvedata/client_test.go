package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"FinSight/internal/domain/models"
	"FinSight/internal/service/ratelimit"
	xlogger "FinSight/pkg/logger"
)

type noopMetrics struct{}

func (noopMetrics) RecordUpstreamCall(category, result string) {}
func (noopMetrics) RecordCacheLookup(category, outcome string) {}
func (noopMetrics) RecordResolution(strategy string)           {}
func (noopMetrics) RecordTurn(outcome string, seconds float64) {}
func (noopMetrics) RecordPayloadSize(n int)                    {}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	return New("test-key", url, testLogger(t), noopMetrics{},
		WithRetry(3, time.Millisecond, time.Millisecond))
}

func TestQuoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("missing apikey")
		}
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("missing symbol")
		}
		w.Write([]byte(`{"symbol":"AAPL","close":"190.1","percent_change":"1.2"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != "190.1" || q.ChangePercent != "1.2" {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestRateLimitedThenSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"symbol":"AAPL","close":"190.1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Quote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("expected recovery after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRateLimitedExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Quote(context.Background(), "AAPL")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected retry bound of 3, got %d", got)
	}
}

func TestPermanentErrorNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`symbol not found`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Quote(context.Background(), "NOPE")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "symbol not found") {
		t.Fatalf("expected body in error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected single attempt, got %d", got)
	}
}

func TestInvalidJSONRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte("<html>gateway</html>"))
			return
		}
		w.Write([]byte(`{"symbol":"AAPL","close":"1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Quote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("expected retry on invalid JSON: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestBudgetRecordsSuccessfulCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"AAPL","close":"1"}`))
	}))
	defer srv.Close()

	budget := ratelimit.NewBudget(10, 0)
	ctx := ratelimit.NewContext(context.Background(), budget)

	c := newTestClient(t, srv.URL)
	if _, err := c.Quote(ctx, "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Quote(ctx, "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if budget.Calls() != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", budget.Calls())
	}
}

func TestListingParsesStocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stocks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"symbol":"aapl","name":"Apple Inc","exchange":"NASDAQ"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Listing(context.Background(), models.AssetClassStock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "AAPL" || got[0].DisplayName != "Apple Inc" {
		t.Fatalf("unexpected listing %+v", got)
	}
}
