package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinSight/internal/domain/models"
	icache "FinSight/internal/service/cache"
	xlogger "FinSight/pkg/logger"
)

type fakeMarket struct {
	listings map[models.AssetClass][]models.Instrument
	fail     bool
	calls    int
}

func (f *fakeMarket) Quote(ctx context.Context, symbol string) (*models.QuoteResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMarket) TimeSeries(ctx context.Context, symbol, interval string, points int) (*models.SeriesResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMarket) Indicator(ctx context.Context, symbol, name, interval string) (*models.IndicatorResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMarket) Listing(ctx context.Context, class models.AssetClass) ([]models.Instrument, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("listing unavailable")
	}
	return f.listings[class], nil
}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func stockUniverse() map[models.AssetClass][]models.Instrument {
	return map[models.AssetClass][]models.Instrument{
		models.AssetClassStock: {
			{Symbol: "AAPL", DisplayName: "Apple Inc", Class: models.AssetClassStock},
			{Symbol: "AMD", DisplayName: "Advanced Micro Devices", Class: models.AssetClassStock},
			{Symbol: "TSLA", DisplayName: "Tesla Inc", Class: models.AssetClassStock},
			{Symbol: "MSFT", DisplayName: "Microsoft", Class: models.AssetClassStock},
		},
	}
}

func newTestCatalog(t *testing.T, m *fakeMarket) *Catalog {
	t.Helper()
	return New(m, icache.NewStore(), 24*time.Hour, testLogger(t))
}

func TestValidateAndLookup(t *testing.T) {
	c := newTestCatalog(t, &fakeMarket{listings: stockUniverse()})
	ctx := context.Background()

	if !c.Validate(ctx, models.AssetClassStock, "aapl") {
		t.Fatalf("expected AAPL valid (case-insensitive)")
	}
	if c.Validate(ctx, models.AssetClassStock, "ZZZZ") {
		t.Fatalf("expected ZZZZ invalid")
	}
	ins, ok := c.Lookup(ctx, models.AssetClassStock, "TSLA")
	if !ok || ins.DisplayName != "Tesla Inc" {
		t.Fatalf("unexpected lookup %+v ok=%v", ins, ok)
	}
}

func TestLoadedDegradesOnFailure(t *testing.T) {
	m := &fakeMarket{fail: true}
	c := newTestCatalog(t, m)
	ctx := context.Background()

	if c.Loaded(ctx, models.AssetClassStock) {
		t.Fatalf("expected degraded catalog")
	}
	if c.Symbols(ctx, models.AssetClassStock) != nil {
		t.Fatalf("expected nil symbols when degraded")
	}
}

func TestFailureKeepsPreviousListing(t *testing.T) {
	m := &fakeMarket{listings: stockUniverse()}
	c := New(m, icache.NewStore(), time.Nanosecond, testLogger(t))
	ctx := context.Background()

	if !c.Loaded(ctx, models.AssetClassStock) {
		t.Fatalf("expected initial load")
	}
	m.fail = true
	time.Sleep(time.Millisecond)
	if !c.Validate(ctx, models.AssetClassStock, "AAPL") {
		t.Fatalf("expected previous listing to keep serving")
	}
}

func TestListingFetchedOncePerWindow(t *testing.T) {
	m := &fakeMarket{listings: stockUniverse()}
	c := newTestCatalog(t, m)
	ctx := context.Background()

	c.Validate(ctx, models.AssetClassStock, "AAPL")
	c.Validate(ctx, models.AssetClassStock, "TSLA")
	c.Suggest(ctx, models.AssetClassStock, "app", 5)
	if m.calls != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", m.calls)
	}
}

func TestNearest(t *testing.T) {
	c := newTestCatalog(t, &fakeMarket{listings: stockUniverse()})
	ctx := context.Background()

	ins, ok := c.Nearest(ctx, models.AssetClassStock, "APPL", 2)
	if !ok || ins.Symbol != "AAPL" {
		t.Fatalf("expected AAPL correction, got %+v ok=%v", ins, ok)
	}
	if _, ok := c.Nearest(ctx, models.AssetClassStock, "QQQQQQ", 2); ok {
		t.Fatalf("expected no match beyond threshold")
	}
}

func TestNearestByName(t *testing.T) {
	c := newTestCatalog(t, &fakeMarket{listings: stockUniverse()})
	ctx := context.Background()

	ins, ok := c.NearestByName(ctx, models.AssetClassStock, "microsfot")
	if !ok || ins.Symbol != "MSFT" {
		t.Fatalf("expected MSFT via fuzzy name, got %+v ok=%v", ins, ok)
	}
	ins, ok = c.NearestByName(ctx, models.AssetClassStock, "apple")
	if !ok || ins.Symbol != "AAPL" {
		t.Fatalf("expected AAPL via substring, got %+v ok=%v", ins, ok)
	}
}

func TestSuggestRanksSubstringFirst(t *testing.T) {
	c := newTestCatalog(t, &fakeMarket{listings: stockUniverse()})
	ctx := context.Background()

	got := c.Suggest(ctx, models.AssetClassStock, "apple", 5)
	if len(got) == 0 || got[0].Symbol != "AAPL" {
		t.Fatalf("expected AAPL first, got %+v", got)
	}
}

func TestSuggestLimit(t *testing.T) {
	c := newTestCatalog(t, &fakeMarket{listings: stockUniverse()})
	ctx := context.Background()

	got := c.Suggest(ctx, models.AssetClassStock, "a", 2)
	if len(got) > 2 {
		t.Fatalf("limit exceeded: %d", len(got))
	}
}

func TestSuggestDegraded(t *testing.T) {
	c := newTestCatalog(t, &fakeMarket{fail: true})
	if got := c.Suggest(context.Background(), models.AssetClassStock, "apple", 5); got != nil {
		t.Fatalf("expected nil suggestions when degraded, got %+v", got)
	}
}
