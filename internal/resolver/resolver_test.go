package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinSight/internal/catalog"
	"FinSight/internal/domain/models"
	icache "FinSight/internal/service/cache"
	xlogger "FinSight/pkg/logger"
)

type fakeMarket struct {
	listings map[models.AssetClass][]models.Instrument
	fail     bool
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
	if f.fail {
		return nil, errors.New("listing unavailable")
	}
	return f.listings[class], nil
}

func universe() map[models.AssetClass][]models.Instrument {
	return map[models.AssetClass][]models.Instrument{
		models.AssetClassStock: {
			{Symbol: "AAPL", DisplayName: "Apple Inc", Class: models.AssetClassStock},
			{Symbol: "TSLA", DisplayName: "Tesla Inc", Class: models.AssetClassStock},
			{Symbol: "MSFT", DisplayName: "Microsoft", Class: models.AssetClassStock},
			{Symbol: "NVDA", DisplayName: "NVIDIA", Class: models.AssetClassStock},
		},
		models.AssetClassForex: {
			{Symbol: "EUR/USD", DisplayName: "Euro / US Dollar", Class: models.AssetClassForex},
			{Symbol: "GBP/USD", DisplayName: "British Pound / US Dollar", Class: models.AssetClassForex},
			{Symbol: "USD/JPY", DisplayName: "US Dollar / Japanese Yen", Class: models.AssetClassForex},
		},
		models.AssetClassCrypto: {
			{Symbol: "BTC/USD", DisplayName: "Bitcoin US Dollar", Class: models.AssetClassCrypto},
			{Symbol: "ETH/USD", DisplayName: "Ethereum US Dollar", Class: models.AssetClassCrypto},
		},
	}
}

func newTestResolver(t *testing.T, m *fakeMarket) *Resolver {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cat := catalog.New(m, icache.NewStore(), 24*time.Hour, l)
	return New(cat, "")
}

func TestResolveBareCryptoTokenGetsUSDQuote(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, strategy := r.Resolve(context.Background(), "What's BTC worth?", History{}, models.AssetClassCrypto)
	if ins == nil || ins.Symbol != "BTC/USD" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyPattern {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveTickerTypoCorrected(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, strategy := r.Resolve(context.Background(), "APPL price", History{}, models.AssetClassStock)
	if ins == nil || ins.Symbol != "AAPL" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyPattern {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveAlias(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, strategy := r.Resolve(context.Background(), "how is cable doing", History{}, models.AssetClassForex)
	if ins == nil || ins.Symbol != "GBP/USD" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyAlias {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveLongestAliasWins(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, _ := r.Resolve(context.Background(), "euro dollar outlook", History{}, models.AssetClassForex)
	if ins == nil || ins.Symbol != "EUR/USD" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
}

func TestResolveTwoCurrencyTokens(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, strategy := r.Resolve(context.Background(), "convert jpy and usd", History{}, models.AssetClassForex)
	if ins == nil || ins.Symbol != "USD/JPY" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyCurrency {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveDescriptiveName(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, strategy := r.Resolve(context.Background(), "microsfot stock", History{}, models.AssetClassStock)
	if ins == nil || ins.Symbol != "MSFT" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyName {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveHistoryFallback(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	hist := History{Messages: []string{"TSLA price please"}}
	ins, strategy := r.Resolve(context.Background(), "what about its RSI", hist, models.AssetClassStock)
	if ins == nil || ins.Symbol != "TSLA" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyHistory {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveHistoryNewestFirst(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	hist := History{Messages: []string{"NVDA earnings", "TSLA price"}}
	ins, _ := r.Resolve(context.Background(), "and the chart?", hist, models.AssetClassStock)
	if ins == nil || ins.Symbol != "NVDA" {
		t.Fatalf("expected newest-first walk, got %+v", ins)
	}
}

func TestResolveLastInstrumentFallback(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	last := &models.Instrument{Symbol: "ETH/USD", Class: models.AssetClassCrypto}
	ins, strategy := r.Resolve(context.Background(), "any news?", History{Last: last}, models.AssetClassCrypto)
	if ins == nil || ins.Symbol != "ETH/USD" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyHistory {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolvePatternBeatsAlias(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	// "cable" aliases to GBP/USD but the explicit pair must win.
	ins, strategy := r.Resolve(context.Background(), "cable vs EUR/USD", History{}, models.AssetClassForex)
	if ins == nil || ins.Symbol != "EUR/USD" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyPattern {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveIndicatorNameNotATicker(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, _ := r.Resolve(context.Background(), "show me RSI", History{}, models.AssetClassStock)
	if ins != nil {
		t.Fatalf("expected no instrument for bare indicator text, got %+v", ins)
	}
}

func TestResolveNothing(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{listings: universe()})

	ins, strategy := r.Resolve(context.Background(), "tell me a joke", History{}, models.AssetClassStock)
	if ins != nil || strategy != "" {
		t.Fatalf("expected nil resolution, got %+v %q", ins, strategy)
	}
}

func TestResolveDegradedCatalogAcceptsPattern(t *testing.T) {
	r := newTestResolver(t, &fakeMarket{fail: true})

	ins, strategy := r.Resolve(context.Background(), "TSLA price", History{}, models.AssetClassStock)
	if ins == nil || ins.Symbol != "TSLA" {
		t.Fatalf("expected degraded accept, got %+v", ins)
	}
	if strategy != StrategyPattern {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}

func TestResolveDefaultSymbol(t *testing.T) {
	m := &fakeMarket{listings: universe()}
	l, _ := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	cat := catalog.New(m, icache.NewStore(), 24*time.Hour, l)
	r := New(cat, "BTC/USD")

	ins, strategy := r.Resolve(context.Background(), "hello", History{}, models.AssetClassCrypto)
	if ins == nil || ins.Symbol != "BTC/USD" {
		t.Fatalf("unexpected instrument %+v", ins)
	}
	if strategy != StrategyDefault {
		t.Fatalf("unexpected strategy %q", strategy)
	}
}
