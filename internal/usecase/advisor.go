package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"FinSight/internal/domain/models"
	drepo "FinSight/internal/domain/repository"
	"FinSight/internal/intent"
	"FinSight/internal/resolver"
	icache "FinSight/internal/service/cache"
	"FinSight/internal/service/ratelimit"
	"FinSight/internal/session"
	xlogger "FinSight/pkg/logger"
	"FinSight/pkg/util"
)

const suggestLimit = 5

// Limits bundles the per-turn budgets and freshness windows the pipeline
// applies.
type Limits struct {
	ByteBudget           int
	SeriesPoints         int
	IntelCharBudget      int
	ComprehensiveTimeout time.Duration
	BudgetThreshold      int
	ThrottleDelay        time.Duration

	QuoteWindow        time.Duration
	SeriesWindow       time.Duration
	IndicatorWindow    time.Duration
	SentimentWindow    time.Duration
	IntelligenceWindow time.Duration
}

// Advisor is the per-turn aggregation pipeline: classify and resolve the
// query, fetch the requested categories cache-first and concurrently, then
// compact the merged result to a bounded payload. A turn that cannot resolve
// an instrument produces a clarification and performs zero upstream calls.
type Advisor struct {
	resolver *resolver.Resolver
	catalog  drepo.Catalog
	market   drepo.MarketData
	advisory drepo.Advisory
	cache    *icache.Store
	sessions *session.Store
	sink     drepo.EventSink
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	limits   Limits
}

// NewAdvisor wires the aggregation pipeline.
func NewAdvisor(
	res *resolver.Resolver,
	cat drepo.Catalog,
	market drepo.MarketData,
	advisory drepo.Advisory,
	cache *icache.Store,
	sessions *session.Store,
	sink drepo.EventSink,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	limits Limits,
) *Advisor {
	return &Advisor{
		resolver: res,
		catalog:  cat,
		market:   market,
		advisory: advisory,
		cache:    cache,
		sessions: sessions,
		sink:     sink,
		metrics:  metrics,
		logger:   logger,
		limits:   limits,
	}
}

type categoryResult struct {
	category models.Category
	raw      json.RawMessage
	cached   bool
	err      error
}

// Process runs one conversation turn.
func (a *Advisor) Process(ctx context.Context, sessionID, text string, class models.AssetClass) (*models.TurnResult, error) {
	start := time.Now()

	conv := a.sessions.Snapshot(sessionID)
	in := intent.Classify(text, class)
	ins, strategy := a.resolver.Resolve(ctx, text, resolver.History{
		Messages: conv.Messages,
		Last:     conv.Last,
	}, class)

	if ins == nil {
		a.sessions.RecordTurn(sessionID, text, nil)
		result := &models.TurnResult{Clarification: a.clarify(ctx, text, class)}
		a.finishTurn(ctx, sessionID, class, nil, strategy, nil, 0, 0, "clarification", start)
		return result, nil
	}

	// Defensive revalidation: fuzzy strategies can return a near-match that is
	// not actually listed. Skipped while the catalog is degraded.
	if a.catalog.Loaded(ctx, class) && !a.catalog.Validate(ctx, class, ins.Symbol) {
		a.sessions.RecordTurn(sessionID, text, nil)
		result := &models.TurnResult{Clarification: a.suggestClarification(ctx, ins.Symbol, class)}
		a.finishTurn(ctx, sessionID, class, ins, strategy, nil, 0, 0, "clarification", start)
		return result, nil
	}

	a.metrics.RecordResolution(strategy)
	a.sessions.RecordTurn(sessionID, text, ins)

	budget := ratelimit.NewBudget(a.limits.BudgetThreshold, a.limits.ThrottleDelay)
	ctx = ratelimit.NewContext(ctx, budget)

	if in.NeedsComprehensive && a.limits.ComprehensiveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.limits.ComprehensiveTimeout)
		defer cancel()
	}

	cats := in.Categories()
	results := a.fetchAll(ctx, ins, cats)

	doc := make(map[string]interface{}, len(results)+1)
	doc["symbol"] = ins.Symbol
	cacheHits := 0
	for _, r := range results {
		if r.err != nil {
			// Per-category soft failure: partial results beat none.
			a.logger.Warn("category fetch failed",
				xlogger.String("category", string(r.category)),
				xlogger.String("symbol", ins.Symbol),
				xlogger.Error(r.err),
			)
			doc[string(r.category)] = map[string]string{"error": r.err.Error()}
			continue
		}
		if r.cached {
			cacheHits++
		}
		doc[string(r.category)] = compactCategory(r.category, r.raw, a.limits)
	}

	serialized, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	truncated := len(serialized) > a.limits.ByteBudget
	content := util.TruncateWithMarker(string(serialized), a.limits.ByteBudget, truncationMarker)

	a.metrics.RecordPayloadSize(len(content))
	a.finishTurn(ctx, sessionID, class, ins, strategy, cats, cacheHits, budget.Calls(), "payload", start)

	return &models.TurnResult{Payload: &models.BoundedPayload{
		Symbol:    ins.Symbol,
		Content:   content,
		Truncated: truncated,
	}}, nil
}

// Suggest exposes catalog suggestions for the HTTP layer.
func (a *Advisor) Suggest(ctx context.Context, class models.AssetClass, partial string, limit int) []models.Instrument {
	if limit <= 0 {
		limit = suggestLimit
	}
	return a.catalog.Suggest(ctx, class, partial, limit)
}

// Symbols exposes the loaded listing for the HTTP layer.
func (a *Advisor) Symbols(ctx context.Context, class models.AssetClass) []models.Instrument {
	return a.catalog.Symbols(ctx, class)
}

// Quote exposes a single cache-first quote fetch (used by the stream handler).
func (a *Advisor) Quote(ctx context.Context, ins *models.Instrument) (*models.QuoteResponse, error) {
	raw, _, err := a.fetchCategory(ctx, models.CategoryQuote, ins)
	if err != nil {
		return nil, err
	}
	var q models.QuoteResponse
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// fetchAll runs the category fetches concurrently and collects every result.
func (a *Advisor) fetchAll(ctx context.Context, ins *models.Instrument, cats []models.Category) []categoryResult {
	results := make(chan categoryResult, len(cats))
	var wg sync.WaitGroup
	for _, cat := range cats {
		wg.Add(1)
		go func(cat models.Category) {
			defer wg.Done()
			raw, cached, err := a.fetchCategory(ctx, cat, ins)
			results <- categoryResult{category: cat, raw: raw, cached: cached, err: err}
		}(cat)
	}
	wg.Wait()
	close(results)

	out := make([]categoryResult, 0, len(cats))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// fetchCategory checks the cache first, then calls upstream and populates the
// cache on success.
func (a *Advisor) fetchCategory(ctx context.Context, cat models.Category, ins *models.Instrument) (json.RawMessage, bool, error) {
	key := cacheKey(cat, ins.Symbol)
	if raw, ok := a.cache.Get(ctx, key, a.windowFor(cat)); ok {
		a.metrics.RecordCacheLookup(string(cat), "hit")
		return raw, true, nil
	}
	a.metrics.RecordCacheLookup(string(cat), "miss")

	var (
		payload interface{}
		err     error
	)
	switch {
	case cat == models.CategoryQuote:
		payload, err = a.market.Quote(ctx, ins.Symbol)
	case cat == models.CategorySeries:
		payload, err = a.market.TimeSeries(ctx, ins.Symbol, "", a.limits.SeriesPoints)
	case cat == models.CategorySentiment:
		payload, err = a.advisory.Sentiment(ctx, ins.Symbol)
	case cat == models.CategoryIntelligence:
		payload, err = a.advisory.Intelligence(ctx, ins.Symbol, "comprehensive")
	case strings.HasPrefix(string(cat), "indicator_"):
		name := strings.TrimPrefix(string(cat), "indicator_")
		payload, err = a.market.Indicator(ctx, ins.Symbol, name, "")
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, false, err
	}
	a.cache.Set(ctx, key, raw)
	return raw, false, nil
}

func (a *Advisor) windowFor(cat models.Category) time.Duration {
	switch {
	case cat == models.CategoryQuote:
		return a.limits.QuoteWindow
	case cat == models.CategorySeries:
		return a.limits.SeriesWindow
	case cat == models.CategorySentiment:
		return a.limits.SentimentWindow
	case cat == models.CategoryIntelligence:
		return a.limits.IntelligenceWindow
	default:
		return a.limits.IndicatorWindow
	}
}

func cacheKey(cat models.Category, symbol string) string {
	return strings.ToUpper(string(cat)) + ":" + symbol
}

// clarify decides between a general-help answer and a "did you mean" list.
func (a *Advisor) clarify(ctx context.Context, text string, class models.AssetClass) *models.Clarification {
	if intent.IsGeneralQuery(text) {
		return &models.Clarification{
			Kind: models.ClarificationGeneral,
			Message: "I can look up quotes, price history, technical indicators and " +
				"sentiment for stocks, forex pairs and crypto pairs. " +
				"Try naming an instrument, e.g. \"AAPL price\" or \"EUR/USD trend\".",
		}
	}
	return a.suggestClarification(ctx, text, class)
}

func (a *Advisor) suggestClarification(ctx context.Context, query string, class models.AssetClass) *models.Clarification {
	suggestions := a.catalog.Suggest(ctx, class, strings.TrimSpace(query), suggestLimit)
	msg := "I couldn't match that to a known symbol."
	if len(suggestions) > 0 {
		msg = "I couldn't match that to a known symbol. Did you mean one of these?"
	}
	return &models.Clarification{
		Kind:        models.ClarificationSuggestions,
		Message:     msg,
		Suggestions: suggestions,
	}
}

func (a *Advisor) finishTurn(
	ctx context.Context,
	sessionID string,
	class models.AssetClass,
	ins *models.Instrument,
	strategy string,
	cats []models.Category,
	cacheHits, upstreamCalls int,
	outcome string,
	start time.Time,
) {
	elapsed := time.Since(start)
	a.metrics.RecordTurn(outcome, elapsed.Seconds())

	ev := &models.QueryEvent{
		SessionID:     sessionID,
		AssetClass:    string(class),
		Strategy:      strategy,
		CacheHits:     cacheHits,
		UpstreamCalls: upstreamCalls,
		Outcome:       outcome,
		DurationMs:    elapsed.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if ins != nil {
		ev.Symbol = ins.Symbol
	}
	for _, c := range cats {
		ev.Categories = append(ev.Categories, string(c))
	}

	// The comprehensive timeout may already have expired; the audit record
	// still has to land.
	if err := a.sink.Record(context.WithoutCancel(ctx), ev); err != nil {
		a.logger.Warn("query event sink failed", xlogger.Error(err))
	}
}
