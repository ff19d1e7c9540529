package catalog

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"

	"FinSight/internal/domain/models"
	drepo "FinSight/internal/domain/repository"
	icache "FinSight/internal/service/cache"
	xlogger "FinSight/pkg/logger"
)

const (
	symbolDistanceMax = 2
	nameDistanceMax   = 3
)

type loaded struct {
	list     []models.Instrument
	bySymbol map[string]models.Instrument
	at       time.Time
}

// Catalog keeps the known symbol universe per asset class. Listings are
// fetched whole from the upstream bulk endpoints and reused through the
// shared data cache for the catalog freshness window. A failed load degrades
// to "unknown" (Loaded reports false) instead of blocking the pipeline.
type Catalog struct {
	market drepo.MarketData
	cache  *icache.Store
	window time.Duration
	logger *xlogger.Logger

	mu     sync.Mutex
	parsed map[models.AssetClass]*loaded
}

// New creates a catalog backed by the upstream listing endpoints.
func New(market drepo.MarketData, cache *icache.Store, window time.Duration, logger *xlogger.Logger) *Catalog {
	return &Catalog{
		market: market,
		cache:  cache,
		window: window,
		logger: logger,
		parsed: make(map[models.AssetClass]*loaded),
	}
}

func listingKey(class models.AssetClass) string {
	return "LISTING:" + strings.ToUpper(string(class))
}

// load returns the instrument set for class, fetching when the cache entry
// has expired. Returns nil when the listing is unavailable.
func (c *Catalog) load(ctx context.Context, class models.AssetClass) *loaded {
	c.mu.Lock()
	if l, ok := c.parsed[class]; ok && time.Since(l.at) < c.window {
		c.mu.Unlock()
		return l
	}
	c.mu.Unlock()

	var list []models.Instrument
	if raw, ok := c.cache.Get(ctx, listingKey(class), c.window); ok {
		if err := json.Unmarshal(raw, &list); err != nil {
			list = nil
		}
	}

	if list == nil {
		fetched, err := c.market.Listing(ctx, class)
		if err != nil {
			c.logger.Warn("catalog load failed",
				xlogger.String("class", string(class)),
				xlogger.Error(err),
			)
			// Keep serving the previous listing if we ever had one.
			c.mu.Lock()
			l := c.parsed[class]
			c.mu.Unlock()
			return l
		}
		list = fetched
		if raw, err := json.Marshal(list); err == nil {
			c.cache.Set(ctx, listingKey(class), raw)
		}
	}

	l := &loaded{
		list:     list,
		bySymbol: make(map[string]models.Instrument, len(list)),
		at:       time.Now(),
	}
	for _, ins := range list {
		l.bySymbol[ins.Symbol] = ins
	}

	c.mu.Lock()
	c.parsed[class] = l
	c.mu.Unlock()
	return l
}

// Loaded reports whether the listing for class is currently available.
func (c *Catalog) Loaded(ctx context.Context, class models.AssetClass) bool {
	return c.load(ctx, class) != nil
}

// Symbols returns the full instrument list for class (nil when unavailable).
func (c *Catalog) Symbols(ctx context.Context, class models.AssetClass) []models.Instrument {
	l := c.load(ctx, class)
	if l == nil {
		return nil
	}
	return l.list
}

// Lookup returns the catalog instrument for a canonical symbol.
func (c *Catalog) Lookup(ctx context.Context, class models.AssetClass, symbol string) (models.Instrument, bool) {
	l := c.load(ctx, class)
	if l == nil {
		return models.Instrument{}, false
	}
	ins, ok := l.bySymbol[models.CanonicalSymbol(symbol)]
	return ins, ok
}

// Validate is an exact membership test against the loaded set.
func (c *Catalog) Validate(ctx context.Context, class models.AssetClass, symbol string) bool {
	_, ok := c.Lookup(ctx, class, symbol)
	return ok
}

// Nearest returns the catalog symbol with the smallest edit distance to the
// canonical form of symbol, provided the distance is at most max.
func (c *Catalog) Nearest(ctx context.Context, class models.AssetClass, symbol string, max int) (models.Instrument, bool) {
	l := c.load(ctx, class)
	if l == nil {
		return models.Instrument{}, false
	}
	target := models.CanonicalSymbol(symbol)
	best := models.Instrument{}
	bestDist := max + 1
	for _, ins := range l.list {
		d := levenshtein.ComputeDistance(target, ins.Symbol)
		if d < bestDist {
			bestDist = d
			best = ins
		}
	}
	return best, bestDist <= max
}

// NearestByName matches against display names, tolerating a wider distance.
func (c *Catalog) NearestByName(ctx context.Context, class models.AssetClass, name string) (models.Instrument, bool) {
	l := c.load(ctx, class)
	if l == nil {
		return models.Instrument{}, false
	}
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return models.Instrument{}, false
	}
	best := models.Instrument{}
	bestDist := nameDistanceMax + 1
	for _, ins := range l.list {
		dn := strings.ToLower(ins.DisplayName)
		if dn == "" {
			continue
		}
		if strings.Contains(dn, target) {
			return ins, true
		}
		d := levenshtein.ComputeDistance(target, dn)
		if d < bestDist {
			bestDist = d
			best = ins
		}
	}
	return best, bestDist <= nameDistanceMax
}

type scored struct {
	ins   models.Instrument
	score int
}

// Suggest ranks candidates for a partial input: substring containment in
// symbol or name first, then edit-distance closeness below the threshold.
func (c *Catalog) Suggest(ctx context.Context, class models.AssetClass, partial string, limit int) []models.Instrument {
	l := c.load(ctx, class)
	if l == nil {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}
	q := strings.ToLower(strings.TrimSpace(partial))
	if q == "" {
		return nil
	}
	qUpper := models.CanonicalSymbol(partial)

	var candidates []scored
	for _, ins := range l.list {
		switch {
		case strings.Contains(strings.ToLower(ins.Symbol), q),
			strings.Contains(strings.ToLower(ins.DisplayName), q):
			candidates = append(candidates, scored{ins: ins, score: 0})
		default:
			if d := levenshtein.ComputeDistance(qUpper, ins.Symbol); d <= symbolDistanceMax {
				candidates = append(candidates, scored{ins: ins, score: d})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		return candidates[i].ins.Symbol < candidates[j].ins.Symbol
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]models.Instrument, len(candidates))
	for i, s := range candidates {
		out[i] = s.ins
	}
	return out
}
