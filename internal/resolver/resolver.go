package resolver

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"FinSight/internal/catalog"
	"FinSight/internal/domain/models"
)

// Strategy names, in precedence order. Earlier strategies always win over
// later ones even when a later one would score a closer match: ordering
// encodes intent confidence, not just similarity.
const (
	StrategyPattern  = "pattern"
	StrategyAlias    = "alias"
	StrategyCurrency = "currency_pair"
	StrategyName     = "name"
	StrategyHistory  = "history"
	StrategyDefault  = "default"
)

var (
	pairPattern   = regexp.MustCompile(`\b([A-Z]{2,5})/([A-Z]{2,5})\b`)
	tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
)

// History is the read-only view of prior turns the resolver may fall back to.
type History struct {
	// Messages holds prior user messages, newest first.
	Messages []string
	// Last is the most recently resolved instrument of the session, if any.
	Last *models.Instrument
}

// Resolver turns free-text input into a canonical instrument.
type Resolver struct {
	catalog       *catalog.Catalog
	defaultSymbol string
}

// New creates a resolver. defaultSymbol, when non-empty, is used as a final
// fallback for very short vague inputs (product policy choice).
func New(cat *catalog.Catalog, defaultSymbol string) *Resolver {
	return &Resolver{catalog: cat, defaultSymbol: defaultSymbol}
}

// Resolve runs the strategy chain and returns the instrument plus the name of
// the strategy that produced it. Returns nil when every strategy fails.
func (r *Resolver) Resolve(ctx context.Context, text string, hist History, class models.AssetClass) (*models.Instrument, string) {
	if ins := r.byPattern(ctx, text, class); ins != nil {
		return ins, StrategyPattern
	}
	if ins := r.byAlias(ctx, text, class); ins != nil {
		return ins, StrategyAlias
	}
	if class == models.AssetClassForex {
		if ins := r.byCurrencyTokens(ctx, text); ins != nil {
			return ins, StrategyCurrency
		}
	}
	if ins := r.byDescriptiveName(ctx, text, class); ins != nil {
		return ins, StrategyName
	}
	if ins := r.byHistory(ctx, hist, class); ins != nil {
		return ins, StrategyHistory
	}
	if r.defaultSymbol != "" && len(strings.Fields(text)) <= 3 {
		if ins := r.accept(ctx, class, r.defaultSymbol); ins != nil {
			return ins, StrategyDefault
		}
	}
	return nil, ""
}

// accept returns the catalog instrument for symbol, or a bare instrument when
// the catalog is unavailable (degraded accept-all mode).
func (r *Resolver) accept(ctx context.Context, class models.AssetClass, symbol string) *models.Instrument {
	symbol = models.CanonicalSymbol(symbol)
	if ins, ok := r.catalog.Lookup(ctx, class, symbol); ok {
		return &ins
	}
	if !r.catalog.Loaded(ctx, class) {
		return &models.Instrument{Symbol: symbol, Class: class}
	}
	return nil
}

// byPattern matches the asset class's native symbol format: XXX/YYY pairs for
// forex and crypto, a bare 1-5 letter uppercase token for stocks. A matched
// symbol missing from the catalog is corrected by edit distance within a
// tight threshold.
func (r *Resolver) byPattern(ctx context.Context, text string, class models.AssetClass) *models.Instrument {
	if class == models.AssetClassForex || class == models.AssetClassCrypto {
		upper := strings.ToUpper(text)
		if m := pairPattern.FindString(upper); m != "" {
			if ins := r.accept(ctx, class, m); ins != nil {
				return ins
			}
			if near, ok := r.catalog.Nearest(ctx, class, m, 2); ok {
				return &near
			}
			return nil
		}
		// A bare uppercase token quoted against USD ("BTC" -> "BTC/USD").
		for _, tok := range uppercaseTokens(text) {
			if currencyCodes[tok] {
				continue
			}
			if ins, ok := r.catalog.Lookup(ctx, class, tok+"/USD"); ok {
				return &ins
			}
		}
		return nil
	}

	// Stocks: only tokens the user wrote in uppercase count as ticker intent.
	for _, tok := range uppercaseTokens(text) {
		if ins := r.acceptTicker(ctx, class, tok); ins != nil {
			return ins
		}
	}
	return nil
}

func (r *Resolver) acceptTicker(ctx context.Context, class models.AssetClass, tok string) *models.Instrument {
	if ins, ok := r.catalog.Lookup(ctx, class, tok); ok {
		return &ins
	}
	if !r.catalog.Loaded(ctx, class) {
		return &models.Instrument{Symbol: tok, Class: class}
	}
	// Fuzzy-correct near misses ("APPL" -> "AAPL") but only for tokens long
	// enough that a distance-2 correction is meaningful.
	if len(tok) >= 4 {
		if near, ok := r.catalog.Nearest(ctx, class, tok, 2); ok {
			return &near
		}
	}
	return nil
}

// uppercaseTokens returns tokens the user wrote fully uppercase, excluding
// indicator names and similar false positives.
func uppercaseTokens(text string) []string {
	var out []string
	for _, tok := range tickerPattern.FindAllString(text, -1) {
		if tickerStopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// byAlias substring-matches the alias table against the lower-cased input.
func (r *Resolver) byAlias(ctx context.Context, text string, class models.AssetClass) *models.Instrument {
	table := aliases[class]
	if len(table) == 0 {
		return nil
	}
	lower := strings.ToLower(text)

	// Longest alias first so "euro dollar" beats "euro".
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, k := range keys {
		if strings.Contains(lower, k) {
			if ins := r.accept(ctx, class, table[k]); ins != nil {
				return ins
			}
		}
	}
	return nil
}

// byCurrencyTokens scans for exactly two recognized currency codes and tries
// both orderings against the catalog.
func (r *Resolver) byCurrencyTokens(ctx context.Context, text string) *models.Instrument {
	var found []string
	seen := map[string]bool{}
	for _, tok := range tickerPattern.FindAllString(strings.ToUpper(text), -1) {
		if currencyCodes[tok] && !seen[tok] {
			seen[tok] = true
			found = append(found, tok)
		}
	}
	if len(found) != 2 {
		return nil
	}
	if ins, ok := r.catalog.Lookup(ctx, models.AssetClassForex, found[0]+"/"+found[1]); ok {
		return &ins
	}
	if ins, ok := r.catalog.Lookup(ctx, models.AssetClassForex, found[1]+"/"+found[0]); ok {
		return &ins
	}
	return nil
}

// byDescriptiveName strips boilerplate words and edit-distance-matches the
// remainder against catalog display names.
func (r *Resolver) byDescriptiveName(ctx context.Context, text string, class models.AssetClass) *models.Instrument {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?'\"")
		if w == "" || boilerplateWords[w] {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 || len(kept) > 4 {
		return nil
	}
	if ins, ok := r.catalog.NearestByName(ctx, class, strings.Join(kept, " ")); ok {
		return &ins
	}
	return nil
}

// byHistory walks prior messages newest-first applying the pattern and alias
// strategies, then falls back to the session's last resolved instrument.
func (r *Resolver) byHistory(ctx context.Context, hist History, class models.AssetClass) *models.Instrument {
	for _, msg := range hist.Messages {
		if ins := r.byPattern(ctx, msg, class); ins != nil {
			return ins
		}
		if ins := r.byAlias(ctx, msg, class); ins != nil {
			return ins
		}
	}
	if hist.Last != nil && hist.Last.Class == class {
		return hist.Last
	}
	return nil
}
