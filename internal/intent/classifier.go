package intent

import (
	"strings"

	"FinSight/internal/domain/models"
)

// Keyword sets are matched by substring against the lower-cased query, so
// "analyz" covers analyze/analysis/analyzing.
var (
	quoteKeywords  = []string{"price", "worth", "value", "cost", "quote", "trading at"}
	seriesKeywords = []string{"trend", "history", "chart", "performance", "over time", "past", "movement"}
	comprehensiveKeywords = []string{
		"analyz", "analys", "report", "research", "invest", "strategy",
		"outlook", "forecast", "should i buy", "should i sell", "overview",
	}
	sentimentKeywords = []string{"sentiment", "social", "buzz", "mood", "bullish", "bearish"}
	generalKeywords   = []string{"market", "explain", "advice", "help", "learn", "what is", "how do"}
)

// supportedIndicators is the bounded set of technical indicators whose name
// appearing literally in the text selects it.
var supportedIndicators = []string{
	"rsi", "ema", "sma", "macd", "bbands", "adx", "atr", "obv", "stoch", "vwap",
}

// comprehensiveBundle is the default indicator set pulled in by analysis-style
// queries per asset class, even when no indicator is named.
var comprehensiveBundle = map[models.AssetClass][]string{
	models.AssetClassStock:  {"rsi", "macd", "ema"},
	models.AssetClassForex:  {"rsi", "macd", "atr"},
	models.AssetClassCrypto: {"rsi", "macd", "obv"},
}

// Classify inspects the query text for keyword signals and returns the data
// categories it needs. Deterministic and side-effect free.
func Classify(text string, class models.AssetClass) models.Intent {
	lower := strings.ToLower(text)

	in := models.Intent{
		NeedsQuote:         containsAny(lower, quoteKeywords),
		NeedsSeries:        containsAny(lower, seriesKeywords),
		NeedsSentiment:     containsAny(lower, sentimentKeywords),
		NeedsComprehensive: containsAny(lower, comprehensiveKeywords),
	}

	for _, ind := range supportedIndicators {
		if containsWord(lower, ind) {
			in.Indicators = append(in.Indicators, ind)
		}
	}

	// Analysis-style queries get the full bundle: completeness over call
	// minimization for this intent.
	if in.NeedsComprehensive {
		in.NeedsQuote = true
		in.NeedsSeries = true
		in.NeedsSentiment = true
		in.Indicators = mergeIndicators(in.Indicators, comprehensiveBundle[class])
	}

	// A query with an instrument but no recognizable signal still deserves a
	// spot quote.
	if !in.NeedsQuote && !in.NeedsSeries && !in.NeedsSentiment &&
		!in.NeedsComprehensive && len(in.Indicators) == 0 {
		in.NeedsQuote = true
	}
	return in
}

// IsGeneralQuery reports whether unresolvable text still expresses a
// market-related intent worth a general answer instead of a clarification.
func IsGeneralQuery(text string) bool {
	return containsAny(strings.ToLower(text), generalKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// containsWord matches ind as a whole token so "ema" does not fire on
// "demand".
func containsWord(lower, ind string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], ind)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(ind)
		beforeOK := start == 0 || !isAlnum(lower[start-1])
		afterOK := end == len(lower) || !isAlnum(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func mergeIndicators(have, bundle []string) []string {
	seen := make(map[string]bool, len(have))
	for _, h := range have {
		seen[h] = true
	}
	out := have
	for _, b := range bundle {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
