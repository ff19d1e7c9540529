package usecase

import (
	"encoding/json"
	"strings"

	"FinSight/internal/domain/models"
	"FinSight/pkg/util"
)

const truncationMarker = "...[truncated]"

// compactCategory strips one category's raw upstream payload to its allow-list
// of fields. Malformed or missing fields are omitted, never raised: compaction
// exists to keep the downstream consumer within its size constraints, so shape
// problems degrade to smaller output.
func compactCategory(cat models.Category, raw json.RawMessage, limits Limits) interface{} {
	switch {
	case cat == models.CategoryQuote:
		return compactQuote(raw)
	case cat == models.CategorySeries:
		return compactSeries(raw, limits.SeriesPoints)
	case cat == models.CategorySentiment:
		return compactSentiment(raw)
	case cat == models.CategoryIntelligence:
		return compactIntelligence(raw, limits.IntelCharBudget)
	case strings.HasPrefix(string(cat), "indicator_"):
		return compactIndicator(raw)
	default:
		return nil
	}
}

func compactQuote(raw json.RawMessage) interface{} {
	var q models.QuoteResponse
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil
	}
	out := map[string]string{}
	putIf(out, "symbol", q.Symbol)
	putIf(out, "name", q.Name)
	putIf(out, "price", q.Price)
	putIf(out, "change", q.Change)
	putIf(out, "changePercent", q.ChangePercent)
	putIf(out, "volume", q.Volume)
	return out
}

// compactSeries keeps only the first n points (newest first) and only the
// close column per point.
func compactSeries(raw json.RawMessage, n int) interface{} {
	var s models.SeriesResponse
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if n <= 0 {
		n = 10
	}
	if len(s.Values) > n {
		s.Values = s.Values[:n]
	}
	out := make([]map[string]string, 0, len(s.Values))
	for _, p := range s.Values {
		out = append(out, map[string]string{
			"datetime": p.Datetime,
			"close":    p.Close,
		})
	}
	return out
}

// compactIndicator keeps the latest value row only.
func compactIndicator(raw json.RawMessage) interface{} {
	var r models.IndicatorResponse
	if err := json.Unmarshal(raw, &r); err != nil || len(r.Values) == 0 {
		return nil
	}
	return r.Values[0]
}

func compactSentiment(raw json.RawMessage) interface{} {
	var s models.SentimentResponse
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return map[string]interface{}{
		"bullish_percentage": s.BullishPercentage,
		"bearish_percentage": s.BearishPercentage,
		"total_posts":        s.TotalPosts,
		"overall_sentiment":  s.OverallSentiment,
	}
}

func compactIntelligence(raw json.RawMessage, charBudget int) interface{} {
	var r models.IntelligenceResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil
	}
	text := r.Text()
	if text == "" {
		return nil
	}
	if charBudget <= 0 {
		charBudget = 600
	}
	return util.TruncateWithMarker(text, charBudget, truncationMarker)
}

func putIf(m map[string]string, key, val string) {
	if val != "" {
		m[key] = val
	}
}
