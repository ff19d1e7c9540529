package usecase

import (
	"encoding/json"
	"strings"
	"testing"

	"FinSight/internal/domain/models"
)

func TestCompactQuoteAllowList(t *testing.T) {
	raw := []byte(`{"symbol":"AAPL","name":"Apple Inc","exchange":"NASDAQ","close":"190.1","percent_change":"1.2","volume":"100","fifty_two_week":{"high":"200"}}`)
	got, ok := compactCategory(models.CategoryQuote, raw, testLimits()).(map[string]string)
	if !ok {
		t.Fatalf("unexpected type")
	}
	if got["price"] != "190.1" || got["changePercent"] != "1.2" {
		t.Fatalf("unexpected fields %+v", got)
	}
	if _, present := got["exchange"]; present {
		t.Fatalf("exchange must be stripped")
	}
}

func TestCompactQuoteOmitsMissingFields(t *testing.T) {
	raw := []byte(`{"symbol":"AAPL","close":"190.1"}`)
	got := compactCategory(models.CategoryQuote, raw, testLimits()).(map[string]string)
	if _, present := got["volume"]; present {
		t.Fatalf("missing upstream field must be omitted, got %+v", got)
	}
}

func TestCompactSeriesFirstNPoints(t *testing.T) {
	s := models.SeriesResponse{Values: make([]models.SeriesPoint, 30)}
	for i := range s.Values {
		s.Values[i] = models.SeriesPoint{Datetime: "d", Open: "1", Close: "2"}
	}
	raw, _ := json.Marshal(s)

	limits := testLimits()
	limits.SeriesPoints = 5
	got := compactCategory(models.CategorySeries, raw, limits).([]map[string]string)
	if len(got) != 5 {
		t.Fatalf("expected 5 points, got %d", len(got))
	}
	if _, present := got[0]["open"]; present {
		t.Fatalf("only datetime/close survive compaction")
	}
}

func TestCompactIndicatorLatestOnly(t *testing.T) {
	raw := []byte(`{"values":[{"datetime":"d1","rsi":"55"},{"datetime":"d0","rsi":"54"}]}`)
	got := compactCategory(models.IndicatorCategory("rsi"), raw, testLimits()).(map[string]string)
	if got["rsi"] != "55" {
		t.Fatalf("expected latest value, got %+v", got)
	}
}

func TestCompactIntelligenceTruncated(t *testing.T) {
	r := models.IntelligenceResponse{SynthesizedAnalysis: strings.Repeat("x", 5000)}
	raw, _ := json.Marshal(r)

	got := compactCategory(models.CategoryIntelligence, raw, testLimits()).(string)
	if len(got) > testLimits().IntelCharBudget {
		t.Fatalf("char budget exceeded: %d", len(got))
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("expected truncation marker")
	}
}

func TestCompactMalformedYieldsNil(t *testing.T) {
	if got := compactCategory(models.CategoryQuote, []byte("not json"), testLimits()); got != nil {
		t.Fatalf("expected nil for malformed input, got %+v", got)
	}
	if got := compactCategory(models.IndicatorCategory("rsi"), []byte(`{"values":[]}`), testLimits()); got != nil {
		t.Fatalf("expected nil for empty indicator, got %+v", got)
	}
}
