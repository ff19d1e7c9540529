package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FinSight/internal/domain/models"
)

func TestClassifyQuote(t *testing.T) {
	in := Classify("what's the price of AAPL", models.AssetClassStock)
	assert.True(t, in.NeedsQuote)
	assert.False(t, in.NeedsSeries)
	assert.False(t, in.NeedsComprehensive)
	assert.Empty(t, in.Indicators)
}

func TestClassifySeries(t *testing.T) {
	in := Classify("show me the EUR/USD trend", models.AssetClassForex)
	assert.True(t, in.NeedsSeries)
	assert.False(t, in.NeedsQuote)
}

func TestClassifyIndicators(t *testing.T) {
	in := Classify("RSI and MACD for TSLA", models.AssetClassStock)
	assert.ElementsMatch(t, []string{"rsi", "macd"}, in.Indicators)
}

func TestClassifyIndicatorWholeWordOnly(t *testing.T) {
	in := Classify("is there demand for this stock price", models.AssetClassStock)
	assert.Empty(t, in.Indicators, "ema must not fire inside 'demand'")
}

func TestClassifyComprehensiveExpandsBundle(t *testing.T) {
	in := Classify("give me a full analysis of BTC", models.AssetClassCrypto)
	assert.True(t, in.NeedsComprehensive)
	assert.True(t, in.NeedsQuote)
	assert.True(t, in.NeedsSeries)
	assert.True(t, in.NeedsSentiment)
	assert.Subset(t, in.Indicators, []string{"rsi", "macd", "obv"})
}

func TestClassifyComprehensiveKeepsNamedIndicators(t *testing.T) {
	in := Classify("analyze TSLA with ATR", models.AssetClassStock)
	assert.Contains(t, in.Indicators, "atr")
	assert.Contains(t, in.Indicators, "rsi")
	count := map[string]int{}
	for _, ind := range in.Indicators {
		count[ind]++
		assert.Equal(t, 1, count[ind], "indicator %s duplicated", ind)
	}
}

func TestClassifyDefaultsToQuote(t *testing.T) {
	in := Classify("AAPL", models.AssetClassStock)
	assert.True(t, in.NeedsQuote, "bare instrument text defaults to a quote")
}

func TestClassifyDeterministic(t *testing.T) {
	a := Classify("analyze BTC trend with rsi", models.AssetClassCrypto)
	b := Classify("analyze BTC trend with rsi", models.AssetClassCrypto)
	assert.Equal(t, a, b)
}

func TestCategoriesExpansion(t *testing.T) {
	in := models.Intent{NeedsQuote: true, Indicators: []string{"rsi"}, NeedsComprehensive: true}
	cats := in.Categories()
	assert.Contains(t, cats, models.CategoryQuote)
	assert.Contains(t, cats, models.IndicatorCategory("rsi"))
	assert.Contains(t, cats, models.CategoryIntelligence)
}

func TestIsGeneralQuery(t *testing.T) {
	assert.True(t, IsGeneralQuery("explain how the market works"))
	assert.True(t, IsGeneralQuery("I need investment advice"))
	assert.False(t, IsGeneralQuery("zzz"))
}
