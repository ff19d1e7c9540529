package models

import "time"

// Category names one kind of upstream data a turn can request.
type Category string

const (
	CategoryQuote        Category = "quote"
	CategorySeries       Category = "series"
	CategorySentiment    Category = "sentiment"
	CategoryIntelligence Category = "intelligence"
)

// IndicatorCategory returns the cache/category key for a named indicator.
func IndicatorCategory(name string) Category {
	return Category("indicator_" + name)
}

// Intent is the classifier's verdict: which data categories the query needs.
type Intent struct {
	NeedsQuote         bool
	NeedsSeries        bool
	Indicators         []string
	NeedsSentiment     bool
	NeedsComprehensive bool
}

// Categories expands the intent into the concrete category set.
func (in Intent) Categories() []Category {
	var cats []Category
	if in.NeedsQuote {
		cats = append(cats, CategoryQuote)
	}
	if in.NeedsSeries {
		cats = append(cats, CategorySeries)
	}
	for _, ind := range in.Indicators {
		cats = append(cats, IndicatorCategory(ind))
	}
	if in.NeedsSentiment {
		cats = append(cats, CategorySentiment)
	}
	if in.NeedsComprehensive {
		cats = append(cats, CategoryIntelligence)
	}
	return cats
}

// ResolvedQuery is the outcome of classification and resolution for one turn.
// Constructed per turn, consumed once by the aggregation pipeline.
type ResolvedQuery struct {
	Instrument     *Instrument
	Intent         Intent
	IsGeneralQuery bool
	Strategy       string // which resolver strategy produced the instrument
}

// ClarificationKind distinguishes the two clarification branches.
type ClarificationKind string

const (
	ClarificationGeneral     ClarificationKind = "general"
	ClarificationSuggestions ClarificationKind = "suggestions"
)

// Clarification is the pipeline outcome when no valid instrument exists.
type Clarification struct {
	Kind        ClarificationKind `json:"kind"`
	Message     string            `json:"message"`
	Suggestions []Instrument      `json:"suggestions,omitempty"`
}

// BoundedPayload is the compacted aggregation result handed to the chat/LLM
// layer. Content is a serialized JSON document no longer than the configured
// byte budget.
type BoundedPayload struct {
	Symbol    string `json:"symbol"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// TurnResult is what one aggregation turn produces: exactly one of Payload or
// Clarification is set.
type TurnResult struct {
	Payload       *BoundedPayload `json:"payload,omitempty"`
	Clarification *Clarification  `json:"clarification,omitempty"`
}

// QueryEvent is the audit record emitted to the event sink after each turn.
type QueryEvent struct {
	SessionID     string    `json:"session_id"`
	AssetClass    string    `json:"asset_class"`
	Symbol        string    `json:"symbol,omitempty"`
	Strategy      string    `json:"strategy,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	CacheHits     int       `json:"cache_hits"`
	UpstreamCalls int       `json:"upstream_calls"`
	Outcome       string    `json:"outcome"` // payload, clarification, error
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}
