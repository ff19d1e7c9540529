package models

// Requests for the advisor HTTP endpoints. Defined in domain for consistency and reuse.

type QueryRequest struct {
	SessionID  string `json:"session_id" validate:"required"`
	Text       string `json:"text" validate:"required,min=1,max=2000"`
	AssetClass string `json:"asset_class" default:"crypto" validate:"oneof=stock forex crypto"`
}

type SuggestRequest struct {
	Query      string `query:"q" json:"q" validate:"required,min=1,max=100"`
	AssetClass string `query:"class" json:"class" default:"crypto" validate:"oneof=stock forex crypto"`
	Limit      int    `query:"limit" json:"limit" default:"5" validate:"gte=1,lte=20"`
}

type SymbolsRequest struct {
	AssetClass string `query:"class" json:"class" default:"crypto" validate:"oneof=stock forex crypto"`
}
