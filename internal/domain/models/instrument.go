package models

import (
	"fmt"
	"strings"
)

// AssetClass identifies the kind of tradable instrument.
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassForex  AssetClass = "forex"
	AssetClassCrypto AssetClass = "crypto"
)

// AssetClasses lists all supported classes.
func AssetClasses() []AssetClass {
	return []AssetClass{AssetClassStock, AssetClassForex, AssetClassCrypto}
}

// ParseAssetClass converts a raw string to an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock", "stocks", "equity":
		return AssetClassStock, nil
	case "forex", "fx", "currency":
		return AssetClassForex, nil
	case "crypto", "cryptocurrency":
		return AssetClassCrypto, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// Instrument is a tradable entity: a stock ticker, forex pair or crypto pair.
// The Symbol field is canonical ("AAPL", "EUR/USD", "BTC/USD") and is used as
// catalog and cache key after uppercasing.
type Instrument struct {
	Symbol        string     `json:"symbol"`
	DisplayName   string     `json:"display_name,omitempty"`
	Class         AssetClass `json:"asset_class"`
	Exchange      string     `json:"exchange,omitempty"`
	BaseCurrency  string     `json:"base_currency,omitempty"`
	QuoteCurrency string     `json:"quote_currency,omitempty"`
}

// CanonicalSymbol normalizes a raw symbol to catalog/cache key form.
func CanonicalSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsPair reports whether the instrument is a base/quote pair.
func (i Instrument) IsPair() bool {
	return i.Class == AssetClassForex || i.Class == AssetClassCrypto
}
