package resolver

import "FinSight/internal/domain/models"

// Alias tables map common names and nicknames to canonical symbols. Matched
// by substring against the lower-cased input, longest alias first, so
// "euro dollar" wins over "euro".
var aliases = map[models.AssetClass]map[string]string{
	models.AssetClassCrypto: {
		"bitcoin":   "BTC/USD",
		"ethereum":  "ETH/USD",
		"ether":     "ETH/USD",
		"solana":    "SOL/USD",
		"dogecoin":  "DOGE/USD",
		"doge":      "DOGE/USD",
		"cardano":   "ADA/USD",
		"ripple":    "XRP/USD",
		"litecoin":  "LTC/USD",
		"polkadot":  "DOT/USD",
		"chainlink": "LINK/USD",
		"avalanche": "AVAX/USD",
	},
	models.AssetClassForex: {
		"euro dollar": "EUR/USD",
		"eurodollar":  "EUR/USD",
		"fiber":       "EUR/USD",
		"cable":       "GBP/USD",
		"sterling":    "GBP/USD",
		"pound":       "GBP/USD",
		"aussie":      "AUD/USD",
		"kiwi":        "NZD/USD",
		"loonie":      "USD/CAD",
		"swissy":      "USD/CHF",
		"yen":         "USD/JPY",
		"euro":        "EUR/USD",
	},
	models.AssetClassStock: {
		"apple":     "AAPL",
		"microsoft": "MSFT",
		"google":    "GOOGL",
		"alphabet":  "GOOGL",
		"amazon":    "AMZN",
		"tesla":     "TSLA",
		"nvidia":    "NVDA",
		"facebook":  "META",
		"netflix":   "NFLX",
		"disney":    "DIS",
		"intel":     "INTC",
		"amd":       "AMD",
	},
}

// currencyCodes is the recognized ISO currency set for two-token detection.
var currencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CHF": true,
	"CAD": true, "AUD": true, "NZD": true, "CNY": true, "HKD": true,
	"SGD": true, "SEK": true, "NOK": true, "DKK": true, "MXN": true,
	"ZAR": true, "TRY": true, "INR": true, "BRL": true, "KRW": true,
	"PLN": true, "THB": true,
}

// boilerplateWords are stripped before descriptive-name fuzzy matching.
var boilerplateWords = map[string]bool{
	"stock": true, "stocks": true, "share": true, "shares": true,
	"forex": true, "pair": true, "currency": true, "crypto": true,
	"coin": true, "token": true, "price": true, "quote": true,
	"chart": true, "the": true, "a": true, "of": true, "for": true,
	"about": true, "please": true,
}

// tickerStopwords are uppercase tokens that look like tickers but never are:
// indicator names, currency codes and common financial abbreviations.
var tickerStopwords = map[string]bool{
	"RSI": true, "EMA": true, "SMA": true, "MACD": true, "BBANDS": true,
	"ADX": true, "ATR": true, "OBV": true, "VWAP": true, "STOCH": true,
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "ETF": true,
	"IPO": true, "AI": true, "API": true, "CEO": true, "PE": true,
	"YTD": true, "OK": true, "I": true, "A": true,
}
