package models

import "time"

// Cross-asset tickers tracked every run.
const (
	TickerDXY    = "DXY"
	TickerWTI    = "WTI"
	TickerGold   = "GOLD"
	TickerCopper = "COPPER"
	TickerSPX    = "SPX"
	TickerUST10Y = "UST10Y"
	TickerVIX    = "VIX"
)

// MarketTickers is the fixed basket fetched concurrently each run.
var MarketTickers = []string{
	TickerDXY, TickerWTI, TickerGold, TickerCopper,
	TickerSPX, TickerUST10Y, TickerVIX,
}

// MarketSnapshot holds trailing-window percent changes per ticker. A ticker
// whose fetch failed is present with a neutral 0 entry, never missing.
type MarketSnapshot struct {
	Changes   map[string]float64
	FetchedAt time.Time
}

// Change returns the percent change for a ticker, 0 when unknown.
func (m *MarketSnapshot) Change(ticker string) float64 {
	if m == nil || m.Changes == nil {
		return 0
	}
	return m.Changes[ticker]
}

// Regime is the coarse market-state classification for one run.
type Regime string

const (
	RegimeNormal  Regime = "normal"
	RegimeRiskOff Regime = "risk_off"
)
