package models

import "time"

// Bias labels published to the dashboard.
const (
	BiasStrong  = "Fundamentally Strong"
	BiasWeak    = "Fundamentally Weak"
	BiasNeutral = "Neutral"
)

// CurrencySnapshot is one engine run's result for a currency. Rows are
// append-only; the most recent row per currency feeds the next run's
// smoothing step.
type CurrencySnapshot struct {
	WindowStart    time.Time
	WindowEnd      time.Time
	Currency       string
	DataScore      float64
	CBToneScore    float64
	CommodityScore float64
	MarketScore    float64
	RateDiffScore  float64
	TotalScore     float64 // post-smoothing
	Notes          []string
	// CreatedAt is the insertion instant. window_start is hour-truncated,
	// so two runs inside one hour tie on it; this breaks the tie.
	CreatedAt time.Time
}

// PairBias is the published directional signal for one FX pair,
// upserted by Pair.
type PairBias struct {
	Pair          string
	BaseCurrency  string
	QuoteCurrency string
	BaseScore     float64
	QuoteScore    float64
	TotalBias     float64
	BiasText      string
	Summary       string
	Confidence    int
	UpdatedAt     time.Time
}

// IndexBias is the published signal for one equity index,
// upserted by Instrument.
type IndexBias struct {
	Instrument string
	Currency   string
	Score      float64
	BiasText   string
	Summary    string
	Confidence int
	UpdatedAt  time.Time
}
