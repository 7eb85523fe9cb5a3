package scoring

import (
	"time"

	"FundPull/internal/domain/models"
)

// AggregateCurrency folds every component into one hourly snapshot for a
// currency: time-decayed event contribution, central-bank tone, commodity
// rules, regime-weighted market flows and the rate differential, then the
// EWMA blend against the previous total. prev is the previous smoothed total
// or nil when the currency has no history.
func AggregateCurrency(
	currency string,
	events []models.ScoredEvent,
	m *models.MarketSnapshot,
	regime models.Regime,
	prev *float64,
	t *Tables,
	now time.Time,
	alpha, halfLifeHours float64,
) models.CurrencySnapshot {
	snap := models.CurrencySnapshot{
		WindowStart: now.Truncate(time.Hour),
		WindowEnd:   now.Truncate(time.Hour).Add(time.Hour),
		Currency:    currency,
	}

	snap.DataScore = EconomicContribution(events, now, halfLifeHours)

	var notes []string
	var n []string
	snap.CBToneScore, n = CBToneScore(currency, t)
	notes = append(notes, n...)
	snap.CommodityScore, n = CommodityScore(currency, m)
	notes = append(notes, n...)
	snap.MarketScore, n = MarketFlowScore(currency, m, regime)
	notes = append(notes, n...)
	snap.RateDiffScore, n = RateDifferential(currency, t)
	notes = append(notes, n...)

	raw := snap.DataScore + snap.CBToneScore + snap.CommodityScore + snap.MarketScore + snap.RateDiffScore
	total, smoothNotes := Smooth(raw, prev, alpha)
	snap.TotalScore = total
	snap.Notes = append(notes, smoothNotes...)
	return snap
}
