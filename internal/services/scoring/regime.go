package scoring

import "FundPull/internal/domain/models"

// DetectRegime classifies the current market state from the run's snapshot.
// Computed once per run and passed into the aggregator so every currency
// sees the same regime reading.
func DetectRegime(m *models.MarketSnapshot) models.Regime {
	if m.Change(models.TickerVIX) > 20 || m.Change(models.TickerSPX) <= -3 {
		return models.RegimeRiskOff
	}
	return models.RegimeNormal
}

// FlowWeights returns the safe-haven and risk-currency market-flow weights
// for a regime. Risk-Off amplifies both reactions.
func FlowWeights(r models.Regime) (haven, risk float64) {
	if r == models.RegimeRiskOff {
		return WeightHavenOff, WeightRiskOff
	}
	return WeightHaven, WeightRisk
}
