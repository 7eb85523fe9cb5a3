package scoring

import (
	"fmt"

	"FundPull/internal/domain/models"
)

// CBToneScore maps the static central-bank stance to a fixed component.
func CBToneScore(currency string, t *Tables) (float64, []string) {
	switch t.CBTone[currency] {
	case ToneHawkish:
		return WeightCBTone, []string{"CB: hawkish"}
	case ToneDovish:
		return -WeightCBTone, []string{"CB: dovish"}
	default:
		return 0, nil
	}
}

// CommodityScore applies the hand-authored market-move -> currency rules.
// Each rule fires when the trailing percent move crosses its threshold.
func CommodityScore(currency string, m *models.MarketSnapshot) (float64, []string) {
	var s float64
	var notes []string

	wti := m.Change(models.TickerWTI)
	copper := m.Change(models.TickerCopper)
	gold := m.Change(models.TickerGold)
	ust := m.Change(models.TickerUST10Y)
	dxy := m.Change(models.TickerDXY)

	switch currency {
	case "CAD":
		if wti >= MoveThreshold {
			s += WeightCommodity
			notes = append(notes, "Oil↑ → CAD+")
		}
		if wti <= -MoveThreshold {
			s -= WeightCommodity
			notes = append(notes, "Oil↓ → CAD-")
		}
	case "AUD":
		if copper >= MoveThreshold {
			s++
			notes = append(notes, "Copper↑ → AUD+")
		}
		if copper <= -MoveThreshold {
			s--
			notes = append(notes, "Copper↓ → AUD-")
		}
		if gold >= MoveThreshold {
			s++
			notes = append(notes, "Gold↑ → AUD+")
		}
		if gold <= -MoveThreshold {
			s--
			notes = append(notes, "Gold↓ → AUD-")
		}
	case "XAU":
		if ust <= -YieldThreshold {
			s += 2
			notes = append(notes, "Yields↓ → Gold+")
		}
		if ust >= YieldThreshold {
			s -= 2
			notes = append(notes, "Yields↑ → Gold-")
		}
		if dxy <= -MoveThreshold {
			s += 2
			notes = append(notes, "DXY↓ → Gold+")
		}
		if dxy >= MoveThreshold {
			s -= 2
			notes = append(notes, "DXY↑ → Gold-")
		}
	case "XAG":
		if dxy <= -MoveThreshold {
			s++
			notes = append(notes, "DXY↓ → Silver+")
		}
		if dxy >= MoveThreshold {
			s--
			notes = append(notes, "DXY↑ → Silver-")
		}
		if copper >= MoveThreshold {
			s++
			notes = append(notes, "Copper↑ → Silver+ (industrial)")
		}
		if copper <= -MoveThreshold {
			s--
			notes = append(notes, "Copper↓ → Silver-")
		}
	}
	return s, notes
}

// MarketFlowScore captures each currency's regime-weighted reaction to broad
// risk sentiment and yields.
func MarketFlowScore(currency string, m *models.MarketSnapshot, regime models.Regime) (float64, []string) {
	var s float64
	var notes []string

	spx := m.Change(models.TickerSPX)
	havenW, riskW := FlowWeights(regime)

	switch currency {
	case "USD":
		if m.Change(models.TickerDXY) >= MoveThreshold {
			s += WeightMarket
			notes = append(notes, "DXY↑ → USD+")
		}
		if m.Change(models.TickerUST10Y) >= YieldThreshold {
			s += WeightMarket
			notes = append(notes, "Yields↑ → USD+")
		}
	case "JPY", "CHF":
		if spx <= -MoveThreshold {
			s += havenW
			notes = append(notes, "Risk-off → JPY/CHF+")
		}
		if spx >= MoveThreshold {
			s -= havenW
			notes = append(notes, "Risk-on → JPY/CHF-")
		}
	case "NZD":
		if spx >= MoveThreshold {
			s += riskW
			notes = append(notes, "Risk-on → NZD+")
		}
		if spx <= -MoveThreshold {
			s -= riskW
			notes = append(notes, "Risk-off → NZD-")
		}
	}
	return s, notes
}

// RateDifferential scores carry attractiveness: policy rate above the basket
// mean earns a positive component, clamped to the rate-diff bound.
// Metals carry no policy rate and score 0.
func RateDifferential(currency string, t *Tables) (float64, []string) {
	rate, ok := t.PolicyRate[currency]
	if !ok {
		return 0, nil
	}
	var sum float64
	for _, r := range t.PolicyRate {
		sum += r
	}
	mean := sum / float64(len(t.PolicyRate))
	s := Round2(Clamp(rate-mean, RateDiffCap))
	if s == 0 {
		return 0, nil
	}
	return s, []string{fmt.Sprintf("Carry: %+.2f vs basket", s)}
}
