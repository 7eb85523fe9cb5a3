package scoring

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"FundPull/internal/domain/models"
)

const (
	pairLabelThreshold  = 7.0
	indexLabelThreshold = 3.0
	indexScoreCap       = 6.0
	summaryMaxLen       = 220
	defaultSummary      = "Real-time macro blend"
)

// BiasLabel maps a pair bias to its display label.
func BiasLabel(bias float64) string {
	switch {
	case bias >= pairLabelThreshold:
		return models.BiasStrong
	case bias <= -pairLabelThreshold:
		return models.BiasWeak
	default:
		return models.BiasNeutral
	}
}

// IndexBiasLabel uses a tighter threshold than pairs since index scores
// live on a narrower scale.
func IndexBiasLabel(score float64) string {
	switch {
	case score >= indexLabelThreshold:
		return models.BiasStrong
	case score <= -indexLabelThreshold:
		return models.BiasWeak
	default:
		return models.BiasNeutral
	}
}

// Confidence converts score magnitude into a 50..100 percentage.
func Confidence(magnitude, scale float64) int {
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > scale {
		magnitude = scale
	}
	return int(50 + (magnitude/scale)*50)
}

// ComposePairBias builds the published bias row for one pair from the two
// per-currency snapshots. Convention: positive bias means the quote currency
// is fundamentally stronger, so the pair is expected to fall.
func ComposePairBias(p Pair, base, quote *models.CurrencySnapshot, now time.Time) models.PairBias {
	bias := Round2(quote.TotalScore - base.TotalScore)
	return models.PairBias{
		Pair:          p.Base + p.Quote,
		BaseCurrency:  p.Base,
		QuoteCurrency: p.Quote,
		BaseScore:     base.TotalScore,
		QuoteScore:    quote.TotalScore,
		TotalBias:     bias,
		BiasText:      BiasLabel(bias),
		Summary:       pairSummary(base, quote),
		Confidence:    Confidence(bias, TotalScoreCap),
		UpdatedAt:     now,
	}
}

// pairSummary picks the leading drivers: up to two quote-side notes and one
// base-side note, truncated to the column width.
func pairSummary(base, quote *models.CurrencySnapshot) string {
	var parts []string
	for i, n := range quote.Notes {
		if i == 2 {
			break
		}
		parts = append(parts, n)
	}
	if len(base.Notes) > 0 {
		parts = append(parts, base.Notes[0])
	}
	if len(parts) == 0 {
		return defaultSummary
	}
	return truncateSummary(strings.Join(parts, "; "))
}

// truncateSummary caps a summary at the column width without splitting a
// multi-byte rune (notes carry arrows).
func truncateSummary(s string) string {
	if len(s) <= summaryMaxLen {
		return s
	}
	cut := summaryMaxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ComposeIndexBias scores one equity index from market moves and the home
// currency's aggregate, using per-index sensitivities.
func ComposeIndexBias(idx Index, m *models.MarketSnapshot, home *models.CurrencySnapshot, now time.Time) models.IndexBias {
	var s float64
	var notes []string

	spx := m.Change(models.TickerSPX)
	ust := m.Change(models.TickerUST10Y)
	vix := m.Change(models.TickerVIX)

	spxW, ustW := 2.0, 1.0
	if idx.Currency == "USD" {
		spxW, ustW = 3.0, 3.0
	}
	if spx >= MoveThreshold {
		s += spxW
		notes = append(notes, "Equity tailwind")
	}
	if spx <= -MoveThreshold {
		s -= spxW
		notes = append(notes, "Equity headwind")
	}
	if ust >= YieldThreshold {
		s -= ustW
		notes = append(notes, "Yields↑ pressure")
	}
	if ust <= -YieldThreshold {
		s += ustW
		notes = append(notes, "Yields↓ relief")
	}

	// A strong home currency is an export headwind for the index, a weak
	// one a tailwind.
	if home != nil {
		if home.TotalScore >= 5 {
			s -= 2
			notes = append(notes, fmt.Sprintf("%s strength → export headwind", idx.Currency))
		}
		if home.TotalScore <= -5 {
			s += 2
			notes = append(notes, fmt.Sprintf("%s weakness → export tailwind", idx.Currency))
		}
	}

	if vix <= -10 {
		s++
		notes = append(notes, "Vol crush")
	}
	if vix >= 10 {
		s--
		notes = append(notes, "Vol spike")
	}

	wti := m.Change(models.TickerWTI)
	copper := m.Change(models.TickerCopper)
	gold := m.Change(models.TickerGold)
	switch idx.Code {
	case "UK100":
		if wti >= MoveThreshold {
			s++
			notes = append(notes, "Oil↑ → energy heavyweights")
		}
		if wti <= -MoveThreshold {
			s--
			notes = append(notes, "Oil↓ → energy drag")
		}
	case "AUS200":
		if copper >= MoveThreshold {
			s++
			notes = append(notes, "Copper↑ → miners")
		}
		if copper <= -MoveThreshold {
			s--
			notes = append(notes, "Copper↓ → miners drag")
		}
		if gold >= MoveThreshold {
			s++
			notes = append(notes, "Gold↑ → miners")
		}
		if gold <= -MoveThreshold {
			s--
			notes = append(notes, "Gold↓ → miners drag")
		}
	}

	s = Round2(s)
	summary := defaultSummary
	if len(notes) > 0 {
		summary = truncateSummary(strings.Join(notes, "; "))
	}
	return models.IndexBias{
		Instrument: idx.Code,
		Currency:   idx.Currency,
		Score:      s,
		BiasText:   IndexBiasLabel(s),
		Summary:    summary,
		Confidence: Confidence(s, indexScoreCap),
		UpdatedAt:  now,
	}
}
