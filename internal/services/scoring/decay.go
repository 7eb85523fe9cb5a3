package scoring

import (
	"math"
	"time"

	"FundPull/internal/domain/models"
	"FundPull/pkg/util"
)

// DecayedScore fades a stored event score with an exponential half-life.
// hoursSince <= 0 returns the score unchanged.
func DecayedScore(score, hoursSince, halfLifeHours float64) float64 {
	if hoursSince <= 0 {
		return score
	}
	return score * math.Exp(-math.Ln2*hoursSince/halfLifeHours)
}

// EconomicContribution recomputes a currency's data component from its
// persisted per-event scores at read time, so contributions fade without a
// separate decay-update job. Capped to the event-score bound before it joins
// the other components.
func EconomicContribution(events []models.ScoredEvent, now time.Time, halfLifeHours float64) float64 {
	total := 0.0
	for _, e := range events {
		total += DecayedScore(e.Score, util.HoursSince(e.ProcessedAt, now), halfLifeHours)
	}
	return Round2(Clamp(total, EventScoreCap))
}
