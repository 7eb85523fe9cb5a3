package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"FundPull/internal/domain/models"
)

func TestDecayedScoreHalfLife(t *testing.T) {
	assert.InDelta(t, 2.0, DecayedScore(4.0, 72, HalfLifeHours), 1e-9)
	assert.InDelta(t, 1.0, DecayedScore(4.0, 144, HalfLifeHours), 1e-9)
}

func TestDecayedScoreFreshEvent(t *testing.T) {
	assert.Equal(t, 4.0, DecayedScore(4.0, 0, HalfLifeHours))
	// event timestamps slightly in the future keep full weight
	assert.Equal(t, 4.0, DecayedScore(4.0, -1, HalfLifeHours))
}

func TestEconomicContributionSumsAndCaps(t *testing.T) {
	now := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)
	events := []models.ScoredEvent{
		{Score: 3.0, ProcessedAt: now},
		{Score: 2.0, ProcessedAt: now.Add(-72 * time.Hour)},
	}
	got := EconomicContribution(events, now, HalfLifeHours)
	assert.InDelta(t, 4.0, got, 1e-9)
}

func TestEconomicContributionCap(t *testing.T) {
	now := time.Now().UTC()
	events := []models.ScoredEvent{
		{Score: 6, ProcessedAt: now},
		{Score: 6, ProcessedAt: now},
		{Score: 6, ProcessedAt: now},
	}
	assert.Equal(t, EventScoreCap, EconomicContribution(events, now, HalfLifeHours))

	for i := range events {
		events[i].Score = -6
	}
	assert.Equal(t, -EventScoreCap, EconomicContribution(events, now, HalfLifeHours))
}

func TestEconomicContributionEmpty(t *testing.T) {
	assert.Zero(t, EconomicContribution(nil, time.Now(), HalfLifeHours))
}
