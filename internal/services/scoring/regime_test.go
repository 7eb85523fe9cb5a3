package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FundPull/internal/domain/models"
)

func snap(changes map[string]float64) *models.MarketSnapshot {
	return &models.MarketSnapshot{Changes: changes}
}

func TestDetectRegime(t *testing.T) {
	assert.Equal(t, models.RegimeRiskOff, DetectRegime(snap(map[string]float64{
		models.TickerVIX: 25, models.TickerSPX: -3.5,
	})))
	assert.Equal(t, models.RegimeRiskOff, DetectRegime(snap(map[string]float64{
		models.TickerVIX: 25,
	})))
	assert.Equal(t, models.RegimeRiskOff, DetectRegime(snap(map[string]float64{
		models.TickerSPX: -3,
	})))
	assert.Equal(t, models.RegimeNormal, DetectRegime(snap(map[string]float64{
		models.TickerVIX: 20, models.TickerSPX: -2.9,
	})))
	assert.Equal(t, models.RegimeNormal, DetectRegime(snap(nil)))
}

func TestFlowWeights(t *testing.T) {
	haven, risk := FlowWeights(models.RegimeNormal)
	assert.Equal(t, WeightHaven, haven)
	assert.Equal(t, WeightRisk, risk)

	haven, risk = FlowWeights(models.RegimeRiskOff)
	assert.Equal(t, WeightHavenOff, haven)
	assert.Equal(t, WeightRiskOff, risk)
}
