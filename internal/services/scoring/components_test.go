package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FundPull/internal/domain/models"
)

func TestCBToneScore(t *testing.T) {
	tbl := DefaultTables()
	usd, notes := CBToneScore("USD", tbl)
	assert.Equal(t, WeightCBTone, usd)
	assert.Equal(t, []string{"CB: hawkish"}, notes)

	jpy, _ := CBToneScore("JPY", tbl)
	assert.Equal(t, -WeightCBTone, jpy)

	eur, notes := CBToneScore("EUR", tbl)
	assert.Zero(t, eur)
	assert.Empty(t, notes)
}

func TestCommodityScoreCAD(t *testing.T) {
	up, notes := CommodityScore("CAD", snap(map[string]float64{models.TickerWTI: 2.1}))
	assert.Equal(t, WeightCommodity, up)
	assert.Contains(t, notes, "Oil↑ → CAD+")

	down, _ := CommodityScore("CAD", snap(map[string]float64{models.TickerWTI: -1.5}))
	assert.Equal(t, -WeightCommodity, down)

	flat, _ := CommodityScore("CAD", snap(map[string]float64{models.TickerWTI: 0.5}))
	assert.Zero(t, flat)
}

func TestCommodityScoreAUD(t *testing.T) {
	got, _ := CommodityScore("AUD", snap(map[string]float64{
		models.TickerCopper: 1.2,
		models.TickerGold:   1.4,
	}))
	assert.Equal(t, 2.0, got)

	mixed, _ := CommodityScore("AUD", snap(map[string]float64{
		models.TickerCopper: 1.2,
		models.TickerGold:   -1.4,
	}))
	assert.Zero(t, mixed)
}

func TestCommodityScoreGold(t *testing.T) {
	// falling yields and a soft dollar are both gold-positive
	got, _ := CommodityScore("XAU", snap(map[string]float64{
		models.TickerUST10Y: -0.08,
		models.TickerDXY:    -1.3,
	}))
	assert.Equal(t, 4.0, got)

	inv, _ := CommodityScore("XAU", snap(map[string]float64{
		models.TickerUST10Y: 0.08,
		models.TickerDXY:    1.3,
	}))
	assert.Equal(t, -4.0, inv)
}

func TestCommodityScoreSilver(t *testing.T) {
	got, _ := CommodityScore("XAG", snap(map[string]float64{
		models.TickerDXY:    -1.1,
		models.TickerCopper: 1.1,
	}))
	assert.Equal(t, 2.0, got)
}

func TestMarketFlowUSDPositiveOnly(t *testing.T) {
	up, _ := MarketFlowScore("USD", snap(map[string]float64{
		models.TickerDXY:    1.2,
		models.TickerUST10Y: 0.06,
	}), models.RegimeNormal)
	assert.Equal(t, 2*WeightMarket, up)

	// falling dollar and yields do not produce a negative USD flow
	down, _ := MarketFlowScore("USD", snap(map[string]float64{
		models.TickerDXY:    -1.2,
		models.TickerUST10Y: -0.06,
	}), models.RegimeNormal)
	assert.Zero(t, down)
}

func TestMarketFlowHavensByRegime(t *testing.T) {
	off := snap(map[string]float64{models.TickerSPX: -3.5})
	jpy, _ := MarketFlowScore("JPY", off, models.RegimeRiskOff)
	assert.Equal(t, WeightHavenOff, jpy)

	normal := snap(map[string]float64{models.TickerSPX: -1.2})
	chf, _ := MarketFlowScore("CHF", normal, models.RegimeNormal)
	assert.Equal(t, WeightHaven, chf)

	riskOn := snap(map[string]float64{models.TickerSPX: 1.5})
	jpyOn, _ := MarketFlowScore("JPY", riskOn, models.RegimeNormal)
	assert.Equal(t, -WeightHaven, jpyOn)
}

func TestMarketFlowNZDByRegime(t *testing.T) {
	off := snap(map[string]float64{models.TickerSPX: -3.5})
	nzd, _ := MarketFlowScore("NZD", off, models.RegimeRiskOff)
	assert.Equal(t, -WeightRiskOff, nzd)

	on := snap(map[string]float64{models.TickerSPX: 1.5})
	nzdOn, _ := MarketFlowScore("NZD", on, models.RegimeNormal)
	assert.Equal(t, WeightRisk, nzdOn)
}

func TestRateDifferential(t *testing.T) {
	tbl := DefaultTables()
	// basket mean is 2.625 with the default snapshot
	usd, notes := RateDifferential("USD", tbl)
	assert.InDelta(t, 1.88, usd, 1e-9)
	assert.NotEmpty(t, notes)

	jpy, _ := RateDifferential("JPY", tbl)
	assert.InDelta(t, -2.13, jpy, 1e-9)

	xau, notes := RateDifferential("XAU", tbl)
	assert.Zero(t, xau)
	assert.Empty(t, notes)
}

func TestRateDifferentialClamped(t *testing.T) {
	tbl := DefaultTables()
	tbl.PolicyRate["USD"] = 15.0
	usd, _ := RateDifferential("USD", tbl)
	assert.Equal(t, RateDiffCap, usd)
}
