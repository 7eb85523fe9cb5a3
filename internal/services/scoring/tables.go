package scoring

// Engine constants. Caps bound every published score; weights follow the
// hand-tuned values the bias model was calibrated with.
const (
	EventScoreCap  = 7.0  // per-event and economic-contribution bound
	TotalScoreCap  = 12.0 // smoothed per-currency bound
	RateDiffCap    = 3.0  // carry component bound
	DefaultAlpha   = 0.55 // EWMA blend weight for the new raw score
	HalfLifeHours  = 72.0 // economic contribution half-life
	MoveThreshold  = 1.0  // percent move that counts as a signal
	YieldThreshold = 0.05 // 10Y move threshold (index points, not percent)

	WeightCBTone    = 3.0
	WeightCommodity = 2.0
	WeightMarket    = 2.0
	WeightHaven     = 2.0 // JPY/CHF flow weight under Normal
	WeightHavenOff  = 3.0 // ... under Risk-Off
	WeightRisk      = 1.0 // NZD flow weight under Normal
	WeightRiskOff   = 2.0 // ... under Risk-Off
)

// Central bank tones.
const (
	ToneHawkish = "hawkish"
	ToneNeutral = "neutral"
	ToneDovish  = "dovish"
)

// Tables holds the static calibration data the scorer and aggregator read.
// Loaded once at startup and passed explicitly so tests can override entries.
type Tables struct {
	Sigma        map[string]float64
	DefaultSigma float64
	// Inverse marks indicators where a lower actual is the stronger print.
	Inverse    map[string]bool
	CBTone     map[string]string
	PolicyRate map[string]float64
}

// SigmaFor returns the assumed surprise standard deviation for an indicator.
func (t *Tables) SigmaFor(title string) float64 {
	if s, ok := t.Sigma[title]; ok && s > 0 {
		return s
	}
	return t.DefaultSigma
}

// PolarityFor returns +1 for "higher is stronger" indicators, -1 for inverse.
func (t *Tables) PolarityFor(title string) float64 {
	if t.Inverse[title] {
		return -1
	}
	return 1
}

// DefaultTables is the manually maintained calibration snapshot. The CB tone
// and policy rate entries have no live update path; edit here when stances
// change.
func DefaultTables() *Tables {
	return &Tables{
		DefaultSigma: 1.0,
		Sigma: map[string]float64{
			// employment
			"Non-Farm Employment Change":     100000,
			"ADP Non-Farm Employment Change": 75000,
			"Employment Change":              30000,
			"Unemployment Claims":            20000,
			"Unemployment Rate":              0.2,
			// rates
			"Federal Funds Rate":     0.25,
			"Official Cash Rate":     0.25,
			"Overnight Rate":         0.25,
			"Cash Rate":              0.25,
			"Official Bank Rate":     0.25,
			"Main Refinancing Rate":  0.25,
			"SNB Policy Rate":        0.25,
			"BOJ Policy Rate":        0.1,
			// inflation
			"CPI m/m":        0.3,
			"CPI y/y":        0.4,
			"Core CPI m/m":   0.2,
			"PPI m/m":        0.4,
			"Core PCE Price Index m/m": 0.15,
			// activity
			"GDP m/m":               0.3,
			"GDP q/q":               0.5,
			"Prelim GDP q/q":        0.5,
			"Retail Sales m/m":      0.8,
			"Core Retail Sales m/m": 0.6,
			"ISM Manufacturing PMI": 1.5,
			"ISM Services PMI":      1.5,
			"Flash Manufacturing PMI": 1.5,
			"Flash Services PMI":      1.5,
		},
		Inverse: map[string]bool{
			"Unemployment Rate":   true,
			"Unemployment Claims": true,
			"Initial Jobless Claims": true,
			"Continuing Claims":      true,
		},
		CBTone: map[string]string{
			"USD": ToneHawkish,
			"EUR": ToneNeutral,
			"GBP": ToneNeutral,
			"JPY": ToneDovish,
			"CAD": ToneDovish,
			"AUD": ToneNeutral,
			"NZD": ToneNeutral,
			"CHF": ToneNeutral,
		},
		PolicyRate: map[string]float64{
			"USD": 4.50,
			"EUR": 2.15,
			"GBP": 4.00,
			"JPY": 0.50,
			"CAD": 2.75,
			"AUD": 3.85,
			"NZD": 3.25,
			"CHF": 0.00,
		},
	}
}
