package scoring

import (
	"math"
	"strconv"
	"strings"

	"FundPull/internal/domain/models"
)

// ScoreEvent converts one release's actual/forecast pair into a bounded
// surprise score in [-EventScoreCap, EventScoreCap]. Deterministic given the
// inputs and tables; missing or unparsable values score a neutral 0.
func ScoreEvent(actual, forecast, title string, impactWeight int, t *Tables) float64 {
	if actual == "" || forecast == "" {
		return 0
	}
	a, ok := ParseNumeric(actual)
	if !ok {
		return 0
	}
	f, ok := ParseNumeric(forecast)
	if !ok {
		return 0
	}

	z := (a - f) / t.SigmaFor(title)
	// tanh saturation: smoothly approaches the cap, never exceeds it, so a
	// thousand-sigma outlier print cannot blow out the aggregation.
	base := EventScoreCap * math.Tanh(z/2)
	score := base * t.PolarityFor(title) * float64(impactWeight) / models.MaxImpactWeight
	return Round2(score)
}

// ParseNumeric parses a feed value string, tolerating "%" and comma
// formatting and scaling K/M/B magnitude suffixes.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1e3
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult = 1e6
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "B"):
		mult = 1e9
		s = strings.TrimSuffix(s, "B")
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to [-cap, cap].
func Clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
