package scoring

import "fmt"

// Smooth blends the freshly computed raw score with the previous hourly
// total through an exponential moving average and clamps the result to the
// total-score bound. prev == nil means there is no history and the raw value
// passes through. A note is returned when smoothing moved the score by more
// than one point, so the run report can flag a damped swing.
func Smooth(raw float64, prev *float64, alpha float64) (float64, []string) {
	if prev == nil {
		return Round2(Clamp(raw, TotalScoreCap)), nil
	}
	smoothed := Round2(Clamp(alpha*raw+(1-alpha)*(*prev), TotalScoreCap))
	var notes []string
	if d := smoothed - raw; d > 1 || d < -1 {
		notes = append(notes, fmt.Sprintf("EWMA damped %.2f → %.2f", raw, smoothed))
	}
	return smoothed, notes
}
