package util

import "time"

// ParseEventDate accepts the calendar date layouts seen across providers
// (YYYY-MM-DD and MM-DD-YYYY) and normalizes to YYYY-MM-DD.
func ParseEventDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, layout := range []string{"2006-01-02", "01-02-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// HoursSince returns fractional hours between then and now, never negative.
func HoursSince(then, now time.Time) float64 {
	h := now.Sub(then).Hours()
	if h < 0 {
		return 0
	}
	return h
}
