package util

import (
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	if got, ok := ParseEventDate("08-29-2025"); !ok || got != "2025-08-29" {
		t.Fatalf("unexpected %q ok=%v", got, ok)
	}
	if got, ok := ParseEventDate("2025-08-29"); !ok || got != "2025-08-29" {
		t.Fatalf("unexpected %q ok=%v", got, ok)
	}
	if _, ok := ParseEventDate("Aug 29"); ok {
		t.Fatalf("expected failure")
	}
}

func TestHoursSince(t *testing.T) {
	now := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)
	if got := HoursSince(now.Add(-6*time.Hour), now); got != 6 {
		t.Fatalf("unexpected hours %v", got)
	}
	if got := HoursSince(now.Add(time.Hour), now); got != 0 {
		t.Fatalf("future event should clamp to 0, got %v", got)
	}
}
