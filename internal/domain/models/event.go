package models

import (
	"fmt"
	"time"
)

// Impact is the stated importance of a calendar release.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// MaxImpactWeight scales high-impact events to full weight.
const MaxImpactWeight = 3

// Weight maps impact to its numeric weight (High=3, Medium=2, Low=1).
func (i Impact) Weight() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// EconomicEvent is one canonical calendar release. Value fields keep the
// provider's raw strings ("%", "K", "M", "B" suffixes intact); an empty
// string means the value has not been published yet.
type EconomicEvent struct {
	Country     string
	Currency    string
	Title       string
	Impact      Impact
	Actual      string
	Forecast    string
	Previous    string
	EventDate   string // YYYY-MM-DD
	EventTime   string // HH:MM
	Score       float64
	ProcessedAt time.Time
}

// Key is the composite identity shared by every provider feeding the store.
// Keyed on the normalized currency rather than the raw country code, since
// providers disagree on the latter ("US" vs "USD") and a release must keep
// one identity when the fallback feed engages.
func (e *EconomicEvent) Key() string {
	return fmt.Sprintf("%s_%s_%s", e.Currency, e.Title, e.EventDate)
}

// HasActual reports whether the release value has been published.
func (e *EconomicEvent) HasActual() bool { return e.Actual != "" }

// ScoredEvent is the slice of a stored event that time-decay needs.
type ScoredEvent struct {
	Score       float64
	ProcessedAt time.Time
}
