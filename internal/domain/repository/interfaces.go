package repository

import (
	"context"
	"time"

	"FundPull/internal/domain/models"
)

// KnownEvent is what dedup needs from an already-stored event.
type KnownEvent struct {
	Actual string
	Impact models.Impact
}

// EventStore persists calendar releases keyed by the composite event key.
type EventStore interface {
	// ListKnownEvents returns key -> stored state for all events in the store.
	ListKnownEvents(ctx context.Context) (map[string]KnownEvent, error)
	InsertEvent(ctx context.Context, e *models.EconomicEvent) error
	// UpdateEventActual is the only mutation allowed on a stored event.
	UpdateEventActual(ctx context.Context, key, actual string, score float64) error
	// ScoredEvents returns score + processed_at for a currency's events with
	// a published actual, newer than since.
	ScoredEvents(ctx context.Context, currency string, since time.Time) ([]models.ScoredEvent, error)
	Health(ctx context.Context) error
}

// BiasStore persists the engine's published outputs.
type BiasStore interface {
	InsertCurrencySnapshot(ctx context.Context, s *models.CurrencySnapshot) error
	// LatestCurrencySnapshot returns nil without error when no prior run exists.
	LatestCurrencySnapshot(ctx context.Context, currency string) (*models.CurrencySnapshot, error)
	UpsertPairBias(ctx context.Context, b *models.PairBias) error
	UpsertIndexBias(ctx context.Context, b *models.IndexBias) error
}

// Publisher pushes bias updates to downstream consumers (dashboard refresh).
type Publisher interface {
	PublishBiasUpdate(ctx context.Context, payload interface{}) error
	Close() error
}

// Metrics records engine observability signals.
type Metrics interface {
	RecordRun(trigger, result string)
	RecordEvents(provider, kind string, n int)
	RecordFetchError(source string)
	RecordCurrencyScore(currency string, score float64)
	RecordLatency(op string, seconds float64)
}
