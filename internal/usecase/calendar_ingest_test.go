package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundPull/internal/domain/models"
	drepo "FundPull/internal/domain/repository"
	"FundPull/internal/services/scoring"
	"FundPull/pkg/logger"
)

// fakeEventStore is an in-memory EventStore.
type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*models.EconomicEvent

	listErr error
	failKey string
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]*models.EconomicEvent)}
}

func (f *fakeEventStore) ListKnownEvents(context.Context) (map[string]drepo.KnownEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]drepo.KnownEvent, len(f.events))
	for k, e := range f.events {
		out[k] = drepo.KnownEvent{Actual: e.Actual, Impact: e.Impact}
	}
	return out, nil
}

func (f *fakeEventStore) InsertEvent(_ context.Context, e *models.EconomicEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.Key() == f.failKey {
		return errors.New("write failed")
	}
	cp := *e
	f.events[e.Key()] = &cp
	return nil
}

func (f *fakeEventStore) UpdateEventActual(_ context.Context, key, actual string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[key]
	if !ok {
		return errors.New("not found")
	}
	e.Actual = actual
	e.Score = score
	e.ProcessedAt = time.Now().UTC()
	return nil
}

func (f *fakeEventStore) ScoredEvents(_ context.Context, currency string, since time.Time) ([]models.ScoredEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ScoredEvent
	for _, e := range f.events {
		if e.Currency == currency && e.Actual != "" && e.ProcessedAt.After(since) {
			out = append(out, models.ScoredEvent{Score: e.Score, ProcessedAt: e.ProcessedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProcessedAt.After(out[j].ProcessedAt) })
	return out, nil
}

func (f *fakeEventStore) Health(context.Context) error { return nil }

// fakeMetrics counts recorder calls.
type fakeMetrics struct {
	mu     sync.Mutex
	runs   map[string]int
	events map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: map[string]int{}, events: map[string]int{}}
}

func (m *fakeMetrics) RecordRun(trigger, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[trigger+"/"+result]++
}

func (m *fakeMetrics) RecordEvents(provider, kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[provider+"/"+kind] += n
}

func (m *fakeMetrics) RecordFetchError(string)            {}
func (m *fakeMetrics) RecordCurrencyScore(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)       {}

// fakeFeed returns a canned batch or an error.
type fakeFeed struct {
	name   string
	events []models.EconomicEvent
	err    error
}

func (f *fakeFeed) Name() string { return f.name }
func (f *fakeFeed) Fetch(context.Context) ([]models.EconomicEvent, error) {
	return f.events, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func event(country, title, date, actual string, impact models.Impact) models.EconomicEvent {
	return models.EconomicEvent{
		Country:   country,
		Currency:  country,
		Title:     title,
		Impact:    impact,
		Actual:    actual,
		Forecast:  "200K",
		EventDate: date,
	}
}

func TestApplyInsertsNewEvents(t *testing.T) {
	store := newFakeEventStore()
	ingest := NewCalendarIngest(nil, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	batch := []models.EconomicEvent{
		event("USD", "Non-Farm Employment Change", "2025-08-29", "", models.ImpactHigh),
		event("EUR", "CPI y/y", "2025-08-29", "2.1%", models.ImpactMedium),
	}
	res, err := ingest.Apply(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, res.New)
	assert.Zero(t, res.Updated)
	assert.False(t, res.HighImpact, "pending high-impact event has no actual yet")
	assert.True(t, res.Currencies["USD"])
	assert.True(t, res.Currencies["EUR"])

	// pending event stored unscored
	pending := store.events["USD_Non-Farm Employment Change_2025-08-29"]
	require.NotNil(t, pending)
	assert.Zero(t, pending.Score)
}

func TestApplyScoresArrivingActual(t *testing.T) {
	store := newFakeEventStore()
	ingest := NewCalendarIngest(nil, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	pending := event("USD", "Non-Farm Employment Change", "2025-08-29", "", models.ImpactHigh)
	_, err := ingest.Apply(context.Background(), []models.EconomicEvent{pending})
	require.NoError(t, err)

	published := pending
	published.Actual = "220K"
	res, err := ingest.Apply(context.Background(), []models.EconomicEvent{published})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.New)
	assert.True(t, res.HighImpact)

	stored := store.events[published.Key()]
	assert.Equal(t, "220K", stored.Actual)
	assert.InDelta(t, 0.70, stored.Score, 0.01)
}

func TestApplyIdempotent(t *testing.T) {
	store := newFakeEventStore()
	ingest := NewCalendarIngest(nil, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	batch := []models.EconomicEvent{
		event("USD", "CPI m/m", "2025-08-28", "0.3%", models.ImpactHigh),
	}
	_, err := ingest.Apply(context.Background(), batch)
	require.NoError(t, err)
	firstScore := store.events[batch[0].Key()].Score

	res, err := ingest.Apply(context.Background(), batch)
	require.NoError(t, err)
	assert.Zero(t, res.New)
	assert.Zero(t, res.Updated)
	assert.Equal(t, 1, res.Skipped)
	assert.False(t, res.HighImpact)
	assert.Equal(t, firstScore, store.events[batch[0].Key()].Score)
	assert.Len(t, store.events, 1)
}

func TestApplyDuplicateKeysInBatch(t *testing.T) {
	store := newFakeEventStore()
	ingest := NewCalendarIngest(nil, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	e := event("GBP", "Official Bank Rate", "2025-08-29", "4.00%", models.ImpactHigh)
	res, err := ingest.Apply(context.Background(), []models.EconomicEvent{e, e})
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
	assert.Equal(t, 1, res.Skipped)
}

func TestRunFallsBackToSecondaryFeed(t *testing.T) {
	store := newFakeEventStore()
	primary := &fakeFeed{name: "primary", err: errors.New("boom")}
	fallback := &fakeFeed{name: "backup", events: []models.EconomicEvent{
		event("CAD", "Employment Change", "2025-08-29", "25K", models.ImpactHigh),
	}}
	ingest := NewCalendarIngest(primary, fallback, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	res, err := ingest.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
}

func TestRunFallsBackOnEmptyPrimary(t *testing.T) {
	store := newFakeEventStore()
	primary := &fakeFeed{name: "primary"}
	fallback := &fakeFeed{name: "backup", events: []models.EconomicEvent{
		event("AUD", "Cash Rate", "2025-08-29", "3.85%", models.ImpactHigh),
	}}
	ingest := NewCalendarIngest(primary, fallback, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	res, err := ingest.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
}

func TestApplyContinuesPastFailedWrite(t *testing.T) {
	store := newFakeEventStore()
	first := event("USD", "CPI m/m", "2025-08-28", "0.3%", models.ImpactHigh)
	second := event("EUR", "CPI y/y", "2025-08-28", "2.1%", models.ImpactMedium)
	store.failKey = first.Key()

	ingest := NewCalendarIngest(nil, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))
	res, err := ingest.Apply(context.Background(), []models.EconomicEvent{first, second})
	require.NoError(t, err, "one bad row must not sink the batch")
	assert.Equal(t, 1, res.New)
	assert.Equal(t, 1, res.Failed)
	assert.NotNil(t, store.events[second.Key()], "rows after the failure still land")
	assert.Nil(t, store.events[first.Key()])
}

func TestApplyKeysCrossProviderIdentity(t *testing.T) {
	store := newFakeEventStore()
	ingest := NewCalendarIngest(nil, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	// Primary feed publishes the pending release with a currency-style
	// country code; the backup uses the two-letter form.
	pending := event("USD", "Non-Farm Employment Change", "2025-08-29", "", models.ImpactHigh)
	_, err := ingest.Apply(context.Background(), []models.EconomicEvent{pending})
	require.NoError(t, err)

	published := pending
	published.Country = "US"
	published.Actual = "220K"
	res, err := ingest.Apply(context.Background(), []models.EconomicEvent{published})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.New, "same release from the backup provider must not fork identity")
	assert.Len(t, store.events, 1)
}

func TestRunHighImpactFiltersLowerRows(t *testing.T) {
	store := newFakeEventStore()
	primary := &fakeFeed{name: "primary", events: []models.EconomicEvent{
		event("USD", "Non-Farm Employment Change", "2025-08-29", "220K", models.ImpactHigh),
		event("EUR", "German Factory Orders", "2025-08-29", "1.2%", models.ImpactMedium),
		event("JPY", "Household Spending", "2025-08-29", "0.5%", models.ImpactLow),
	}}
	ingest := NewCalendarIngest(primary, nil, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	res, err := ingest.RunHighImpact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
	assert.True(t, res.HighImpact)
	assert.Len(t, store.events, 1)
}

func TestRunAllFeedsFail(t *testing.T) {
	store := newFakeEventStore()
	primary := &fakeFeed{name: "primary", err: errors.New("down")}
	fallback := &fakeFeed{name: "backup", err: errors.New("also down")}
	ingest := NewCalendarIngest(primary, fallback, store, newFakeMetrics(), scoring.DefaultTables(), testLogger(t))

	_, err := ingest.Run(context.Background())
	assert.Error(t, err)
}
