package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundPull/internal/domain/models"
	"FundPull/internal/services/scoring"
)

// fakeBiasStore is an in-memory BiasStore.
type fakeBiasStore struct {
	mu        sync.Mutex
	snapshots map[string][]*models.CurrencySnapshot
	pairs     map[string]*models.PairBias
	indices   map[string]*models.IndexBias

	failPair string
}

func newFakeBiasStore() *fakeBiasStore {
	return &fakeBiasStore{
		snapshots: map[string][]*models.CurrencySnapshot{},
		pairs:     map[string]*models.PairBias{},
		indices:   map[string]*models.IndexBias{},
	}
}

func (f *fakeBiasStore) InsertCurrencySnapshot(_ context.Context, s *models.CurrencySnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.snapshots[s.Currency] = append(f.snapshots[s.Currency], &cp)
	return nil
}

func (f *fakeBiasStore) LatestCurrencySnapshot(_ context.Context, currency string) (*models.CurrencySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hist := f.snapshots[currency]
	if len(hist) == 0 {
		return nil, nil
	}
	return hist[len(hist)-1], nil
}

func (f *fakeBiasStore) UpsertPairBias(_ context.Context, b *models.PairBias) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.Pair == f.failPair {
		return errors.New("write failed")
	}
	cp := *b
	f.pairs[b.Pair] = &cp
	return nil
}

func (f *fakeBiasStore) UpsertIndexBias(_ context.Context, b *models.IndexBias) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.indices[b.Instrument] = &cp
	return nil
}

// fakePublisher records published payloads.
type fakePublisher struct {
	mu       sync.Mutex
	payloads []interface{}
	err      error
}

func (f *fakePublisher) PublishBiasUpdate(_ context.Context, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// fakeMarketData returns a fixed snapshot.
type fakeMarketData struct {
	changes  map[string]float64
	warnings []string
}

func (f *fakeMarketData) Snapshot(context.Context) (*models.MarketSnapshot, []string) {
	return &models.MarketSnapshot{Changes: f.changes, FetchedAt: time.Now().UTC()}, f.warnings
}

func newTestRunner(t *testing.T, store *fakeEventStore, bias *fakeBiasStore, pub *fakePublisher, md *fakeMarketData, feed *fakeFeed) *BiasRunner {
	t.Helper()
	metrics := newFakeMetrics()
	tables := scoring.DefaultTables()
	log := testLogger(t)
	ingest := NewCalendarIngest(feed, nil, store, metrics, tables, log)
	return NewBiasRunner(ingest, md, store, bias, pub, metrics, tables, BiasRunnerConfig{}, log)
}

func TestRunProducesFullUniverse(t *testing.T) {
	store := newFakeEventStore()
	bias := newFakeBiasStore()
	pub := &fakePublisher{}
	md := &fakeMarketData{changes: map[string]float64{
		models.TickerWTI: 1.5,
		models.TickerDXY: 1.1,
	}}
	feed := &fakeFeed{name: "test", events: []models.EconomicEvent{
		event("USD", "Non-Farm Employment Change", "2025-08-29", "220K", models.ImpactHigh),
	}}

	runner := newTestRunner(t, store, bias, pub, md, feed)
	report, err := runner.Run(context.Background(), "manual")
	require.NoError(t, err)

	assert.Equal(t, "manual", report.Trigger)
	assert.Equal(t, len(scoring.Currencies), report.Currencies)
	assert.Equal(t, len(scoring.Pairs), report.Pairs)
	assert.Equal(t, len(scoring.Indices), report.Indices)
	assert.Equal(t, 1, report.NewEvents)
	assert.True(t, report.HighImpact)
	assert.Len(t, bias.pairs, len(scoring.Pairs))
	assert.Len(t, bias.indices, len(scoring.Indices))
	assert.NotEmpty(t, report.Drivers)
	assert.Len(t, pub.payloads, 1)
}

func TestRunPairBiasConvention(t *testing.T) {
	store := newFakeEventStore()
	bias := newFakeBiasStore()
	md := &fakeMarketData{changes: map[string]float64{}}
	feed := &fakeFeed{name: "test"}

	runner := newTestRunner(t, store, bias, &fakePublisher{}, md, feed)
	_, err := runner.Run(context.Background(), "cron")
	require.NoError(t, err)

	eurusd := bias.pairs["EURUSD"]
	require.NotNil(t, eurusd)
	usd := bias.snapshots["USD"][0]
	eur := bias.snapshots["EUR"][0]
	assert.InDelta(t, scoring.Round2(usd.TotalScore-eur.TotalScore), eurusd.TotalBias, 1e-9)
}

func TestRunContinuesPastFailedPairWrite(t *testing.T) {
	store := newFakeEventStore()
	bias := newFakeBiasStore()
	bias.failPair = "EURUSD"
	md := &fakeMarketData{changes: map[string]float64{}}
	feed := &fakeFeed{name: "test"}

	runner := newTestRunner(t, store, bias, &fakePublisher{}, md, feed)
	report, err := runner.Run(context.Background(), "cron")
	require.NoError(t, err)

	assert.Equal(t, len(scoring.Pairs)-1, report.Pairs)
	assert.NotEmpty(t, report.Warnings)
	assert.Nil(t, bias.pairs["EURUSD"])
	assert.NotNil(t, bias.pairs["GBPUSD"])
}

func TestRunSmoothsAgainstPreviousRun(t *testing.T) {
	store := newFakeEventStore()
	bias := newFakeBiasStore()
	md := &fakeMarketData{changes: map[string]float64{}}
	feed := &fakeFeed{name: "test"}

	runner := newTestRunner(t, store, bias, &fakePublisher{}, md, feed)
	_, err := runner.Run(context.Background(), "cron")
	require.NoError(t, err)
	first := bias.snapshots["USD"][0].TotalScore

	// inject a big surprise before the second run
	feed.events = []models.EconomicEvent{
		event("USD", "Non-Farm Employment Change", "2025-08-29", "500K", models.ImpactHigh),
	}
	_, err = runner.Run(context.Background(), "cron")
	require.NoError(t, err)
	require.Len(t, bias.snapshots["USD"], 2)
	second := bias.snapshots["USD"][1].TotalScore

	// the blend pulls the published score toward the prior value
	assert.NotEqual(t, first, second)
	assert.Less(t, second-first, 7.0)
}

func TestRunSurvivesCalendarOutage(t *testing.T) {
	store := newFakeEventStore()
	// a stored scored event keeps feeding the aggregate while feeds are down
	seeded := event("USD", "Non-Farm Employment Change", "2025-08-29", "220K", models.ImpactHigh)
	seeded.Score = 0.70
	seeded.ProcessedAt = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, store.InsertEvent(context.Background(), &seeded))

	bias := newFakeBiasStore()
	md := &fakeMarketData{changes: map[string]float64{}}
	feed := &fakeFeed{name: "test", err: errors.New("feed down")}

	runner := newTestRunner(t, store, bias, &fakePublisher{}, md, feed)
	report, err := runner.Run(context.Background(), "cron")
	require.NoError(t, err, "a dead calendar feed must not abort the recompute")

	assert.Equal(t, len(scoring.Currencies), report.Currencies)
	assert.Equal(t, len(scoring.Pairs), report.Pairs)
	assert.Equal(t, len(scoring.Indices), report.Indices)
	assert.Zero(t, report.NewEvents)
	assert.NotEmpty(t, report.Warnings)
	usd := bias.snapshots["USD"][0]
	assert.Positive(t, usd.DataScore, "stored events still drive the data component")
}

func TestRunMarketWarningsPropagate(t *testing.T) {
	store := newFakeEventStore()
	bias := newFakeBiasStore()
	md := &fakeMarketData{changes: map[string]float64{}, warnings: []string{"market data VIX: timeout"}}
	feed := &fakeFeed{name: "test"}

	runner := newTestRunner(t, store, bias, &fakePublisher{}, md, feed)
	report, err := runner.Run(context.Background(), "cron")
	require.NoError(t, err)
	assert.Contains(t, report.Warnings, "market data VIX: timeout")
}

func TestRunPublishFailureIsWarning(t *testing.T) {
	store := newFakeEventStore()
	bias := newFakeBiasStore()
	md := &fakeMarketData{changes: map[string]float64{}}
	feed := &fakeFeed{name: "test"}
	pub := &fakePublisher{err: errors.New("broker down")}

	runner := newTestRunner(t, store, bias, pub, md, feed)
	report, err := runner.Run(context.Background(), "cron")
	require.NoError(t, err)
	assert.Equal(t, len(scoring.Pairs), report.Pairs)
	assert.NotEmpty(t, report.Warnings)
}
