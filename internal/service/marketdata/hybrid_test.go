package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundPull/internal/domain/models"
	"FundPull/internal/service/ratelimit"
	"FundPull/pkg/cache"
	"FundPull/pkg/logger"
)

// fakeSource serves fixed price windows, failing tickers listed in fail.
type fakeSource struct {
	mu      sync.Mutex
	name    string
	windows map[string][2]float64 // ticker -> {latest, earliest}
	fail    map[string]bool
	calls   int
	days    int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) PriceWindow(_ context.Context, ticker string, days int) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.days = days
	if f.fail[ticker] {
		return 0, 0, errors.New("upstream error")
	}
	w, ok := f.windows[ticker]
	if !ok {
		return 0, 0, errors.New("unknown ticker")
	}
	return w[0], w[1], nil
}

func mdLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func flatWindows() map[string][2]float64 {
	w := make(map[string][2]float64, len(models.MarketTickers))
	for _, ticker := range models.MarketTickers {
		w[ticker] = [2]float64{100, 100}
	}
	return w
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 2.0, percentChange(102, 100, models.TickerDXY), 1e-9)
	assert.InDelta(t, -5.0, percentChange(95, 100, models.TickerSPX), 1e-9)
	assert.Zero(t, percentChange(95, 0, models.TickerSPX))

	// yields move in percentage points, not relative percent
	assert.InDelta(t, 0.15, percentChange(4.40, 4.25, models.TickerUST10Y), 1e-9)
}

func TestSnapshotCoversAllTickers(t *testing.T) {
	windows := flatWindows()
	windows[models.TickerWTI] = [2]float64{103, 100}
	src := &fakeSource{name: "primary", windows: windows}

	svc := NewHybridService(src, nil, cache.NewMemoryCache(), ratelimit.New(), mdLogger(t), time.Minute)
	snap, warnings := svc.Snapshot(context.Background())

	assert.Empty(t, warnings)
	assert.Len(t, snap.Changes, len(models.MarketTickers))
	assert.InDelta(t, 3.0, snap.Change(models.TickerWTI), 1e-9)
	assert.Zero(t, snap.Change(models.TickerSPX))
	// regime detection is defined on the 7-day move
	assert.Equal(t, 7, src.days)
}

func TestSnapshotFallsBackPerTicker(t *testing.T) {
	primary := &fakeSource{
		name:    "primary",
		windows: flatWindows(),
		fail:    map[string]bool{models.TickerVIX: true},
	}
	fbWindows := flatWindows()
	fbWindows[models.TickerVIX] = [2]float64{25, 20}
	fallback := &fakeSource{name: "fallback", windows: fbWindows}

	svc := NewHybridService(primary, fallback, cache.NewMemoryCache(), ratelimit.New(), mdLogger(t), time.Minute)
	snap, warnings := svc.Snapshot(context.Background())

	assert.Empty(t, warnings)
	assert.InDelta(t, 25.0, snap.Change(models.TickerVIX), 1e-9)
}

func TestSnapshotFailedTickerDefaultsToZero(t *testing.T) {
	primary := &fakeSource{
		name:    "primary",
		windows: flatWindows(),
		fail:    map[string]bool{models.TickerGold: true},
	}

	svc := NewHybridService(primary, nil, cache.NewMemoryCache(), ratelimit.New(), mdLogger(t), time.Minute)
	snap, warnings := svc.Snapshot(context.Background())

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], models.TickerGold)
	assert.Zero(t, snap.Change(models.TickerGold))
	// the rest of the board still filled in
	assert.Len(t, snap.Changes, len(models.MarketTickers))
}

func TestSnapshotReusesCachedChanges(t *testing.T) {
	src := &fakeSource{name: "primary", windows: flatWindows()}
	svc := NewHybridService(src, nil, cache.NewMemoryCache(), ratelimit.New(), mdLogger(t), time.Minute)

	_, _ = svc.Snapshot(context.Background())
	first := src.calls
	_, _ = svc.Snapshot(context.Background())

	assert.Equal(t, first, src.calls, "second snapshot should be served from cache")
}
