package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheTypedRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "market:WTI", 1.5, time.Minute))
	var f float64
	require.NoError(t, mc.Get(ctx, "market:WTI", &f))
	assert.InDelta(t, 1.5, f, 1e-9)

	require.NoError(t, mc.Set(ctx, "regime", "risk_off", time.Minute))
	var s string
	require.NoError(t, mc.Get(ctx, "regime", &s))
	assert.Equal(t, "risk_off", s)
}

func TestMemoryCacheStructRoundTrip(t *testing.T) {
	type payload struct {
		Pair string  `json:"pair"`
		Bias float64 `json:"bias"`
	}
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "bias", payload{Pair: "EURUSD", Bias: 2.5}, time.Minute))
	var out payload
	require.NoError(t, mc.Get(ctx, "bias", &out))
	assert.Equal(t, "EURUSD", out.Pair)
	assert.InDelta(t, 2.5, out.Bias, 1e-9)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var f float64
	err := mc.Get(context.Background(), "absent", &f)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(10 * time.Millisecond))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", 1.0, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var f float64
	assert.ErrorIs(t, mc.Get(ctx, "k", &f), ErrCacheMiss)
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mc.Delete(ctx, "k"))
	ok, err = mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1.0, time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", 2.0, time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", 3.0, time.Minute))

	ok, err := mc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry should be evicted")
}
