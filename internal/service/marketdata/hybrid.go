package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FundPull/internal/domain/models"
	dservice "FundPull/internal/domain/service"
	"FundPull/internal/service/ratelimit"
	"FundPull/pkg/cache"
	"FundPull/pkg/logger"
)

const (
	cacheKeySpace = "market"
	// regime detection keys off the 7-day move
	windowDays = 7

	// one burst covers the whole basket, then refills slowly
	limiterCapacity = 10
	limiterRefill   = 5.0 / 60.0 // 5 calls per minute per provider
)

// HybridService fans out to the primary provider and falls back to the
// secondary per ticker. Percent changes are cached so repeated hourly runs
// inside the TTL reuse one upstream round-trip. A ticker that fails on both
// providers contributes a zero change, never an aborted run.
type HybridService struct {
	primary    dservice.MarketSource
	fallback   dservice.MarketSource
	cache      cache.Service
	limiter    *ratelimit.Limiter
	logger     *logger.Logger
	cacheTTL   time.Duration
	perCallTTL time.Duration
}

func NewHybridService(
	primary, fallback dservice.MarketSource,
	c cache.Service,
	limiter *ratelimit.Limiter,
	log *logger.Logger,
	cacheTTL time.Duration,
) *HybridService {
	return &HybridService{
		primary:    primary,
		fallback:   fallback,
		cache:      c,
		limiter:    limiter,
		logger:     log,
		cacheTTL:   cacheTTL,
		perCallTTL: 10 * time.Second,
	}
}

// Snapshot fetches trailing percent changes for the whole ticker set.
// The returned warnings list one entry per ticker that fell back to zero.
func (s *HybridService) Snapshot(ctx context.Context) (*models.MarketSnapshot, []string) {
	snap := &models.MarketSnapshot{
		Changes:   make(map[string]float64, len(models.MarketTickers)),
		FetchedAt: time.Now().UTC(),
	}

	type result struct {
		ticker  string
		change  float64
		warning string
	}
	ch := make(chan result, len(models.MarketTickers))
	var wg sync.WaitGroup

	for _, ticker := range models.MarketTickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			change, err := s.changeFor(ctx, ticker)
			if err != nil {
				ch <- result{ticker: ticker, warning: fmt.Sprintf("market data %s: %v", ticker, err)}
				return
			}
			ch <- result{ticker: ticker, change: change}
		}(ticker)
	}
	go func() { wg.Wait(); close(ch) }()

	var warnings []string
	for r := range ch {
		snap.Changes[r.ticker] = r.change
		if r.warning != "" {
			warnings = append(warnings, r.warning)
			s.logger.Warn("market ticker defaulted to zero", logger.String("ticker", r.ticker))
		}
	}
	return snap, warnings
}

func (s *HybridService) changeFor(ctx context.Context, ticker string) (float64, error) {
	key := cache.GenerateKey(cacheKeySpace, ticker)
	var cached float64
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	change, err := s.fetchChange(ctx, ticker)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, key, change, s.cacheTTL); err != nil {
		s.logger.Warn("market cache write failed", logger.String("ticker", ticker), logger.Error(err))
	}
	return change, nil
}

func (s *HybridService) fetchChange(ctx context.Context, ticker string) (float64, error) {
	var firstErr error
	for _, src := range []dservice.MarketSource{s.primary, s.fallback} {
		if src == nil {
			continue
		}
		if !s.limiter.Allow(src.Name(), limiterCapacity, limiterRefill) {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: rate limited", src.Name())
			}
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, s.perCallTTL)
		latest, earliest, err := src.PriceWindow(callCtx, ticker, windowDays)
		cancel()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn("market source failed",
				logger.String("source", src.Name()),
				logger.String("ticker", ticker),
				logger.Error(err))
			continue
		}
		return percentChange(latest, earliest, ticker), nil
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no market source configured")
	}
	return 0, firstErr
}

// percentChange computes the trailing move. Treasury yields are quoted as
// an absolute change in percentage points, not a relative move.
func percentChange(latest, earliest float64, ticker string) float64 {
	if ticker == models.TickerUST10Y {
		return latest - earliest
	}
	if earliest == 0 {
		return 0
	}
	return (latest - earliest) / earliest * 100
}
