package usecase

import (
	"context"
	"fmt"
	"time"

	"FundPull/internal/domain/models"
	drepo "FundPull/internal/domain/repository"
	dservice "FundPull/internal/domain/service"
	"FundPull/internal/services/scoring"
	"FundPull/pkg/logger"
)

// IngestResult partitions one feed batch by what the store did with each row.
type IngestResult struct {
	New        int
	Updated    int
	Skipped    int
	Failed     int
	HighImpact bool
	// Currencies touched by inserts or updates this batch.
	Currencies map[string]bool
}

// CalendarIngest deduplicates provider batches against the event store and
// scores releases the moment their actual value lands.
type CalendarIngest struct {
	primary  dservice.CalendarFeed
	fallback dservice.CalendarFeed
	store    drepo.EventStore
	metrics  drepo.Metrics
	tables   *scoring.Tables
	logger   *logger.Logger
}

func NewCalendarIngest(
	primary, fallback dservice.CalendarFeed,
	store drepo.EventStore,
	metrics drepo.Metrics,
	tables *scoring.Tables,
	log *logger.Logger,
) *CalendarIngest {
	return &CalendarIngest{
		primary:  primary,
		fallback: fallback,
		store:    store,
		metrics:  metrics,
		tables:   tables,
		logger:   log,
	}
}

// Run fetches the calendar (falling back to the backup feed when the primary
// fails or comes back empty) and applies the batch idempotently.
func (c *CalendarIngest) Run(ctx context.Context) (*IngestResult, error) {
	events, feed, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordEvents(feed, "fetched", len(events))

	res, err := c.Apply(ctx, events)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordEvents(feed, "new", res.New)
	c.metrics.RecordEvents(feed, "updated", res.Updated)
	return res, nil
}

// RunHighImpact is the cheap intra-hour variant: same fetch, but only
// high-impact rows are applied. Lower-impact rows are left for the next
// full refresh to pick up.
func (c *CalendarIngest) RunHighImpact(ctx context.Context) (*IngestResult, error) {
	events, feed, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	high := events[:0]
	for _, e := range events {
		if e.Impact == models.ImpactHigh {
			high = append(high, e)
		}
	}
	c.metrics.RecordEvents(feed, "fetched", len(high))

	res, err := c.Apply(ctx, high)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordEvents(feed, "new", res.New)
	c.metrics.RecordEvents(feed, "updated", res.Updated)
	return res, nil
}

func (c *CalendarIngest) fetch(ctx context.Context) ([]models.EconomicEvent, string, error) {
	events, err := c.primary.Fetch(ctx)
	if err == nil && len(events) > 0 {
		return events, c.primary.Name(), nil
	}
	if err != nil {
		c.metrics.RecordFetchError(c.primary.Name())
		c.logger.Warn("primary calendar feed failed",
			logger.String("feed", c.primary.Name()), logger.Error(err))
	}
	if c.fallback == nil {
		if err != nil {
			return nil, "", fmt.Errorf("calendar fetch: %w", err)
		}
		return events, c.primary.Name(), nil
	}

	events, err = c.fallback.Fetch(ctx)
	if err != nil {
		c.metrics.RecordFetchError(c.fallback.Name())
		return nil, "", fmt.Errorf("calendar fetch (all feeds): %w", err)
	}
	return events, c.fallback.Name(), nil
}

// Apply reconciles a batch against the store. Per event key:
//   - unknown key: insert, scored if the actual is already published
//   - known key without a stored actual, batch has one: score and update
//   - anything else: skip
//
// Replaying the same batch is a no-op.
func (c *CalendarIngest) Apply(ctx context.Context, events []models.EconomicEvent) (*IngestResult, error) {
	known, err := c.store.ListKnownEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list known events: %w", err)
	}

	res := &IngestResult{Currencies: make(map[string]bool)}
	now := time.Now().UTC()

	// A batch can repeat a key (feed glitches do this); first occurrence wins.
	seen := make(map[string]bool, len(events))

	for i := range events {
		e := &events[i]
		key := e.Key()
		if seen[key] {
			res.Skipped++
			continue
		}
		seen[key] = true

		stored, exists := known[key]
		switch {
		case !exists:
			if e.HasActual() {
				e.Score = scoring.ScoreEvent(e.Actual, e.Forecast, e.Title, e.Impact.Weight(), c.tables)
				e.ProcessedAt = now
			}
			if err := c.store.InsertEvent(ctx, e); err != nil {
				// One bad row must not sink the batch; the next refresh retries it.
				c.logger.Warn("event insert failed",
					logger.String("event", key), logger.Error(err))
				res.Failed++
				continue
			}
			if e.HasActual() && e.Impact == models.ImpactHigh {
				res.HighImpact = true
			}
			res.New++
			res.Currencies[e.Currency] = true

		case stored.Actual == "" && e.HasActual():
			score := scoring.ScoreEvent(e.Actual, e.Forecast, e.Title, e.Impact.Weight(), c.tables)
			if err := c.store.UpdateEventActual(ctx, key, e.Actual, score); err != nil {
				c.logger.Warn("event update failed",
					logger.String("event", key), logger.Error(err))
				res.Failed++
				continue
			}
			if e.Impact == models.ImpactHigh || stored.Impact == models.ImpactHigh {
				res.HighImpact = true
			}
			res.Updated++
			res.Currencies[e.Currency] = true

		default:
			res.Skipped++
		}
	}

	c.logger.Info("calendar batch applied",
		logger.Int("new", res.New),
		logger.Int("updated", res.Updated),
		logger.Int("skipped", res.Skipped),
		logger.Int("failed", res.Failed),
		logger.Bool("high_impact", res.HighImpact))
	return res, nil
}
