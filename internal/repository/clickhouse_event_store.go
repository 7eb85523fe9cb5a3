package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FundPull/internal/domain/models"
	domrepo "FundPull/internal/domain/repository"
	pkgch "FundPull/pkg/clickhouse"
	applogger "FundPull/pkg/logger"
)

// CHEventStore implements EventStore backed by ClickHouse. forex_events is a
// ReplacingMergeTree keyed by event_id with version = processed_at, so
// "update" is a versioned re-insert and reads take the latest row (FINAL).
type CHEventStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHEventStore(ch *pkgch.Client) *CHEventStore {
	return &CHEventStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHEventStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHEventStore) ListKnownEvents(ctx context.Context) (map[string]domrepo.KnownEvent, error) {
	start := time.Now()
	const q = `
        SELECT event_id, actual, impact
        FROM fundpull.forex_events FINAL
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_events query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("list known events: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domrepo.KnownEvent, 1024)
	for rows.Next() {
		var key, actual, impact string
		if err := rows.Scan(&key, &actual, &impact); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse list_events scan error", applogger.Error(err))
			}
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out[key] = domrepo.KnownEvent{Actual: actual, Impact: models.Impact(impact)}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse list_events ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)))
	}
	return out, nil
}

func (s *CHEventStore) InsertEvent(ctx context.Context, e *models.EconomicEvent) error {
	const q = `
        INSERT INTO fundpull.forex_events
            (event_id, country, currency, title, impact, actual, forecast, previous,
             event_date, event_time, score, processed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	processedAt := e.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, q,
		e.Key(), e.Country, e.Currency, e.Title, string(e.Impact),
		e.Actual, e.Forecast, e.Previous, e.EventDate, e.EventTime,
		e.Score, processedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse insert_event error",
				applogger.String("event_id", e.Key()),
				applogger.Error(err))
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// UpdateEventActual re-inserts the row with the published actual and score;
// the replacing merge keeps the newest version per event_id.
func (s *CHEventStore) UpdateEventActual(ctx context.Context, key, actual string, score float64) error {
	const sel = `
        SELECT country, currency, title, impact, forecast, previous, event_date, event_time
        FROM fundpull.forex_events FINAL
        WHERE event_id = ?
    `
	var e models.EconomicEvent
	var impact string
	err := s.db.QueryRowContext(ctx, sel, key).Scan(
		&e.Country, &e.Currency, &e.Title, &impact,
		&e.Forecast, &e.Previous, &e.EventDate, &e.EventTime,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse update_event lookup error",
				applogger.String("event_id", key),
				applogger.Error(err))
		}
		return fmt.Errorf("update event lookup: %w", err)
	}
	e.Impact = models.Impact(impact)
	e.Actual = actual
	e.Score = score
	e.ProcessedAt = time.Now().UTC()
	return s.InsertEvent(ctx, &e)
}

func (s *CHEventStore) ScoredEvents(ctx context.Context, currency string, since time.Time) ([]models.ScoredEvent, error) {
	start := time.Now()
	const q = `
        SELECT score, processed_at
        FROM fundpull.forex_events FINAL
        WHERE currency = ? AND actual != '' AND processed_at >= ?
        ORDER BY processed_at DESC
    `
	rows, err := s.db.QueryContext(ctx, q, currency, since)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse scored_events query error",
				applogger.String("currency", currency),
				applogger.Error(err))
		}
		return nil, fmt.Errorf("scored events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ScoredEvent, 0, 128)
	for rows.Next() {
		var se models.ScoredEvent
		if err := rows.Scan(&se.Score, &se.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan scored event: %w", err)
		}
		out = append(out, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse scored_events ok",
			applogger.String("currency", currency),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)))
	}
	return out, nil
}

func (s *CHEventStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
