package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FundPull/internal/domain/models"
	pkgch "FundPull/pkg/clickhouse"
	applogger "FundPull/pkg/logger"
)

// CHBiasStore implements BiasStore backed by ClickHouse. currency_scores is
// append-only (every hourly snapshot is history); fundamental_bias and
// index_bias are ReplacingMergeTree keyed by instrument so reads see only
// the latest published row.
type CHBiasStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBiasStore(ch *pkgch.Client) *CHBiasStore {
	return &CHBiasStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBiasStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBiasStore) InsertCurrencySnapshot(ctx context.Context, snap *models.CurrencySnapshot) error {
	const q = `
        INSERT INTO fundpull.currency_scores
            (window_start, window_end, currency, data_score, cb_tone_score,
             commodity_score, market_score, rate_diff_score, total_score, notes,
             created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, q,
		snap.WindowStart, snap.WindowEnd, snap.Currency,
		snap.DataScore, snap.CBToneScore, snap.CommodityScore,
		snap.MarketScore, snap.RateDiffScore, snap.TotalScore,
		strings.Join(snap.Notes, "; "),
		snap.CreatedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse insert_snapshot error",
				applogger.String("currency", snap.Currency),
				applogger.Error(err))
		}
		return fmt.Errorf("insert currency snapshot: %w", err)
	}
	return nil
}

func (s *CHBiasStore) LatestCurrencySnapshot(ctx context.Context, currency string) (*models.CurrencySnapshot, error) {
	const q = `
        SELECT window_start, window_end, currency, data_score, cb_tone_score,
               commodity_score, market_score, rate_diff_score, total_score, notes,
               created_at
        FROM fundpull.currency_scores
        WHERE currency = ?
        ORDER BY window_start DESC, created_at DESC
        LIMIT 1
    `
	var snap models.CurrencySnapshot
	var notes string
	err := s.db.QueryRowContext(ctx, q, currency).Scan(
		&snap.WindowStart, &snap.WindowEnd, &snap.Currency,
		&snap.DataScore, &snap.CBToneScore, &snap.CommodityScore,
		&snap.MarketScore, &snap.RateDiffScore, &snap.TotalScore, &notes,
		&snap.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_snapshot error",
				applogger.String("currency", currency),
				applogger.Error(err))
		}
		return nil, fmt.Errorf("latest currency snapshot: %w", err)
	}
	if notes != "" {
		snap.Notes = strings.Split(notes, "; ")
	}
	return &snap, nil
}

func (s *CHBiasStore) UpsertPairBias(ctx context.Context, b *models.PairBias) error {
	start := time.Now()
	const q = `
        INSERT INTO fundpull.fundamental_bias
            (pair, base_currency, quote_currency, base_score, quote_score,
             total_bias, bias_text, summary, confidence, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		b.Pair, b.BaseCurrency, b.QuoteCurrency, b.BaseScore, b.QuoteScore,
		b.TotalBias, b.BiasText, b.Summary, b.Confidence, b.UpdatedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse upsert_pair error",
				applogger.String("pair", b.Pair),
				applogger.Error(err))
		}
		return fmt.Errorf("upsert pair bias: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse upsert_pair ok",
			applogger.String("pair", b.Pair),
			applogger.Duration("duration_ms", time.Since(start)))
	}
	return nil
}

func (s *CHBiasStore) UpsertIndexBias(ctx context.Context, b *models.IndexBias) error {
	const q = `
        INSERT INTO fundpull.index_bias
            (instrument, currency, score, bias_text, summary, confidence, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		b.Instrument, b.Currency, b.Score, b.BiasText, b.Summary, b.Confidence, b.UpdatedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse upsert_index error",
				applogger.String("instrument", b.Instrument),
				applogger.Error(err))
		}
		return fmt.Errorf("upsert index bias: %w", err)
	}
	return nil
}
