package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundPull/internal/domain/models"
)

func newMockBiasStore(t *testing.T) (*CHBiasStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &CHBiasStore{db: db}, mock
}

func TestInsertCurrencySnapshotStampsCreatedAt(t *testing.T) {
	store, mock := newMockBiasStore(t)
	mock.ExpectExec("INSERT INTO fundpull.currency_scores").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	snap := &models.CurrencySnapshot{
		WindowStart: now.Truncate(time.Hour),
		WindowEnd:   now.Truncate(time.Hour).Add(time.Hour),
		Currency:    "USD",
		TotalScore:  4.5,
	}
	require.NoError(t, store.InsertCurrencySnapshot(context.Background(), snap))
	assert.False(t, snap.CreatedAt.IsZero(), "insert must stamp a tie-breaking timestamp")
	require.NoError(t, mock.ExpectationsWereMet())
}

// Two runs in one hour share a truncated window_start; the read must break
// the tie on insertion time so smoothing sees the later run.
func TestLatestCurrencySnapshotBreaksWindowTies(t *testing.T) {
	store, mock := newMockBiasStore(t)

	now := time.Now().UTC()
	window := now.Truncate(time.Hour)
	cols := []string{
		"window_start", "window_end", "currency", "data_score", "cb_tone_score",
		"commodity_score", "market_score", "rate_diff_score", "total_score",
		"notes", "created_at",
	}
	mock.ExpectQuery(`ORDER BY window_start DESC, created_at DESC`).
		WithArgs("USD").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			window, window.Add(time.Hour), "USD",
			1.0, 3.0, 0.0, 0.0, 1.88, 5.88,
			"CB: hawkish", now,
		))

	snap, err := store.LatestCurrencySnapshot(context.Background(), "USD")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 5.88, snap.TotalScore)
	assert.Equal(t, now, snap.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestCurrencySnapshotNoRows(t *testing.T) {
	store, mock := newMockBiasStore(t)
	mock.ExpectQuery("FROM fundpull.currency_scores").
		WithArgs("NZD").
		WillReturnRows(sqlmock.NewRows(nil))

	snap, err := store.LatestCurrencySnapshot(context.Background(), "NZD")
	require.NoError(t, err)
	assert.Nil(t, snap)
}
