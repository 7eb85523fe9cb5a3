package service

import (
	"context"

	"FundPull/internal/domain/models"
)

// CalendarFeed normalizes one provider's raw calendar into canonical events.
// Implementations return an empty slice (never an error that aborts the run)
// on malformed content; transport failures are returned as errors for the
// caller to degrade on.
type CalendarFeed interface {
	Name() string
	Fetch(ctx context.Context) ([]models.EconomicEvent, error)
}

// MarketSource returns the latest and earliest close price for a ticker
// within a trailing window of days.
type MarketSource interface {
	Name() string
	PriceWindow(ctx context.Context, ticker string, days int) (latest, earliest float64, err error)
}

// MarketData assembles the full ticker snapshot, degrading per ticker.
// Warnings carry one entry per ticker that defaulted to a zero change.
type MarketData interface {
	Snapshot(ctx context.Context) (*models.MarketSnapshot, []string)
}
