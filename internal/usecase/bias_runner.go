package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FundPull/internal/domain/models"
	drepo "FundPull/internal/domain/repository"
	dservice "FundPull/internal/domain/service"
	"FundPull/internal/services/scoring"
	"FundPull/pkg/logger"
)

// BiasRunnerConfig carries the engine tunables.
type BiasRunnerConfig struct {
	Alpha         float64
	HalfLifeHours float64
	// ReadWindow bounds how far back scored events are pulled for decay.
	ReadWindow time.Duration
}

// BiasRunner executes one full engine pass: refresh the calendar, pull market
// moves, rebuild every currency aggregate and publish pair and index biases.
type BiasRunner struct {
	ingest    *CalendarIngest
	market    dservice.MarketData
	events    drepo.EventStore
	bias      drepo.BiasStore
	publisher drepo.Publisher
	metrics   drepo.Metrics
	tables    *scoring.Tables
	cfg       BiasRunnerConfig
	logger    *logger.Logger
}

func NewBiasRunner(
	ingest *CalendarIngest,
	market dservice.MarketData,
	events drepo.EventStore,
	bias drepo.BiasStore,
	publisher drepo.Publisher,
	metrics drepo.Metrics,
	tables *scoring.Tables,
	cfg BiasRunnerConfig,
	log *logger.Logger,
) *BiasRunner {
	if cfg.Alpha == 0 {
		cfg.Alpha = scoring.DefaultAlpha
	}
	if cfg.HalfLifeHours == 0 {
		cfg.HalfLifeHours = scoring.HalfLifeHours
	}
	if cfg.ReadWindow == 0 {
		cfg.ReadWindow = 21 * 24 * time.Hour
	}
	return &BiasRunner{
		ingest:    ingest,
		market:    market,
		events:    events,
		bias:      bias,
		publisher: publisher,
		metrics:   metrics,
		tables:    tables,
		cfg:       cfg,
		logger:    log,
	}
}

// Run performs one engine pass. Input and per-entity failures downgrade to
// report warnings; the fixed universe is recomputed every pass regardless.
func (r *BiasRunner) Run(ctx context.Context, trigger string) (*models.RunReport, error) {
	start := time.Now().UTC()
	report := &models.RunReport{Trigger: trigger, StartedAt: start}

	ingestRes, snapshot, warnings := r.gatherInputs(ctx)
	report.Warnings = warnings
	report.NewEvents = ingestRes.New
	report.UpdatedEvents = ingestRes.Updated
	report.SkippedEvents = ingestRes.Skipped
	report.HighImpact = ingestRes.HighImpact

	regime := scoring.DetectRegime(snapshot)
	now := time.Now().UTC()
	since := now.Add(-r.cfg.ReadWindow)

	snaps := make(map[string]*models.CurrencySnapshot, len(scoring.Currencies))
	for _, ccy := range scoring.Currencies {
		snap, err := r.scoreCurrency(ctx, ccy, snapshot, regime, now, since)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("currency %s: %v", ccy, err))
			continue
		}
		snaps[ccy] = snap
		report.Currencies++
		r.metrics.RecordCurrencyScore(ccy, snap.TotalScore)
	}

	for _, p := range scoring.Pairs {
		base, quote := snaps[p.Base], snaps[p.Quote]
		if base == nil || quote == nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("pair %s%s: missing currency aggregate", p.Base, p.Quote))
			continue
		}
		pb := scoring.ComposePairBias(p, base, quote, now)
		if err := r.bias.UpsertPairBias(ctx, &pb); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("pair %s: %v", pb.Pair, err))
			continue
		}
		report.Pairs++
	}

	for _, idx := range scoring.Indices {
		ib := scoring.ComposeIndexBias(idx, snapshot, snaps[idx.Currency], now)
		if err := r.bias.UpsertIndexBias(ctx, &ib); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("index %s: %v", ib.Instrument, err))
			continue
		}
		report.Indices++
	}

	report.Drivers = marketDrivers(snapshot, regime)
	report.Duration = time.Since(start)

	r.publish(ctx, report, regime)

	r.metrics.RecordRun(trigger, "ok")
	r.metrics.RecordLatency("bias_run", report.Duration.Seconds())
	r.logger.Info("bias run complete",
		logger.String("trigger", trigger),
		logger.String("regime", string(regime)),
		logger.Int("currencies", report.Currencies),
		logger.Int("pairs", report.Pairs),
		logger.Int("indices", report.Indices),
		logger.Int("warnings", len(report.Warnings)),
		logger.Duration("took", report.Duration))
	return report, nil
}

// gatherInputs runs the calendar refresh and the market snapshot in parallel.
// Neither aborts the run: a failed refresh means no new events this pass and
// the recompute proceeds from stored events; a failed snapshot degrades to
// zero changes.
func (r *BiasRunner) gatherInputs(ctx context.Context) (*IngestResult, *models.MarketSnapshot, []string) {
	var (
		wg         sync.WaitGroup
		ingestRes  *IngestResult
		ingestErr  error
		snapshot   *models.MarketSnapshot
		mdWarnings []string
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ingestRes, ingestErr = r.ingest.Run(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		snapshot, mdWarnings = r.market.Snapshot(ctx)
	}()
	wg.Wait()

	var warnings []string
	if ingestErr != nil {
		r.logger.Warn("calendar refresh failed, recomputing from stored events", logger.Error(ingestErr))
		warnings = append(warnings, fmt.Sprintf("calendar refresh: %v", ingestErr))
		ingestRes = &IngestResult{Currencies: map[string]bool{}}
	}
	if snapshot == nil {
		snapshot = &models.MarketSnapshot{Changes: map[string]float64{}, FetchedAt: time.Now().UTC()}
		warnings = append(warnings, "market snapshot unavailable, using zero changes")
	}
	return ingestRes, snapshot, append(warnings, mdWarnings...)
}

func (r *BiasRunner) scoreCurrency(
	ctx context.Context,
	ccy string,
	snapshot *models.MarketSnapshot,
	regime models.Regime,
	now, since time.Time,
) (*models.CurrencySnapshot, error) {
	events, err := r.events.ScoredEvents(ctx, ccy, since)
	if err != nil {
		return nil, fmt.Errorf("scored events: %w", err)
	}

	var prev *float64
	last, err := r.bias.LatestCurrencySnapshot(ctx, ccy)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	if last != nil {
		prev = &last.TotalScore
	}

	snap := scoring.AggregateCurrency(ccy, events, snapshot, regime, prev, r.tables, now, r.cfg.Alpha, r.cfg.HalfLifeHours)
	if err := r.bias.InsertCurrencySnapshot(ctx, &snap); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return &snap, nil
}

func (r *BiasRunner) publish(ctx context.Context, report *models.RunReport, regime models.Regime) {
	if r.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"trigger":     report.Trigger,
		"regime":      string(regime),
		"pairs":       report.Pairs,
		"indices":     report.Indices,
		"high_impact": report.HighImpact,
		"updated_at":  report.StartedAt.Format(time.RFC3339),
	}
	if err := r.publisher.PublishBiasUpdate(ctx, payload); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("publish: %v", err))
		r.logger.Warn("bias update publish failed", logger.Error(err))
	}
}

// marketDrivers distills the snapshot into a qualitative driver board.
func marketDrivers(m *models.MarketSnapshot, regime models.Regime) []models.MarketDriver {
	drivers := []models.MarketDriver{
		{
			Name:   "Risk Sentiment",
			Status: string(regime),
			Detail: fmt.Sprintf("VIX %+.1f%%, SPX %+.1f%%", m.Change(models.TickerVIX), m.Change(models.TickerSPX)),
		},
		{
			Name:   "US Dollar",
			Status: trendWord(m.Change(models.TickerDXY), scoring.MoveThreshold),
			Detail: fmt.Sprintf("DXY %+.1f%%", m.Change(models.TickerDXY)),
		},
		{
			Name:   "Oil",
			Status: trendWord(m.Change(models.TickerWTI), scoring.MoveThreshold),
			Detail: fmt.Sprintf("WTI %+.1f%%", m.Change(models.TickerWTI)),
		},
		{
			Name:   "Yields",
			Status: trendWord(m.Change(models.TickerUST10Y), scoring.YieldThreshold),
			Detail: fmt.Sprintf("10Y %+.2fpp", m.Change(models.TickerUST10Y)),
		},
		{
			Name:   "Gold",
			Status: trendWord(m.Change(models.TickerGold), scoring.MoveThreshold),
			Detail: fmt.Sprintf("Gold %+.1f%%", m.Change(models.TickerGold)),
		},
	}
	return drivers
}

func trendWord(change, threshold float64) string {
	switch {
	case change >= threshold:
		return "rising"
	case change <= -threshold:
		return "falling"
	default:
		return "flat"
	}
}
