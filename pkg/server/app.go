package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "FundPull/internal/domain/repository"
	"FundPull/internal/usecase"
	"FundPull/pkg/cache"
	pkgch "FundPull/pkg/clickhouse"
	"FundPull/pkg/config"
	xhttp "FundPull/pkg/http"
	applogger "FundPull/pkg/logger"
)

// App encapsulates the entire application lifecycle: the HTTP trigger
// surface, the optional internal scheduler and graceful teardown of the
// infrastructure clients.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	runner     *usecase.BiasRunner
	ingest     *usecase.CalendarIngest
	publisher  drepo.Publisher
	chClient   *pkgch.Client
	cache      cache.Service
	httpServer *xhttp.Server
	handler    xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	runner *usecase.BiasRunner,
	ingest *usecase.CalendarIngest,
	publisher drepo.Publisher,
	chClient *pkgch.Client,
	c cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    log,
		runner:    runner,
		ingest:    ingest,
		publisher: publisher,
		chClient:  chClient,
		cache:     c,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.cfg.Scheduler.Enabled {
		go a.runScheduler(ctx)
		a.logger.Info("internal scheduler started",
			applogger.Duration("interval", a.schedulerInterval()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

func (a *App) schedulerInterval() time.Duration {
	if a.cfg.Scheduler.Interval > 0 {
		return a.cfg.Scheduler.Interval
	}
	return time.Hour
}

func (a *App) calendarInterval() time.Duration {
	if a.cfg.Scheduler.CalendarInterval > 0 {
		return a.cfg.Scheduler.CalendarInterval
	}
	return 6 * time.Hour
}

func (a *App) highImpactInterval() time.Duration {
	if a.cfg.Scheduler.HighImpactInterval > 0 {
		return a.cfg.Scheduler.HighImpactInterval
	}
	return 15 * time.Minute
}

// runScheduler drives engine runs when no external cron is wired: a full
// recompute on the main cadence, a calendar refresh on its own cadence, and
// a frequent high-impact check that forces an immediate recompute when a
// high-impact actual just landed. Each run gets its own deadline so a hung
// upstream cannot stall the ticker loop.
func (a *App) runScheduler(ctx context.Context) {
	runTimeout := a.cfg.Engine.RunTimeout
	if runTimeout == 0 {
		runTimeout = 5 * time.Minute
	}

	fullTick := time.NewTicker(a.schedulerInterval())
	defer fullTick.Stop()
	calTick := time.NewTicker(a.calendarInterval())
	defer calTick.Stop()
	highTick := time.NewTicker(a.highImpactInterval())
	defer highTick.Stop()

	fullRun := func(trigger string) {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		report, err := a.runner.Run(runCtx, trigger)
		if err != nil {
			a.logger.Error("scheduled run failed",
				applogger.String("trigger", trigger), applogger.Error(err))
			return
		}
		if report.HighImpact {
			a.logger.Info("high impact release this run",
				applogger.Int("updated", report.UpdatedEvents))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-fullTick.C:
			fullRun("schedule")
		case <-calTick.C:
			runCtx, cancel := context.WithTimeout(ctx, runTimeout)
			_, err := a.ingest.Run(runCtx)
			cancel()
			if err != nil {
				a.logger.Error("scheduled calendar refresh failed", applogger.Error(err))
			}
		case <-highTick.C:
			runCtx, cancel := context.WithTimeout(ctx, runTimeout)
			res, err := a.ingest.RunHighImpact(runCtx)
			cancel()
			if err != nil {
				a.logger.Warn("high impact check failed", applogger.Error(err))
				continue
			}
			if res.HighImpact {
				a.logger.Info("high impact actual landed, recomputing now")
				fullRun("high_impact")
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
