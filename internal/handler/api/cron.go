package api

import (
	"net/http"
	"strings"

	models "FundPull/internal/domain/models"
	domrepo "FundPull/internal/domain/repository"
	"FundPull/internal/usecase"
	xhttp "FundPull/pkg/http"
	xlogger "FundPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CronHandler exposes the engine triggers over HTTP. The hourly-bias endpoint
// is what the external scheduler calls; calendar-refresh exists for cheap
// intra-hour refreshes that skip the full recompute.
type CronHandler struct {
	logger *xlogger.Logger
	runner *usecase.BiasRunner
	ingest *usecase.CalendarIngest
	events domrepo.EventStore
	secret string
}

func NewCronHandler(
	logger *xlogger.Logger,
	runner *usecase.BiasRunner,
	ingest *usecase.CalendarIngest,
	events domrepo.EventStore,
	secret string,
) *CronHandler {
	return &CronHandler{logger: logger, runner: runner, ingest: ingest, events: events, secret: secret}
}

func (h *CronHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/cron", h.authorize)
	g.POST("/hourly-bias", h.HourlyBias)
	g.POST("/calendar-refresh", h.CalendarRefresh)
	e.GET("/healthz", h.Healthz)
}

// authorize enforces the shared bearer secret when one is configured.
func (h *CronHandler) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.secret == "" {
			return next(c)
		}
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || token != h.secret {
			return xhttp.UnauthorizedResponse(c, "invalid cron token")
		}
		return next(c)
	}
}

func (h *CronHandler) HourlyBias(c echo.Context) error {
	req := &models.CronRunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Trigger == "" {
		req.Trigger = "cron"
	}

	report, err := h.runner.Run(c.Request().Context(), req.Trigger)
	if err != nil {
		h.logger.Error("bias run failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("bias run failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *CronHandler) CalendarRefresh(c echo.Context) error {
	req := &models.CalendarRefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	run := h.ingest.Run
	if req.HighImpactOnly {
		run = h.ingest.RunHighImpact
	}
	res, err := run(c.Request().Context())
	if err != nil {
		h.logger.Error("calendar refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("calendar refresh failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"new":         res.New,
		"updated":     res.Updated,
		"skipped":     res.Skipped,
		"high_impact": res.HighImpact,
	})
}

func (h *CronHandler) Healthz(c echo.Context) error {
	if err := h.events.Health(c.Request().Context()); err != nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
