package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"PhasePulse/internal/domain/models"
	domrepo "PhasePulse/internal/domain/repository"
	svcmetrics "PhasePulse/internal/service/metrics"
	"PhasePulse/internal/service/ratelimit"
	"PhasePulse/internal/usecase"
	xhttp "PhasePulse/pkg/http"
	xlogger "PhasePulse/pkg/logger"
	"PhasePulse/pkg/util"
)

// SignalsHandler serves the signal, spectrum, and bars endpoints.
type SignalsHandler struct {
	logger  *xlogger.Logger
	svc     *usecase.SignalService
	rl      *ratelimit.Limiter
	started time.Time
}

func NewSignalsHandler(log *xlogger.Logger, svc *usecase.SignalService) *SignalsHandler {
	svcmetrics.Register()
	return &SignalsHandler{
		logger:  log,
		svc:     svc,
		rl:      ratelimit.New(5, 10),
		started: time.Now(),
	}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/spectrum", h.Spectrum)
	g.GET("/bars", h.Bars)
	e.GET("/healthz", h.Health)
}

// Signal returns the trading signal report for one symbol.
func (h *SignalsHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { svcmetrics.RequestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		svcmetrics.RequestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	report := h.svc.Report(c.Request().Context(), req.Symbol, req.N, domrepo.NormalizeGranularity(req.Granularity))

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=5")
	return xhttp.SuccessResponse(c, report)
}

// Spectrum returns the extended spectral profile for one symbol.
func (h *SignalsHandler) Spectrum(c echo.Context) error {
	start := time.Now()
	endpoint := "spectrum"
	defer func() { svcmetrics.RequestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SpectrumRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		svcmetrics.RequestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	profile := h.svc.Spectrum(c.Request().Context(), req.Symbol, req.N, domrepo.NormalizeGranularity(req.Granularity))

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, profile)
}

// Bars returns the raw bar window the analysis endpoints consume. An
// optional end parameter (RFC3339 or unix seconds) pins the window to a
// historical range.
func (h *SignalsHandler) Bars(c echo.Context) error {
	start := time.Now()
	endpoint := "bars"
	defer func() { svcmetrics.RequestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		svcmetrics.RequestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	g := domrepo.NormalizeGranularity(req.Granularity)
	end := xhttp.ParseTimeDefault(req.End, time.Time{})
	if !end.IsZero() {
		end = util.AlignToGranularity(end.UTC(), int(g))
	}

	window := h.svc.Bars(c.Request().Context(), req.Symbol, req.N, g, end)
	return xhttp.SuccessResponse(c, window)
}

// Health reports process liveness.
func (h *SignalsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *SignalsHandler) allow(c echo.Context, endpoint string) bool {
	if h.rl.Allow(c.RealIP() + ":" + endpoint) {
		return true
	}
	h.logger.Warn("request rate limited",
		xlogger.String("endpoint", endpoint),
		xlogger.String("remote", c.RealIP()),
	)
	return false
}
