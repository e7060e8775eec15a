package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhasePulse/internal/domain/models"
	domrepo "PhasePulse/internal/domain/repository"
	icache "PhasePulse/internal/service/cache"
	"PhasePulse/internal/service/synthetic"
	"PhasePulse/internal/services/engine"
	"PhasePulse/internal/usecase"
	"PhasePulse/pkg/cache"
	"PhasePulse/pkg/logger"
	"PhasePulse/pkg/metrics"
)

type fakeSource struct {
	bars []models.MarketBar
	err  error
}

func (f *fakeSource) FetchWindow(_ context.Context, _ string, _ int, _ domrepo.Granularity, _ time.Time) ([]models.MarketBar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

var recorder = metrics.New()

func toneBars(n int) []models.MarketBar {
	bars := make([]models.MarketBar, n)
	for i := range bars {
		c := 100 + 5*math.Sin(2*math.Pi*8*float64(i)/float64(n))
		bars[i] = models.MarketBar{Close: c, High: c + 1, Low: c - 1, Volume: 100}
	}
	return bars
}

func newTestServer(t *testing.T, source *fakeSource) *echo.Echo {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	svc := usecase.NewSignalService(
		source,
		synthetic.New(synthetic.WithSeed(1)),
		engine.New(engine.Params{}),
		engine.NewProfiler(0),
		cache.NewMemoryCache(),
		icache.NewTTLCache(),
		recorder,
		log,
		usecase.Options{DefaultSymbol: "BTC-USD", BarsTTL: time.Minute, SpectrumTTL: time.Minute},
	)

	e := echo.New()
	NewSignalsHandler(log, svc).RegisterRoutes(e)
	return e
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doGET(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func TestSignalEndpointReturnsReport(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(128)})

	rec, env := doGET(t, e, "/api/signal?symbol=ETH-USD&n=128")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, env.Status)

	var report models.SignalReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "ETH-USD", report.Symbol)
	assert.Contains(t, []models.Signal{models.SignalBuy, models.SignalSell, models.SignalHold}, report.Signal)
	assert.Len(t, report.PSD, 64)
	assert.True(t, report.IsLiveData)
	assert.Equal(t, "private, max-age=5", rec.Header().Get(echo.HeaderCacheControl))
}

func TestSignalEndpointAppliesDefaults(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(128)})

	_, env := doGET(t, e, "/api/signal")

	require.Equal(t, http.StatusOK, env.Status)
	var report models.SignalReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "BTC-USD", report.Symbol, "missing symbol resolves to the default")
	assert.Len(t, report.PSD, 64, "default n of 128 truncates to 128 and keeps 64 bins")
}

func TestSignalEndpointSubstitutesUnknownSymbol(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	_, env := doGET(t, e, "/api/signal?symbol=DROP+TABLE+bars")

	require.Equal(t, http.StatusOK, env.Status)
	var report models.SignalReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "BTC-USD", report.Symbol)
}

func TestSignalEndpointRejectsOutOfRangeN(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	rec, env := doGET(t, e, "/api/signal?n=500")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Contains(t, string(env.Data), "ERR_LTE")
}

func TestSignalEndpointRejectsBadGranularity(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	_, env := doGET(t, e, "/api/signal?granularity=1234")

	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Contains(t, string(env.Data), "ERR_ONEOF")
}

func TestSignalEndpointFallsBackWhenSourceFails(t *testing.T) {
	e := newTestServer(t, &fakeSource{err: errors.New("upstream down")})

	_, env := doGET(t, e, "/api/signal?symbol=ETH-USD")

	require.Equal(t, http.StatusOK, env.Status)
	var report models.SignalReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.False(t, report.IsLiveData)
	assert.NotEmpty(t, report.PSD)
}

func TestSpectrumEndpointReturnsProfile(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(128)})

	rec, env := doGET(t, e, "/api/spectrum?symbol=ETH-USD&n=128")

	require.Equal(t, http.StatusOK, env.Status)
	var profile models.SpectrumProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 8, profile.DominantBin)
	assert.Equal(t, 128, profile.AnalysisLength)
	assert.InDelta(t, 16.0, profile.DominantPeriod, 1e-9)
	assert.Equal(t, "private, max-age=30", rec.Header().Get(echo.HeaderCacheControl))
}

func TestBarsEndpointReturnsWindow(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	_, env := doGET(t, e, "/api/bars?symbol=ETH-USD&n=64&granularity=300")

	require.Equal(t, http.StatusOK, env.Status)
	var window models.BarWindow
	require.NoError(t, json.Unmarshal(env.Data, &window))
	assert.Equal(t, "ETH-USD", window.Symbol)
	assert.Equal(t, 300, window.Granularity)
	assert.Len(t, window.Bars, 64)
	assert.True(t, window.IsLiveData)
}

func TestBarsEndpointAcceptsHistoricalEnd(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	_, env := doGET(t, e, "/api/bars?symbol=ETH-USD&end=2025-06-01T12:30:00Z")

	require.Equal(t, http.StatusOK, env.Status)
	var window models.BarWindow
	require.NoError(t, json.Unmarshal(env.Data, &window))
	assert.Len(t, window.Bars, 64)
}

func TestBarsEndpointIgnoresMalformedEnd(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	_, env := doGET(t, e, "/api/bars?symbol=ETH-USD&end=yesterday")

	assert.Equal(t, http.StatusOK, env.Status, "malformed end falls back to the current window")
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t, &fakeSource{bars: toneBars(64)})

	_, env := doGET(t, e, "/healthz")

	require.Equal(t, http.StatusOK, env.Status)
	assert.Contains(t, string(env.Data), `"status":"ok"`)
}
