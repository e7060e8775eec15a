package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhasePulse/internal/domain/models"
	domrepo "PhasePulse/internal/domain/repository"
	icache "PhasePulse/internal/service/cache"
	"PhasePulse/internal/service/synthetic"
	"PhasePulse/internal/services/engine"
	"PhasePulse/pkg/cache"
	"PhasePulse/pkg/logger"
)

type scriptedSource struct {
	mu    sync.Mutex
	bars  []models.MarketBar
	err   error
	calls int
}

func (s *scriptedSource) FetchWindow(_ context.Context, _ string, _ int, _ domrepo.Granularity, _ time.Time) ([]models.MarketBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.bars, nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingMetrics struct {
	mu        sync.Mutex
	signals   []string
	fallbacks int
	errs      []string
}

func (m *recordingMetrics) RecordSignal(_, decision string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, decision)
}

func (m *recordingMetrics) RecordFallback(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks++
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, kind)
}

func (m *recordingMetrics) RecordLatency(string, float64)     {}
func (m *recordingMetrics) RecordDeviation(string, float64)   {}
func (m *recordingMetrics) RecordEquilibrium(string, float64) {}

func toneBars(n int) []models.MarketBar {
	bars := make([]models.MarketBar, n)
	for i := range bars {
		c := 100 + 5*math.Sin(2*math.Pi*8*float64(i)/float64(n))
		bars[i] = models.MarketBar{Close: c, High: c + 1, Low: c - 1, Volume: 100}
	}
	return bars
}

func newTestService(t *testing.T, source *scriptedSource, m *recordingMetrics) *SignalService {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	return NewSignalService(
		source,
		synthetic.New(synthetic.WithSeed(1)),
		engine.New(engine.Params{}),
		engine.NewProfiler(0),
		cache.NewMemoryCache(),
		icache.NewTTLCache(),
		m,
		log,
		Options{DefaultSymbol: "BTC-USD", BarsTTL: time.Minute, SpectrumTTL: time.Minute},
	)
}

func TestReportUsesLiveSource(t *testing.T) {
	source := &scriptedSource{bars: toneBars(128)}
	m := &recordingMetrics{}
	svc := newTestService(t, source, m)

	report := svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	assert.True(t, report.IsLiveData)
	assert.Equal(t, "ETH-USD", report.Symbol)
	assert.Len(t, report.PSD, 64)
	assert.Equal(t, 1, source.callCount())
	assert.Equal(t, []string{string(report.Signal)}, m.signals)
	assert.Zero(t, m.fallbacks)
}

func TestReportFallsBackToSynthetic(t *testing.T) {
	source := &scriptedSource{err: errors.New("upstream down")}
	m := &recordingMetrics{}
	svc := newTestService(t, source, m)

	report := svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	assert.False(t, report.IsLiveData)
	assert.NotEmpty(t, report.PSD, "synthetic window is large enough to analyze")
	assert.Equal(t, 1, m.fallbacks)
	assert.Equal(t, []string{"fetch"}, m.errs)
}

func TestReportFallbackIsDeterministic(t *testing.T) {
	source := &scriptedSource{err: errors.New("upstream down")}
	svc := newTestService(t, source, &recordingMetrics{})

	a := svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)
	b := svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	b.Timestamp = a.Timestamp
	assert.Equal(t, a, b)
}

func TestReportCachesLiveWindows(t *testing.T) {
	source := &scriptedSource{bars: toneBars(128)}
	svc := newTestService(t, source, &recordingMetrics{})

	_ = svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)
	_ = svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	assert.Equal(t, 1, source.callCount(), "second report served from cache")
}

func TestReportDoesNotCacheSyntheticWindows(t *testing.T) {
	source := &scriptedSource{err: errors.New("upstream down")}
	svc := newTestService(t, source, &recordingMetrics{})

	_ = svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)
	_ = svc.Report(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	assert.Equal(t, 2, source.callCount(), "failed windows are retried, not cached")
}

func TestResolveSymbol(t *testing.T) {
	svc := newTestService(t, &scriptedSource{bars: toneBars(64)}, &recordingMetrics{})

	assert.Equal(t, "ETH-USD", svc.ResolveSymbol("ETH-USD"))
	assert.Equal(t, "ETH-USD", svc.ResolveSymbol("  eth-usd "))
	assert.Equal(t, "BTC-USD", svc.ResolveSymbol(""))
	assert.Equal(t, "BTC-USD", svc.ResolveSymbol("not a symbol"))
	assert.Equal(t, "BTC-USD", svc.ResolveSymbol("../../etc/passwd"))
}

func TestSpectrumCachesRenderedProfile(t *testing.T) {
	source := &scriptedSource{bars: toneBars(128)}
	svc := newTestService(t, source, &recordingMetrics{})

	a := svc.Spectrum(context.Background(), "ETH-USD", 128, domrepo.Gran1h)
	b := svc.Spectrum(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	assert.Equal(t, 1, source.callCount(), "second profile served from byte cache")
	assert.Equal(t, a, b, "cached profile round-trips intact")
	assert.Equal(t, 8, a.DominantBin)
	assert.True(t, a.IsLiveData)
}

func TestSpectrumSkipsCacheForSynthetic(t *testing.T) {
	source := &scriptedSource{err: errors.New("upstream down")}
	svc := newTestService(t, source, &recordingMetrics{})

	a := svc.Spectrum(context.Background(), "ETH-USD", 128, domrepo.Gran1h)

	assert.False(t, a.IsLiveData)
	_ = svc.Spectrum(context.Background(), "ETH-USD", 128, domrepo.Gran1h)
	assert.Equal(t, 2, source.callCount(), "synthetic profiles are not cached")
}

func TestBarsWithExplicitEndBypassesCache(t *testing.T) {
	source := &scriptedSource{bars: toneBars(64)}
	svc := newTestService(t, source, &recordingMetrics{})
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	w1 := svc.Bars(context.Background(), "ETH-USD", 64, domrepo.Gran1h, end)
	w2 := svc.Bars(context.Background(), "ETH-USD", 64, domrepo.Gran1h, end)

	require.Len(t, w1.Bars, 64)
	assert.True(t, w1.IsLiveData)
	assert.Equal(t, w1.Bars, w2.Bars)
	assert.Equal(t, 2, source.callCount(), "historical windows are never cached")
}

func TestBarsReportsWindowShape(t *testing.T) {
	source := &scriptedSource{bars: toneBars(32)}
	svc := newTestService(t, source, &recordingMetrics{})

	w := svc.Bars(context.Background(), "eth-usd", 32, domrepo.Gran5m, time.Time{})

	assert.Equal(t, "ETH-USD", w.Symbol)
	assert.Equal(t, 300, w.Granularity)
	assert.Len(t, w.Bars, 32)
}
