package usecase

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"PhasePulse/internal/domain/models"
	domrepo "PhasePulse/internal/domain/repository"
	domsvc "PhasePulse/internal/domain/service"
	icache "PhasePulse/internal/service/cache"
	"PhasePulse/internal/service/synthetic"
	"PhasePulse/pkg/cache"
	"PhasePulse/pkg/logger"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}-[A-Z0-9]{1,6}$`)

// Options tunes SignalService behavior.
type Options struct {
	DefaultSymbol string
	BarsTTL       time.Duration
	SpectrumTTL   time.Duration
}

func (o *Options) withDefaults() {
	if o.DefaultSymbol == "" {
		o.DefaultSymbol = "BTC-USD"
	}
	if o.BarsTTL <= 0 {
		o.BarsTTL = 30 * time.Second
	}
	if o.SpectrumTTL <= 0 {
		o.SpectrumTTL = 60 * time.Second
	}
}

// SignalService resolves market windows and runs the analysis stack over
// them. Every request path is total: whatever the upstream does, the
// caller gets a report.
type SignalService struct {
	source   domrepo.BarSource
	fallback *synthetic.Generator
	engine   domsvc.SignalEngine
	analyzer domsvc.SpectrumAnalyzer
	cache    cache.Service
	spectrum icache.BytesCache
	metrics  domrepo.Metrics
	logger   *logger.Logger
	opts     Options
}

// NewSignalService wires the window resolution chain with the engine.
func NewSignalService(
	source domrepo.BarSource,
	fallback *synthetic.Generator,
	engine domsvc.SignalEngine,
	analyzer domsvc.SpectrumAnalyzer,
	cacheSvc cache.Service,
	spectrumCache icache.BytesCache,
	metrics domrepo.Metrics,
	log *logger.Logger,
	opts Options,
) *SignalService {
	opts.withDefaults()
	return &SignalService{
		source:   source,
		fallback: fallback,
		engine:   engine,
		analyzer: analyzer,
		cache:    cacheSvc,
		spectrum: spectrumCache,
		metrics:  metrics,
		logger:   log,
		opts:     opts,
	}
}

// Report computes a trading signal report for one symbol.
func (s *SignalService) Report(ctx context.Context, symbol string, n int, g domrepo.Granularity) models.SignalReport {
	start := time.Now()
	sym := s.ResolveSymbol(symbol)

	bars, live := s.window(ctx, sym, n, g, time.Time{})
	report := s.engine.Compute(sym, bars, live)

	s.metrics.RecordSignal(sym, string(report.Signal))
	s.metrics.RecordDeviation(sym, report.Deviation)
	s.metrics.RecordEquilibrium(sym, report.Equilibrium)
	s.metrics.RecordLatency("report", time.Since(start).Seconds())

	s.logger.Debug("signal computed",
		logger.String("symbol", sym),
		logger.String("signal", string(report.Signal)),
		logger.Float64("deviation", report.Deviation),
		logger.Bool("live", live),
	)
	return report
}

// Spectrum computes the extended spectral profile for one symbol.
// Rendered profiles are cached as bytes so repeated dashboard polls skip
// the transform.
func (s *SignalService) Spectrum(ctx context.Context, symbol string, n int, g domrepo.Granularity) models.SpectrumProfile {
	start := time.Now()
	sym := s.ResolveSymbol(symbol)

	key := cache.GenerateKeyWithParams("spectrum", sym, int(g), n)
	if b, ok, err := s.spectrum.GetBytes(key); err == nil && ok {
		var profile models.SpectrumProfile
		if json.Unmarshal(b, &profile) == nil {
			s.metrics.RecordLatency("spectrum", time.Since(start).Seconds())
			return profile
		}
	}

	bars, live := s.window(ctx, sym, n, g, time.Time{})
	profile := s.analyzer.Profile(sym, bars, live)

	if live {
		if b, err := json.Marshal(profile); err == nil {
			if err := s.spectrum.SetBytes(key, b, s.opts.SpectrumTTL); err != nil {
				s.logger.Warn("spectrum cache set failed", logger.Error(err))
			}
		}
	}
	s.metrics.RecordLatency("spectrum", time.Since(start).Seconds())
	return profile
}

// Bars returns the raw window the analysis endpoints would consume.
func (s *SignalService) Bars(ctx context.Context, symbol string, n int, g domrepo.Granularity, end time.Time) models.BarWindow {
	start := time.Now()
	sym := s.ResolveSymbol(symbol)

	bars, live := s.window(ctx, sym, n, g, end)
	s.metrics.RecordLatency("bars", time.Since(start).Seconds())

	return models.BarWindow{
		Symbol:      sym,
		Granularity: int(g),
		Bars:        bars,
		IsLiveData:  live,
	}
}

// ResolveSymbol normalizes a raw symbol and substitutes the default for
// anything that does not look like a product ID. Unknown symbols never
// reject a request.
func (s *SignalService) ResolveSymbol(symbol string) string {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if symbolPattern.MatchString(sym) {
		return sym
	}
	if sym != "" {
		s.logger.Debug("unrecognized symbol, using default",
			logger.String("symbol", symbol),
			logger.String("default", s.opts.DefaultSymbol),
		)
	}
	return s.opts.DefaultSymbol
}

// window resolves a bar window: cache, then live source, then synthetic.
// Only current live windows are cached; historical windows (explicit end)
// and synthetic ones are rebuilt per request.
func (s *SignalService) window(ctx context.Context, symbol string, n int, g domrepo.Granularity, end time.Time) ([]models.MarketBar, bool) {
	current := end.IsZero()
	key := cache.GenerateKeyWithParams("bars", symbol, int(g), n)

	if current {
		var cached []models.MarketBar
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, true
		}
	}

	bars, err := s.source.FetchWindow(ctx, symbol, n, g, end)
	if err == nil && len(bars) > 0 {
		if current {
			if err := s.cache.Set(ctx, key, bars, s.opts.BarsTTL); err != nil {
				s.logger.Warn("bar cache set failed", logger.Error(err))
			}
		}
		return bars, true
	}

	if err != nil {
		s.logger.Warn("live window unavailable, synthesizing",
			logger.String("symbol", symbol),
			logger.Error(err),
		)
		s.metrics.RecordError("fetch")
	}
	s.metrics.RecordFallback(symbol)

	synth, _ := s.fallback.FetchWindow(ctx, symbol, n, g, end)
	return synth, false
}
