package di

import (
	"fmt"
	"net"

	"PhasePulse/internal/domain/repository"
	domsvc "PhasePulse/internal/domain/service"
	"PhasePulse/internal/handler/api"
	icache "PhasePulse/internal/service/cache"
	"PhasePulse/internal/service/coinbase"
	"PhasePulse/internal/service/ratelimit"
	"PhasePulse/internal/service/synthetic"
	"PhasePulse/internal/services/engine"
	"PhasePulse/internal/usecase"
	"PhasePulse/pkg/breaker"
	"PhasePulse/pkg/cache"
	"PhasePulse/pkg/config"
	xhttp "PhasePulse/pkg/http"
	"PhasePulse/pkg/logger"
	"PhasePulse/pkg/metrics"
	"PhasePulse/pkg/queue"
	"PhasePulse/pkg/server"
	"PhasePulse/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarCache creates the bar window cache. With Redis enabled it is a
// layered memory-over-Redis cache shared across replicas; otherwise a
// process-local memory cache.
func ProvideBarCache(cfg *config.Config) (cache.Service, error) {
	memOpts := []cache.MemoryOption{}
	if cfg.Cache.MemoryMaxSize > 0 {
		memOpts = append(memOpts, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}

	host, port := splitAddr(cfg.Cache.Redis.Addr)
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	layered := []cache.LayeredOption{}
	if cfg.Cache.MemoryMaxSize > 0 {
		layered = append(layered, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
	}
	return cache.NewLayeredCache(rc, layered...), nil
}

// ProvideSpectrumCache creates the byte cache for rendered spectrum profiles.
func ProvideSpectrumCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideRateLimiter creates the upstream request limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Market.RateLimitRPS, cfg.Market.RateLimitBurst)
}

// ProvideBreaker creates the circuit breaker guarding the exchange API.
func ProvideBreaker() *breaker.Breaker {
	return breaker.New("coinbase")
}

// ProvideBarSource creates the live exchange bar source.
func ProvideBarSource(
	cfg *config.Config,
	lim *ratelimit.Limiter,
	brk *breaker.Breaker,
	log *logger.Logger,
) repository.BarSource {
	return coinbase.New(cfg.Market.BaseURL, cfg.Market.RequestTimeout, lim, brk, log)
}

// ProvideFallback creates the deterministic synthetic generator used when
// the live source cannot serve a window.
func ProvideFallback(cfg *config.Config) *synthetic.Generator {
	opts := []synthetic.Option{}
	if cfg.Synthetic.Seed != 0 {
		opts = append(opts, synthetic.WithSeed(cfg.Synthetic.Seed))
	}
	if cfg.Synthetic.BasePrice > 0 {
		opts = append(opts, synthetic.WithBasePrice(cfg.Synthetic.BasePrice))
	}
	if cfg.Synthetic.Volatility > 0 {
		opts = append(opts, synthetic.WithVolatility(cfg.Synthetic.Volatility))
	}
	if cfg.Synthetic.DriftPeriod > 0 && cfg.Synthetic.DriftAmplitude > 0 {
		opts = append(opts, synthetic.WithDrift(cfg.Synthetic.DriftPeriod, cfg.Synthetic.DriftAmplitude))
	}
	return synthetic.New(opts...)
}

// ProvideEngine creates the signal engine.
func ProvideEngine(cfg *config.Config) domsvc.SignalEngine {
	return engine.New(engine.Params{
		MinWindow:            cfg.Engine.MinWindow,
		VWAPWindow:           cfg.Engine.VWAPWindow,
		DeviationThreshold:   cfg.Engine.DeviationThreshold,
		PhaseGate:            cfg.Engine.PhaseGate,
		ConfidenceSaturation: cfg.Engine.ConfidenceSaturation,
	})
}

// ProvideAnalyzer creates the spectrum analyzer.
func ProvideAnalyzer(cfg *config.Config) domsvc.SpectrumAnalyzer {
	return engine.NewProfiler(cfg.Engine.MinWindow)
}

// ProvideSignalService creates the signal use case.
func ProvideSignalService(
	source repository.BarSource,
	fallback *synthetic.Generator,
	eng domsvc.SignalEngine,
	analyzer domsvc.SpectrumAnalyzer,
	barCache cache.Service,
	spectrumCache icache.BytesCache,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.SignalService {
	return usecase.NewSignalService(source, fallback, eng, analyzer, barCache, spectrumCache, m, log,
		usecase.Options{
			DefaultSymbol: cfg.Market.DefaultSymbol,
			BarsTTL:       cfg.Cache.BarsTTL,
			SpectrumTTL:   cfg.Cache.SpectrumTTL,
		})
}

// ProvidePool creates the background worker pool.
func ProvidePool(log *logger.Logger, cfg *config.Config) *queue.Pool {
	return queue.NewPool(log, &queue.QueueConfig{
		Workers:   cfg.Warmup.Workers,
		QueueSize: cfg.Warmup.QueueSize,
	})
}

// ProvideWarmer creates the cache warmer.
func ProvideWarmer(
	pool *queue.Pool,
	svc *usecase.SignalService,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.Warmer {
	return usecase.NewWarmer(pool, svc, log, usecase.WarmerConfig{
		Enabled:     cfg.Warmup.Enabled,
		Interval:    cfg.Warmup.Interval,
		Symbols:     cfg.Symbols,
		BarCount:    cfg.Market.BarCount,
		Granularity: repository.NormalizeGranularity(cfg.Market.Granularity),
	})
}

// ProvideHandler creates the HTTP route handler.
func ProvideHandler(log *logger.Logger, svc *usecase.SignalService) xhttp.Handler {
	return api.NewSignalsHandler(log, svc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler xhttp.Handler,
	warmer *usecase.Warmer,
	log *logger.Logger,
) *server.App {
	return server.New(cfg, handler, warmer, log)
}

// splitAddr breaks host:port apart, tolerating a bare host.
func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	return host, util.ParseIntDefault(portStr, 6379)
}
