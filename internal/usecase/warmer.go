package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	domrepo "PhasePulse/internal/domain/repository"
	"PhasePulse/pkg/logger"
	"PhasePulse/pkg/queue"
)

const refreshJobType = "bars.refresh"

type refreshPayload struct {
	Symbol      string `json:"symbol"`
	N           int    `json:"n"`
	Granularity int    `json:"granularity"`
}

type refreshJob struct {
	svc *SignalService
}

func (j *refreshJob) Name() string { return "bar-window-refresh" }
func (j *refreshJob) Type() string { return refreshJobType }

func (j *refreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[refreshPayload](payload)
	if err != nil {
		return err
	}
	j.svc.Report(ctx, p.Symbol, p.N, domrepo.NormalizeGranularity(p.Granularity))
	return nil
}

// WarmerConfig tunes the periodic cache warmer.
type WarmerConfig struct {
	Enabled     bool
	Interval    time.Duration
	Symbols     []string
	BarCount    int
	Granularity domrepo.Granularity
}

// Warmer keeps bar windows for the tracked symbols warm, so interactive
// requests rarely pay upstream latency.
type Warmer struct {
	pool    *queue.Pool
	svc     *SignalService
	logger  *logger.Logger
	cfg     WarmerConfig
	ticker  *time.Ticker
	done    chan struct{}
	mu      sync.Mutex
	started bool
}

// NewWarmer creates a warmer over an in-process job pool.
func NewWarmer(pool *queue.Pool, svc *SignalService, log *logger.Logger, cfg WarmerConfig) *Warmer {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BarCount <= 0 {
		cfg.BarCount = 128
	}
	if cfg.Granularity == 0 {
		cfg.Granularity = domrepo.DefaultGranularity()
	}
	return &Warmer{
		pool:   pool,
		svc:    svc,
		logger: log,
		cfg:    cfg,
		done:   make(chan struct{}),
	}
}

// Start registers the refresh job and begins ticking. A disabled warmer
// is a no-op.
func (w *Warmer) Start(ctx context.Context) error {
	if !w.cfg.Enabled || len(w.cfg.Symbols) == 0 {
		w.logger.Info("cache warmer disabled")
		return nil
	}

	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("warmer already started")
	}
	w.started = true
	w.mu.Unlock()

	w.pool.RegisterJob(&refreshJob{svc: w.svc})
	if err := w.pool.Start(); err != nil {
		return err
	}

	w.ticker = time.NewTicker(w.cfg.Interval)
	go w.loop(ctx)

	w.logger.Info("cache warmer started",
		logger.Strings("symbols", w.cfg.Symbols),
		logger.Duration("interval_ms", w.cfg.Interval),
	)
	return nil
}

func (w *Warmer) loop(ctx context.Context) {
	w.enqueueAll(ctx)
	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-w.ticker.C:
			w.enqueueAll(ctx)
		}
	}
}

func (w *Warmer) enqueueAll(ctx context.Context) {
	for _, sym := range w.cfg.Symbols {
		payload := refreshPayload{
			Symbol:      sym,
			N:           w.cfg.BarCount,
			Granularity: int(w.cfg.Granularity),
		}
		if err := w.pool.PublishMessage(ctx, refreshJobType, payload); err != nil {
			w.logger.Warn("warm enqueue failed",
				logger.String("symbol", sym),
				logger.Error(err),
			)
		}
	}
}

// Stop halts ticking and drains the pool.
func (w *Warmer) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	w.mu.Unlock()

	w.ticker.Stop()
	close(w.done)
	return w.pool.Stop(ctx)
}
