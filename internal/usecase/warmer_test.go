package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "PhasePulse/internal/domain/repository"
	"PhasePulse/pkg/logger"
	"PhasePulse/pkg/queue"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func newTestWarmer(t *testing.T, svc *SignalService, cfg WarmerConfig) *Warmer {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	pool := queue.NewPool(log, &queue.QueueConfig{Workers: 2, QueueSize: 16})
	return NewWarmer(pool, svc, log, cfg)
}

func TestWarmerWarmsTrackedSymbols(t *testing.T) {
	source := &scriptedSource{bars: toneBars(128)}
	svc := newTestService(t, source, &recordingMetrics{})
	w := newTestWarmer(t, svc, WarmerConfig{
		Enabled:  true,
		Interval: time.Hour,
		Symbols:  []string{"BTC-USD", "ETH-USD"},
		BarCount: 128,
	})

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop(context.Background()) }()

	waitFor(t, 2*time.Second, func() bool { return source.callCount() == 2 })

	// Interactive request now rides the warmed cache.
	_ = svc.Report(context.Background(), "BTC-USD", 128, domrepo.Gran1h)
	assert.Equal(t, 2, source.callCount())
}

func TestWarmerDisabledIsNoop(t *testing.T) {
	source := &scriptedSource{bars: toneBars(128)}
	svc := newTestService(t, source, &recordingMetrics{})
	w := newTestWarmer(t, svc, WarmerConfig{Enabled: false, Symbols: []string{"BTC-USD"}})

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop(context.Background()))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, source.callCount())
}

func TestWarmerStartTwiceFails(t *testing.T) {
	source := &scriptedSource{bars: toneBars(64)}
	svc := newTestService(t, source, &recordingMetrics{})
	w := newTestWarmer(t, svc, WarmerConfig{Enabled: true, Interval: time.Hour, Symbols: []string{"BTC-USD"}})

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop(context.Background()) }()

	assert.Error(t, w.Start(context.Background()))
}
