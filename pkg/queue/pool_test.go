package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhasePulse/pkg/logger"
)

type countingJob struct {
	name    string
	msgType string
	calls   atomic.Int64
	fails   atomic.Int64
	failFor int64
	gotSym  atomic.Value
}

type testPayload struct {
	Symbol string `json:"symbol"`
}

func (j *countingJob) Name() string { return j.name }
func (j *countingJob) Type() string { return j.msgType }

func (j *countingJob) Handle(_ context.Context, payload interface{}) error {
	j.calls.Add(1)
	if p, err := ParsePayload[testPayload](payload); err == nil {
		j.gotSym.Store(p.Symbol)
	}
	if j.fails.Load() < j.failFor {
		j.fails.Add(1)
		return errors.New("transient")
	}
	return nil
}

func newTestPool(t *testing.T, cfg *QueueConfig) *Pool {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return NewPool(log, cfg)
}

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

func TestPoolProcessesMessages(t *testing.T) {
	p := newTestPool(t, &QueueConfig{Workers: 2, QueueSize: 8})
	job := &countingJob{name: "refresh", msgType: "bars.refresh"}
	p.RegisterJob(job)
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop(context.Background()) }()

	require.NoError(t, p.PublishMessage(context.Background(), "bars.refresh", testPayload{Symbol: "BTC-USD"}))

	waitFor(t, time.Second, func() bool { return job.calls.Load() == 1 })
	assert.Equal(t, "BTC-USD", job.gotSym.Load())
}

func TestPoolRejectsUnregisteredType(t *testing.T) {
	p := newTestPool(t, nil)
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop(context.Background()) }()

	err := p.PublishMessage(context.Background(), "unknown", nil)
	assert.ErrorContains(t, err, "no job registered")
}

func TestPoolRejectsWhenNotRunning(t *testing.T) {
	p := newTestPool(t, nil)
	job := &countingJob{name: "refresh", msgType: "bars.refresh"}
	p.RegisterJob(job)

	err := p.PublishMessage(context.Background(), "bars.refresh", nil)
	assert.ErrorContains(t, err, "not running")
}

func TestPoolRetriesFailedMessages(t *testing.T) {
	p := newTestPool(t, &QueueConfig{
		Workers:    1,
		QueueSize:  8,
		RetryLimit: 2,
		RetryDelay: 10 * time.Millisecond,
	})
	job := &countingJob{name: "refresh", msgType: "bars.refresh", failFor: 2}
	p.RegisterJob(job)
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop(context.Background()) }()

	require.NoError(t, p.PublishMessage(context.Background(), "bars.refresh", testPayload{Symbol: "ETH-USD"}))

	waitFor(t, 2*time.Second, func() bool { return job.calls.Load() == 3 })
}

func TestPoolMapPayloadRoundTrips(t *testing.T) {
	p := newTestPool(t, &QueueConfig{Workers: 1, QueueSize: 4})
	job := &countingJob{name: "refresh", msgType: "bars.refresh"}
	p.RegisterJob(job)
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop(context.Background()) }()

	payload := map[string]interface{}{"symbol": "SOL-USD"}
	require.NoError(t, p.PublishMessage(context.Background(), "bars.refresh", payload))

	waitFor(t, time.Second, func() bool { return job.calls.Load() == 1 })
	assert.Equal(t, "SOL-USD", job.gotSym.Load())
}

func TestPoolStopIsIdempotent(t *testing.T) {
	p := newTestPool(t, nil)
	require.NoError(t, p.Start())

	require.NoError(t, p.Stop(context.Background()))
	require.NoError(t, p.Stop(context.Background()))
}
