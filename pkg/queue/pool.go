package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"PhasePulse/pkg/logger"
)

// Pool is an in-process queue backed by a buffered channel. It keeps the
// same job surface as a broker-backed queue, so callers never care where
// messages live.
type Pool struct {
	logger    *logger.Logger
	config    *QueueConfig
	jobs      map[string]Job
	ch        chan Message
	wg        sync.WaitGroup
	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

var _ QueueService = (*Pool)(nil)

// NewPool creates an in-process worker pool queue.
func NewPool(lgr *logger.Logger, config *QueueConfig) *Pool {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		logger: lgr,
		config: config,
		jobs:   make(map[string]Job),
		ch:     make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterJobs registers multiple jobs.
func (p *Pool) RegisterJobs(jobs []Job) {
	for _, job := range jobs {
		p.RegisterJob(job)
	}
}

// RegisterJob registers a single job.
func (p *Pool) RegisterJob(job Job) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.jobs[job.Type()]; exists {
		p.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}

	p.jobs[job.Type()] = job
	p.logger.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start launches the workers.
func (p *Pool) Start() error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	p.isRunning = true
	p.mu.Unlock()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Info("worker pool started",
		logger.Int("workers", p.config.Workers),
		logger.Int("queue_size", p.config.QueueSize))
	return nil
}

// Stop gracefully stops the pool, waiting for in-flight messages up to
// ctx's deadline.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	p.logger.Info("stopping worker pool...")
	p.cancel()

	doneCh := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-ctx.Done():
		p.logger.Warn("timeout waiting for queue workers", logger.Error(ctx.Err()))
		return fmt.Errorf("timeout: %w", ctx.Err())
	case <-doneCh:
		p.logger.Info("worker pool stopped gracefully")
		return nil
	}
}

// Enqueue adds a message to the queue without blocking. A full queue is
// an error, not a stall.
func (p *Pool) Enqueue(_ context.Context, msgType string, payload interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.isRunning {
		return fmt.Errorf("queue not running")
	}
	if _, exists := p.jobs[msgType]; !exists {
		return fmt.Errorf("no job registered for type: %s", msgType)
	}

	msg := Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
		Attempts:  0,
	}

	select {
	case p.ch <- msg:
		return nil
	default:
		return fmt.Errorf("queue full: %s", msgType)
	}
}

// PublishMessage publishes a message (implements QueueService).
func (p *Pool) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	return p.Enqueue(ctx, msgType, payload)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	p.logger.Debug("queue worker started", logger.Int("worker_id", id))

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("queue worker stopping", logger.Int("worker_id", id))
			return
		case msg := <-p.ch:
			p.processMessage(msg)
		}
	}
}

func (p *Pool) processMessage(msg Message) {
	p.mu.RLock()
	job, exists := p.jobs[msg.Type]
	p.mu.RUnlock()
	if !exists {
		p.logger.Error("no job found",
			logger.String("type", msg.Type),
			logger.String("id", msg.ID))
		return
	}

	start := time.Now()
	err := job.Handle(p.ctx, p.convertPayload(msg.Payload))
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.logger.Warn("message cancelled",
				logger.String("id", msg.ID),
				logger.String("job", job.Name()))
			return
		}
		p.handleProcessingError(msg, job, err)
		return
	}

	p.logger.Debug("message processed",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int64("elapsed_ms", elapsed.Milliseconds()))
}

func (p *Pool) convertPayload(payload interface{}) interface{} {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}

	jsonBytes, err := json.Marshal(payloadMap)
	if err != nil {
		p.logger.Error("convert payload", logger.Error(err))
		return payload
	}

	return json.RawMessage(jsonBytes)
}

func (p *Pool) handleProcessingError(msg Message, job Job, err error) {
	p.logger.Error("message processing error",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts+1),
		logger.Error(err))

	if msg.Attempts >= p.config.RetryLimit {
		p.logger.Error("message dropped after retries",
			logger.String("id", msg.ID),
			logger.String("job", job.Name()),
			logger.Int("attempts", msg.Attempts))
		return
	}

	msg.Attempts++
	p.wg.Add(1)
	go func(m Message) {
		defer p.wg.Done()
		select {
		case <-p.ctx.Done():
			return
		case <-time.After(p.config.RetryDelay):
		}

		select {
		case p.ch <- m:
		default:
			p.logger.Error("retry dropped, queue full", logger.String("id", m.ID))
		}
	}(msg)
}
