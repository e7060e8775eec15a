package breaker

import (
	"time"

	"github.com/sony/gobreaker"
)

// Option configures a Breaker.
type Option func(*settings)

type settings struct {
	interval         time.Duration
	timeout          time.Duration
	consecutiveFails uint32
	minRequests      uint32
	failureRatio     float64
	onStateChange    func(name string, from, to gobreaker.State)
}

// Breaker guards calls to one upstream with a circuit breaker.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a named Breaker. Defaults trip after 5 consecutive failures
// or a 50% failure ratio over at least 20 requests, with a 30s open state.
func New(name string, opts ...Option) *Breaker {
	s := &settings{
		interval:         60 * time.Second,
		timeout:          30 * time.Second,
		consecutiveFails: 5,
		minRequests:      20,
		failureRatio:     0.5,
	}
	for _, opt := range opts {
		opt(s)
	}

	st := gobreaker.Settings{
		Name:     name,
		Interval: s.interval,
		Timeout:  s.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= s.consecutiveFails {
				return true
			}
			if counts.Requests >= s.minRequests {
				return float64(counts.TotalFailures)/float64(counts.Requests) >= s.failureRatio
			}
			return false
		},
		OnStateChange: s.onStateChange,
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Execute runs fn under the breaker. While the breaker is open the call
// fails fast with gobreaker.ErrOpenState.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(fn)
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// WithTimeout sets how long the breaker stays open before probing.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithInterval sets the closed-state counter reset interval.
func WithInterval(d time.Duration) Option {
	return func(s *settings) {
		s.interval = d
	}
}

// WithTripAfter sets the consecutive-failure trip count.
func WithTripAfter(consecutive uint32) Option {
	return func(s *settings) {
		s.consecutiveFails = consecutive
	}
}

// WithFailureRatio sets the ratio trip rule.
func WithFailureRatio(minRequests uint32, ratio float64) Option {
	return func(s *settings) {
		s.minRequests = minRequests
		s.failureRatio = ratio
	}
}

// WithStateChangeHook registers a state transition callback.
func WithStateChangeHook(fn func(name string, from, to gobreaker.State)) Option {
	return func(s *settings) {
		s.onStateChange = fn
	}
}
