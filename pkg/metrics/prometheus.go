package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal   *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastDeviation  *prometheus.GaugeVec
	equilibrium    *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phasepulse_signals_total",
				Help: "Total number of signals computed, by decision",
			},
			[]string{"symbol", "decision"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phasepulse_fallback_windows_total",
				Help: "Windows served from the synthetic source",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phasepulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastDeviation: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "phasepulse_last_deviation",
				Help: "Last deviation score for a symbol",
			},
			[]string{"symbol"},
		),
		equilibrium: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "phasepulse_equilibrium_price",
				Help: "Last volume-weighted equilibrium price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phasepulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal records a computed signal decision.
func (r *Recorder) RecordSignal(symbol, decision string) {
	r.signalsTotal.WithLabelValues(symbol, decision).Inc()
}

// RecordFallback records a window served from the synthetic source.
func (r *Recorder) RecordFallback(symbol string) {
	r.fallbacksTotal.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordDeviation records the last deviation score for a symbol.
func (r *Recorder) RecordDeviation(symbol string, e float64) {
	r.lastDeviation.WithLabelValues(symbol).Set(e)
}

// RecordEquilibrium records the last equilibrium price for a symbol.
func (r *Recorder) RecordEquilibrium(symbol string, z float64) {
	r.equilibrium.WithLabelValues(symbol).Set(z)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
