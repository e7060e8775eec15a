package engine

import (
	"time"

	"PhasePulse/internal/domain/models"
	"PhasePulse/internal/services/indicators"
	"PhasePulse/internal/services/spectral"
)

// Engine is the signal computation core. It is pure and carries no mutable
// state, so a single instance serves concurrent callers without
// coordination. Apart from the report timestamp, identical windows always
// produce identical reports.
type Engine struct {
	params Params
}

// New creates an Engine from params, filling unset values with defaults.
func New(params Params) *Engine {
	return &Engine{params: params.withDefaults()}
}

// Compute runs both stages and the decision rule over a bar window. It
// never fails: windows below the minimum length produce the degenerate
// HOLD report.
func (e *Engine) Compute(symbol string, bars []models.MarketBar, live bool) models.SignalReport {
	now := time.Now().UTC()

	if len(bars) < e.params.MinWindow {
		last := 0.0
		if len(bars) > 0 {
			last = bars[len(bars)-1].Close
		}
		return models.SignalReport{
			Symbol:      symbol,
			Signal:      models.SignalHold,
			Equilibrium: last,
			PSD:         []float64{},
			Timestamp:   now,
			IsLiveData:  live,
		}
	}

	last := bars[len(bars)-1].Close
	zPrime := indicators.Equilibrium(bars, e.params.VWAPWindow)
	sigma := indicators.CloseStdDev(bars, e.params.VWAPWindow)
	deviation := indicators.Deviation(last, zPrime, sigma)

	sa := spectral.Analyze(models.Closes(bars))
	coherence := indicators.PriceVolumeCoherence(bars)

	return models.SignalReport{
		Symbol:             symbol,
		Signal:             decide(deviation, sa.Phase, e.params),
		Deviation:          deviation,
		Equilibrium:        zPrime,
		Phase:              sa.Phase,
		TimeToReversal:     sa.TimeToReversal,
		Confidence:         confidence(deviation, e.params.ConfidenceSaturation),
		PSD:                sa.PSD,
		AttentionCoherence: coherence,
		Timestamp:          now,
		IsLiveData:         live,
	}
}
