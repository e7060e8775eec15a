package engine

import (
	"math"

	"PhasePulse/internal/domain/models"
)

// decide maps a deviation and a dominant-cycle phase to a discrete signal.
// Action requires both a stretched deviation and a cycle past its gate;
// oversold stretches resolve to BUY, overbought to SELL.
func decide(deviation, phase float64, p Params) models.Signal {
	if math.Abs(deviation) <= p.DeviationThreshold {
		return models.SignalHold
	}
	if phase <= p.PhaseGate*math.Pi {
		return models.SignalHold
	}
	if deviation < 0 {
		return models.SignalBuy
	}
	return models.SignalSell
}

// confidence grades a deviation against the saturation point, clamped to
// [0, 1]. It is independent of the decision itself.
func confidence(deviation, saturation float64) float64 {
	c := math.Abs(deviation) / saturation
	if c > 1 {
		return 1
	}
	return c
}
