package engine

// Engine thresholds. The defaults are the tuned production values; configs
// override them individually.
const (
	DefaultMinWindow            = 32
	DefaultVWAPWindow           = 20
	DefaultDeviationThreshold   = 1.5
	DefaultPhaseGate            = 1.2 // multiple of pi
	DefaultConfidenceSaturation = 3.0
	DefaultClusteringWindow     = 20
)

// Params configures an Engine. Zero values fall back to defaults so a
// partially filled config still yields a working engine.
type Params struct {
	MinWindow            int     // below this the report is the degenerate HOLD
	VWAPWindow           int     // trailing sub-window for equilibrium and sigma
	DeviationThreshold   float64 // |e| must exceed this to act
	PhaseGate            float64 // phase must exceed this multiple of pi to act
	ConfidenceSaturation float64 // |e| at which confidence saturates to 1
}

func (p Params) withDefaults() Params {
	if p.MinWindow <= 0 {
		p.MinWindow = DefaultMinWindow
	}
	if p.VWAPWindow <= 0 {
		p.VWAPWindow = DefaultVWAPWindow
	}
	if p.DeviationThreshold <= 0 {
		p.DeviationThreshold = DefaultDeviationThreshold
	}
	if p.PhaseGate <= 0 {
		p.PhaseGate = DefaultPhaseGate
	}
	if p.ConfidenceSaturation <= 0 {
		p.ConfidenceSaturation = DefaultConfidenceSaturation
	}
	return p
}
