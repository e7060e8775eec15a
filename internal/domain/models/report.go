package models

import "time"

// Signal is the discrete trading decision.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// SignalReport is the complete output of one engine pass over a bar window.
type SignalReport struct {
	Symbol             string    `json:"symbol"`
	Signal             Signal    `json:"signal"`
	Deviation          float64   `json:"e"`          // standard deviations from equilibrium, signed
	Equilibrium        float64   `json:"z_prime"`    // volume-weighted equilibrium price
	Phase              float64   `json:"phase"`      // dominant-cycle phase, [0, 2pi)
	TimeToReversal     float64   `json:"t_reversal"` // bars until the dominant cycle completes
	Confidence         float64   `json:"confidence"` // [0, 1]
	PSD                []float64 `json:"psd"`
	AttentionCoherence float64   `json:"attention_coherence"` // price/volume Pearson r
	Timestamp          time.Time `json:"timestamp"`
	IsLiveData         bool      `json:"is_live_data"`
}

// SpectrumProfile carries the secondary cycle diagnostics for one symbol.
type SpectrumProfile struct {
	Symbol               string    `json:"symbol"`
	DominantBin          int       `json:"dominant_bin"`
	DominantPeriod       float64   `json:"dominant_period"`    // bars per cycle
	DominantFrequency    float64   `json:"dominant_frequency"` // cycles per bar
	Resonance            float64   `json:"resonance"`          // peak share of spectral power
	VolatilityClustering float64   `json:"volatility_clustering"`
	PhaseLock            float64   `json:"phase_lock"` // price/volume phase synchronization
	AnalysisLength       int       `json:"analysis_length"`
	Timestamp            time.Time `json:"timestamp"`
	IsLiveData           bool      `json:"is_live_data"`
}
