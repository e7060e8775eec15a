package engine

import (
	"math"
	"time"

	"PhasePulse/internal/domain/models"
	"PhasePulse/internal/services/indicators"
	"PhasePulse/internal/services/spectral"
)

// Profiler derives the secondary cycle diagnostics that sit alongside the
// signal report: spectral concentration, volatility clustering and
// price/volume phase locking. Pure and safe for concurrent use, like the
// Engine.
type Profiler struct {
	minWindow        int
	clusteringWindow int
}

// NewProfiler creates a Profiler sharing the engine's minimum window.
func NewProfiler(minWindow int) *Profiler {
	if minWindow <= 0 {
		minWindow = DefaultMinWindow
	}
	return &Profiler{minWindow: minWindow, clusteringWindow: DefaultClusteringWindow}
}

// Profile computes a SpectrumProfile over a bar window. Windows below the
// minimum length produce a zeroed profile.
func (p *Profiler) Profile(symbol string, bars []models.MarketBar, live bool) models.SpectrumProfile {
	now := time.Now().UTC()

	if len(bars) < p.minWindow {
		return models.SpectrumProfile{Symbol: symbol, Timestamp: now, IsLiveData: live}
	}

	closes := models.Closes(bars)
	volumes := models.Volumes(bars)

	sa := spectral.Analyze(closes)
	returns := indicators.LogReturns(closes)
	retSpec := spectral.Analyze(returns)

	logVol := make([]float64, len(volumes))
	for i, v := range volumes {
		logVol[i] = math.Log1p(v)
	}
	pricePhases := spectral.AnalyticPhases(closes)
	volumePhases := spectral.AnalyticPhases(logVol)

	return models.SpectrumProfile{
		Symbol:               symbol,
		DominantBin:          sa.DominantBin,
		DominantPeriod:       sa.Period,
		DominantFrequency:    sa.DominantFrequency(),
		Resonance:            spectral.Resonance(retSpec.PSD),
		VolatilityClustering: indicators.VolatilityClustering(returns, p.clusteringWindow),
		PhaseLock:            spectral.PhaseLockingValue(pricePhases, volumePhases),
		AnalysisLength:       sa.Length,
		Timestamp:            now,
		IsLiveData:           live,
	}
}
