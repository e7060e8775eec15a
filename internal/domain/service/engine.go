package service

import "PhasePulse/internal/domain/models"

// SignalEngine turns a bar window into a trading decision report. It is a
// total function: every input, including empty and short windows, produces
// a well-formed report.
type SignalEngine interface {
	Compute(symbol string, bars []models.MarketBar, live bool) models.SignalReport
}

// SpectrumAnalyzer derives secondary cycle diagnostics from a bar window.
type SpectrumAnalyzer interface {
	Profile(symbol string, bars []models.MarketBar, live bool) models.SpectrumProfile
}
