package repository

import "time"

// Granularity is the bar resolution in seconds, restricted to the candle
// resolutions the exchange serves.
type Granularity int

const (
	Gran1m  Granularity = 60
	Gran5m  Granularity = 300
	Gran15m Granularity = 900
	Gran1h  Granularity = 3600
	Gran6h  Granularity = 21600
	Gran1d  Granularity = 86400
)

// IsValidGranularity returns true if g is a supported resolution.
func IsValidGranularity(g Granularity) bool {
	switch g {
	case Gran1m, Gran5m, Gran15m, Gran1h, Gran6h, Gran1d:
		return true
	default:
		return false
	}
}

// DefaultGranularity returns the default bar resolution.
func DefaultGranularity() Granularity { return Gran1h }

// NormalizeGranularity converts raw seconds to a valid granularity (or default).
func NormalizeGranularity(seconds int) Granularity {
	if seconds == 0 {
		return DefaultGranularity()
	}
	g := Granularity(seconds)
	if IsValidGranularity(g) {
		return g
	}
	return DefaultGranularity()
}

// Duration returns the bar length as a time.Duration.
func (g Granularity) Duration() time.Duration { return time.Duration(g) * time.Second }
