package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"PhasePulse/internal/domain/models"
)

// TypicalPrice is the representative price of a single bar.
func TypicalPrice(b models.MarketBar) float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Equilibrium computes the volume-weighted typical price over the trailing
// window bars. Windows with zero traded volume fall back to the last close,
// so the result is always an actual price level.
func Equilibrium(bars []models.MarketBar, window int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if window > len(bars) {
		window = len(bars)
	}
	if window <= 0 {
		return bars[len(bars)-1].Close
	}

	sumPV := 0.0
	sumV := 0.0
	for i := len(bars) - window; i < len(bars); i++ {
		sumPV += TypicalPrice(bars[i]) * bars[i].Volume
		sumV += bars[i].Volume
	}
	if sumV == 0 {
		return bars[len(bars)-1].Close
	}
	return sumPV / sumV
}

// CloseStdDev computes the sample standard deviation of closes over the
// trailing window bars. Flat or too-short windows report 1 so deviations
// computed against it stay finite.
func CloseStdDev(bars []models.MarketBar, window int) float64 {
	if window > len(bars) {
		window = len(bars)
	}
	if window < 2 {
		return 1
	}

	closes := make([]float64, 0, window)
	for i := len(bars) - window; i < len(bars); i++ {
		closes = append(closes, bars[i].Close)
	}
	sd := stat.StdDev(closes, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 1
	}
	return sd
}

// Deviation expresses the distance of the last close from equilibrium in
// units of sigma.
func Deviation(lastClose, equilibrium, sigma float64) float64 {
	if sigma == 0 {
		sigma = 1
	}
	return (lastClose - equilibrium) / sigma
}

// PriceVolumeCoherence is the Pearson correlation between the close and
// volume series over the entire window. When either series is constant the
// denominator is forced to 1, yielding a correlation near zero instead of
// NaN. That substitution is part of the contract here, which is why this is
// not stat.Correlation.
func PriceVolumeCoherence(bars []models.MarketBar) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}

	meanC := 0.0
	meanV := 0.0
	for _, b := range bars {
		meanC += b.Close
		meanV += b.Volume
	}
	meanC /= float64(n)
	meanV /= float64(n)

	num := 0.0
	ssC := 0.0
	ssV := 0.0
	for _, b := range bars {
		dc := b.Close - meanC
		dv := b.Volume - meanV
		num += dc * dv
		ssC += dc * dc
		ssV += dv * dv
	}

	den := math.Sqrt(ssC * ssV)
	if den == 0 {
		den = 1
	}
	return num / den
}

// LogReturns computes r_t = ln(C_t / C_{t-1}) over a close series. It
// returns a slice of length len(closes)-1, or nil if insufficient data.
// Non-positive prices contribute a zero return.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		cur := closes[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// VolatilityClustering scores how strongly volatility clusters in time as
// the lag-1 autocorrelation of squared returns, mapped onto [0, 1]. Series
// shorter than twice the window score 0.
func VolatilityClustering(returns []float64, window int) float64 {
	if window <= 0 || len(returns) < window*2 {
		return 0
	}

	sq := make([]float64, len(returns))
	for i, r := range returns {
		sq[i] = r * r
	}

	ac := stat.Correlation(sq[:len(sq)-1], sq[1:], nil)
	if math.IsNaN(ac) || math.IsInf(ac, 0) {
		ac = 0
	}
	return (ac + 1) / 2
}
