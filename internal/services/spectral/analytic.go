package spectral

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// AnalyticPhases extracts instantaneous phases via the analytic signal: the
// series is mean-centered, negative frequencies zeroed and positive ones
// doubled, and the angle of the inverse transform taken per sample. Series
// shorter than 2 yield a single zero phase.
func AnalyticPhases(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return []float64{0}
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	seq := make([]complex128, n)
	for i, v := range series {
		seq[i] = complex(v-mean, 0)
	}

	cfft := fourier.NewCmplxFFT(n)
	coeff := cfft.Coefficients(nil, seq)

	for k := 1; k < n; k++ {
		switch {
		case n%2 == 0 && k == n/2:
			// Nyquist stays as-is for even lengths
		case k <= (n-1)/2:
			coeff[k] *= 2
		default:
			coeff[k] = 0
		}
	}

	out := cfft.Sequence(nil, coeff)
	phases := make([]float64, n)
	for i, c := range out {
		// the inverse is unnormalized; the 1/n scale cancels in the angle
		phases[i] = cmplx.Phase(c)
	}
	return phases
}

// PhaseLockingValue measures the consistency of the phase difference
// between two equal-length phase series, from 0 (none) to 1 (perfect
// synchronization). Mismatched lengths score 0.
func PhaseLockingValue(p1, p2 []float64) float64 {
	n := len(p1)
	if n == 0 || len(p2) != n {
		return 0
	}
	sumRe := 0.0
	sumIm := 0.0
	for i := 0; i < n; i++ {
		d := p1[i] - p2[i]
		sumRe += math.Cos(d)
		sumIm += math.Sin(d)
	}
	return math.Hypot(sumRe, sumIm) / float64(n)
}
