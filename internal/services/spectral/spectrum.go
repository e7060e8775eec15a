package spectral

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analysis is the outcome of one spectral pass over a series.
type Analysis struct {
	Length         int       // power-of-two stretch actually analyzed
	PSD            []float64 // squared magnitudes of the retained half spectrum
	DominantBin    int       // strongest non-DC bin
	Phase          float64   // [0, 2pi)
	Period         float64   // bars per dominant cycle
	TimeToReversal float64   // bars until the dominant cycle completes
}

// Pow2Window returns the largest power of two less than or equal to n,
// or 0 when n < 1.
func Pow2Window(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Analyze runs the spectral stage over a series: the most recent
// power-of-two sized stretch is transformed, the half spectrum [0, N/2)
// retained, and the strongest bin above DC located. On ties the first
// maximum wins. Series too short to transform yield a zero Analysis with
// an empty PSD.
func Analyze(series []float64) Analysis {
	n := Pow2Window(len(series))
	if n < 2 {
		return Analysis{PSD: []float64{}}
	}
	seq := series[len(series)-n:]

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)

	half := n / 2
	psd := make([]float64, half)
	mags := make([]float64, half)
	for i := 0; i < half; i++ {
		m := cmplx.Abs(coeff[i])
		mags[i] = m
		psd[i] = m * m
	}

	dominant := 0
	best := math.Inf(-1)
	for i := 1; i < half; i++ {
		if mags[i] > best {
			best = mags[i]
			dominant = i
		}
	}

	phase := math.Atan2(imag(coeff[dominant]), real(coeff[dominant]))
	if phase < 0 {
		phase += 2 * math.Pi
	}

	den := dominant
	if den < 1 {
		den = 1
	}
	period := float64(n) / float64(den)

	return Analysis{
		Length:         n,
		PSD:            psd,
		DominantBin:    dominant,
		Phase:          phase,
		Period:         period,
		TimeToReversal: (1 - phase/(2*math.Pi)) * period,
	}
}

// DominantFrequency is the dominant bin expressed in cycles per bar.
func (a Analysis) DominantFrequency() float64 {
	if a.Length == 0 {
		return 0
	}
	return float64(a.DominantBin) / float64(a.Length)
}

// Resonance measures how concentrated spectral power is: the share of total
// power held by the strongest bin. Zero-power spectra score 0.
func Resonance(psd []float64) float64 {
	peak := 0.0
	total := 0.0
	for _, p := range psd {
		if p > peak {
			peak = p
		}
		total += p
	}
	if total <= 0 {
		return 0
	}
	return peak / total
}
