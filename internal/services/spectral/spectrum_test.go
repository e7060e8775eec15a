package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineSeries(n, cycles int, base, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + amp*math.Sin(2*math.Pi*float64(cycles)*float64(i)/float64(n))
	}
	return out
}

func TestPow2Window(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 2, 3: 2, 31: 16, 32: 32, 100: 64, 128: 128, 300: 256}
	for in, want := range cases {
		assert.Equal(t, want, Pow2Window(in), "n=%d", in)
	}
}

func TestAnalyzePureTone(t *testing.T) {
	series := sineSeries(64, 4, 100, 10)
	a := Analyze(series)

	require.Equal(t, 64, a.Length)
	require.Len(t, a.PSD, 32)
	assert.Equal(t, 4, a.DominantBin)
	assert.InDelta(t, 16.0, a.Period, 1e-9)
	// a pure sine's dominant coefficient sits at -i*amp*n/2
	assert.InDelta(t, 3*math.Pi/2, a.Phase, 1e-6)
	assert.InDelta(t, 4.0, a.TimeToReversal, 1e-6)
	assert.InDelta(t, 4.0/64.0, a.DominantFrequency(), 1e-12)
}

func TestAnalyzeTruncatesToPowerOfTwo(t *testing.T) {
	series := sineSeries(100, 5, 50, 2)
	a := Analyze(series)
	assert.Equal(t, 64, a.Length)
	assert.Len(t, a.PSD, 32)
}

func TestAnalyzePicksStrongestComponent(t *testing.T) {
	series := make([]float64, 64)
	for i := range series {
		x := float64(i)
		series[i] = 100 +
			1*math.Sin(2*math.Pi*3*x/64) +
			5*math.Sin(2*math.Pi*5*x/64)
	}
	a := Analyze(series)
	assert.Equal(t, 5, a.DominantBin)
}

func TestAnalyzeDCExcluded(t *testing.T) {
	// an overwhelming constant level must not win the argmax
	series := sineSeries(64, 6, 1e6, 0.1)
	a := Analyze(series)
	assert.Equal(t, 6, a.DominantBin)
}

func TestAnalyzeShortSeries(t *testing.T) {
	a := Analyze([]float64{42})
	assert.Equal(t, 0, a.Length)
	require.NotNil(t, a.PSD)
	assert.Empty(t, a.PSD)
	assert.Equal(t, 0.0, a.Phase)
	assert.Equal(t, 0.0, a.TimeToReversal)
}

func TestAnalyzePhaseAlwaysNonNegative(t *testing.T) {
	for cycles := 1; cycles <= 8; cycles++ {
		for _, shift := range []float64{0, 1.1, 2.3, 4.0, 5.9} {
			series := make([]float64, 64)
			for i := range series {
				series[i] = 100 + 3*math.Cos(2*math.Pi*float64(cycles)*float64(i)/64+shift)
			}
			a := Analyze(series)
			assert.GreaterOrEqual(t, a.Phase, 0.0)
			assert.Less(t, a.Phase, 2*math.Pi)
			assert.GreaterOrEqual(t, a.TimeToReversal, 0.0)
		}
	}
}

func TestResonance(t *testing.T) {
	assert.Equal(t, 1.0, Resonance([]float64{0, 10, 0, 0}))
	assert.InDelta(t, 0.25, Resonance([]float64{1, 1, 1, 1}), 1e-12)
	assert.Equal(t, 0.0, Resonance([]float64{0, 0, 0}))
	assert.Equal(t, 0.0, Resonance(nil))
}

func TestResonanceConcentratedForPureTone(t *testing.T) {
	a := Analyze(sineSeries(128, 8, 0, 1))
	got := Resonance(a.PSD)
	assert.Greater(t, got, 0.9)
	assert.LessOrEqual(t, got, 1.0)
}
