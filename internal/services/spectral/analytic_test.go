package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticPhasesTrackCosine(t *testing.T) {
	n := 64
	series := make([]float64, n)
	for i := range series {
		series[i] = 100 + 5*math.Cos(2*math.Pi*2*float64(i)/float64(n))
	}

	phases := AnalyticPhases(series)
	require.Len(t, phases, n)

	// the analytic signal of cos(wt) is exp(iwt): phase 0 at the crest,
	// pi/2 a quarter period later
	assert.InDelta(t, 0, phases[0], 1e-6)
	assert.InDelta(t, math.Pi/2, phases[8], 1e-6)
	assert.InDelta(t, math.Pi, math.Abs(phases[16]), 1e-6)
}

func TestAnalyticPhasesShortSeries(t *testing.T) {
	assert.Equal(t, []float64{0}, AnalyticPhases([]float64{7}))
	assert.Equal(t, []float64{0}, AnalyticPhases(nil))
}

func TestAnalyticPhasesOddLength(t *testing.T) {
	series := make([]float64, 65)
	for i := range series {
		series[i] = math.Sin(0.3 * float64(i))
	}
	phases := AnalyticPhases(series)
	require.Len(t, phases, 65)
	for _, p := range phases {
		assert.False(t, math.IsNaN(p))
		assert.GreaterOrEqual(t, p, -math.Pi)
		assert.LessOrEqual(t, p, math.Pi)
	}
}

func TestPhaseLockingValueIdenticalPhases(t *testing.T) {
	p := []float64{0, 0.5, 1.1, 2.9, -2.0}
	assert.InDelta(t, 1.0, PhaseLockingValue(p, p), 1e-12)
}

func TestPhaseLockingValueConstantOffset(t *testing.T) {
	p1 := []float64{0, 0.5, 1.1, 2.9, -2.0}
	p2 := make([]float64, len(p1))
	for i, v := range p1 {
		p2[i] = v + 0.7
	}
	assert.InDelta(t, 1.0, PhaseLockingValue(p1, p2), 1e-12)
}

func TestPhaseLockingValueOpposedPhases(t *testing.T) {
	p1 := []float64{0, math.Pi}
	p2 := []float64{0, 0}
	assert.InDelta(t, 0.0, PhaseLockingValue(p1, p2), 1e-12)
}

func TestPhaseLockingValueMismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, PhaseLockingValue([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, PhaseLockingValue(nil, nil))
}

func TestPhaseLockingValueSameToneDifferentScales(t *testing.T) {
	n := 128
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		x := 2 * math.Pi * 4 * float64(i) / float64(n)
		a[i] = 100 + 5*math.Sin(x)
		b[i] = 3000 + 900*math.Sin(x)
	}
	plv := PhaseLockingValue(AnalyticPhases(a), AnalyticPhases(b))
	assert.Greater(t, plv, 0.99)
}
