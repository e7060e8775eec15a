package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PhasePulse/internal/domain/models"
)

func mkBars(closes []float64, volume float64) []models.MarketBar {
	bars := make([]models.MarketBar, len(closes))
	for i, c := range closes {
		bars[i] = models.MarketBar{Close: c, High: c + 1, Low: c - 1, Volume: volume}
	}
	return bars
}

func TestEquilibriumMatchesHandComputedVWAP(t *testing.T) {
	bars := []models.MarketBar{
		{Close: 10, High: 12, Low: 8, Volume: 100},
		{Close: 11, High: 13, Low: 9, Volume: 200},
		{Close: 12, High: 14, Low: 10, Volume: 300},
	}
	// typical prices are 10, 11, 12
	want := (10*100.0 + 11*200.0 + 12*300.0) / 600.0

	got := Equilibrium(bars, 3)
	assert.InDelta(t, want, got, 1e-12)
}

func TestEquilibriumUsesTrailingSubWindow(t *testing.T) {
	bars := []models.MarketBar{
		{Close: 1, High: 1, Low: 1, Volume: 1000},
		{Close: 50, High: 51, Low: 49, Volume: 10},
		{Close: 52, High: 53, Low: 51, Volume: 10},
	}
	// window 2 must ignore the heavy first bar entirely
	got := Equilibrium(bars, 2)
	assert.InDelta(t, 51, got, 1e-12)
}

func TestEquilibriumWindowLargerThanSeries(t *testing.T) {
	bars := mkBars([]float64{10, 12}, 100)
	got := Equilibrium(bars, 20)
	assert.InDelta(t, 11, got, 1e-12)
}

func TestEquilibriumZeroVolumeFallsBackToLastClose(t *testing.T) {
	bars := mkBars([]float64{10, 11, 12}, 0)
	assert.Equal(t, 12.0, Equilibrium(bars, 3))
}

func TestEquilibriumEmptyWindow(t *testing.T) {
	assert.Equal(t, 0.0, Equilibrium(nil, 20))
}

func TestCloseStdDevSample(t *testing.T) {
	bars := mkBars([]float64{10, 11, 12}, 100)
	// sample variance of {10,11,12} is 1
	assert.InDelta(t, 1.0, CloseStdDev(bars, 3), 1e-12)
}

func TestCloseStdDevFlatWindowReportsOne(t *testing.T) {
	bars := mkBars([]float64{42, 42, 42, 42}, 100)
	assert.Equal(t, 1.0, CloseStdDev(bars, 4))
}

func TestCloseStdDevShortWindowReportsOne(t *testing.T) {
	bars := mkBars([]float64{42}, 100)
	assert.Equal(t, 1.0, CloseStdDev(bars, 20))
}

func TestDeviationSignAndScale(t *testing.T) {
	assert.InDelta(t, -2.0, Deviation(96, 100, 2), 1e-12)
	assert.InDelta(t, 1.5, Deviation(103, 100, 2), 1e-12)
	// zero sigma is treated as 1
	assert.InDelta(t, 3.0, Deviation(103, 100, 0), 1e-12)
}

func TestPriceVolumeCoherencePerfectCorrelation(t *testing.T) {
	bars := make([]models.MarketBar, 16)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.MarketBar{Close: c, High: c + 1, Low: c - 1, Volume: 10 * c}
	}
	assert.InDelta(t, 1.0, PriceVolumeCoherence(bars), 1e-9)
}

func TestPriceVolumeCoherenceAntiCorrelation(t *testing.T) {
	bars := make([]models.MarketBar, 16)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.MarketBar{Close: c, High: c + 1, Low: c - 1, Volume: 1000 - 10*c}
	}
	assert.InDelta(t, -1.0, PriceVolumeCoherence(bars), 1e-9)
}

func TestPriceVolumeCoherenceConstantSeriesIsZero(t *testing.T) {
	// constant volume, varying price: variance of one side is zero and the
	// result must be exactly 0, never NaN
	bars := mkBars([]float64{10, 12, 9, 14, 11}, 100)
	got := PriceVolumeCoherence(bars)
	require.False(t, math.IsNaN(got))
	assert.Equal(t, 0.0, got)
}

func TestPriceVolumeCoherenceTooShort(t *testing.T) {
	assert.Equal(t, 0.0, PriceVolumeCoherence(mkBars([]float64{10}, 5)))
	assert.Equal(t, 0.0, PriceVolumeCoherence(nil))
}

func TestLogReturns(t *testing.T) {
	got := LogReturns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, math.Log(1.1), got[0], 1e-12)
	assert.InDelta(t, math.Log(0.9), got[1], 1e-12)
}

func TestLogReturnsNonPositivePrices(t *testing.T) {
	got := LogReturns([]float64{100, 0, 50})
	require.Len(t, got, 2)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.0, got[1])
}

func TestLogReturnsTooShort(t *testing.T) {
	assert.Nil(t, LogReturns([]float64{100}))
	assert.Nil(t, LogReturns(nil))
}

func TestVolatilityClusteringShortSeriesScoresZero(t *testing.T) {
	returns := make([]float64, 39)
	for i := range returns {
		returns[i] = 0.01
	}
	assert.Equal(t, 0.0, VolatilityClustering(returns, 20))
}

func TestVolatilityClusteringDetectsRegimes(t *testing.T) {
	// a calm stretch followed by a turbulent one: squared returns are
	// strongly autocorrelated, so the score must sit in the upper half
	returns := make([]float64, 80)
	for i := range returns {
		mag := 0.001
		if i >= 40 {
			mag = 0.05
		}
		if i%2 == 0 {
			mag = -mag
		}
		returns[i] = mag
	}

	score := VolatilityClustering(returns, 20)
	assert.Greater(t, score, 0.5)
	assert.LessOrEqual(t, score, 1.0)
}

func TestVolatilityClusteringBounded(t *testing.T) {
	returns := make([]float64, 60)
	for i := range returns {
		returns[i] = math.Sin(float64(i) * 1.7)
	}
	score := VolatilityClustering(returns, 20)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
