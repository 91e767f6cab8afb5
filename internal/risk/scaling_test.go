package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnualToDailyConversions(t *testing.T) {
	assert.InDelta(t, 0.10/252.0, AnnualToDailyReturn(0.10, 252), 1e-12)
	assert.InDelta(t, 0.20/math.Sqrt(252), AnnualToDailyVolatility(0.20, 252), 1e-12)
}

func TestScaleToHorizon(t *testing.T) {
	mean, vol := ScaleToHorizon(0.001, 0.01, 10)
	assert.InDelta(t, 0.01, mean, 1e-12, "mean scales linearly")
	assert.InDelta(t, 0.01*math.Sqrt(10), vol, 1e-12, "volatility scales by sqrt of time")
}

func TestScaleToHorizonOneDayIsIdentity(t *testing.T) {
	mean, vol := ScaleToHorizon(0.0005, 0.012, 1)
	assert.Equal(t, 0.0005, mean)
	assert.Equal(t, 0.012, vol)
}

func TestScalingRoundTrip(t *testing.T) {
	// Scaling daily figures to a horizon and dividing back out recovers the
	// original values within floating tolerance.
	const dailyMean, dailyVol = 0.00032, 0.0126
	const horizon = 21

	mean, vol := ScaleToHorizon(dailyMean, dailyVol, horizon)
	assert.InDelta(t, dailyMean, mean/float64(horizon), 1e-15)
	assert.InDelta(t, dailyVol, vol/math.Sqrt(float64(horizon)), 1e-15)

	// Annual -> daily is the same transform inverted with D in place of T.
	annualVol := 0.15
	daily := AnnualToDailyVolatility(annualVol, 252)
	assert.InDelta(t, annualVol, daily*math.Sqrt(252), 1e-12)
}
