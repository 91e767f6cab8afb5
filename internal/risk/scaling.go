package risk

import "math"

// Time scaling between annualized, daily and horizon figures. Linear scaling for
// means, square-root-of-time scaling for volatilities, both under the IID
// daily-returns assumption. Callers guarantee positive day counts (enforced by
// riskconfig.Portfolio.Validate); no clamping happens here.

// AnnualToDailyReturn converts an annualized expected return to a daily figure.
func AnnualToDailyReturn(annual float64, tradingDays int) float64 {
	return annual / float64(tradingDays)
}

// AnnualToDailyVolatility converts an annualized volatility to a daily figure.
func AnnualToDailyVolatility(annual float64, tradingDays int) float64 {
	return annual / math.Sqrt(float64(tradingDays))
}

// ScaleToHorizon scales daily portfolio mean and volatility to a horizon of
// horizonDays trading days.
func ScaleToHorizon(dailyMean, dailyVol float64, horizonDays int) (mean, vol float64) {
	t := float64(horizonDays)
	return dailyMean * t, dailyVol * math.Sqrt(t)
}
