package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/riskcalc/internal/riskconfig"
)

// computeParametric aggregates the daily statistics to portfolio level, scales
// them to the horizon and applies the closed-form normal formulas.
func (e *Engine) computeParametric(p *riskconfig.Portfolio, daily *DailyStats) (*Result, error) {
	dailyMean := PortfolioDailyMean(p.Weights, daily.Means)
	dailyVol := math.Sqrt(e.PortfolioDailyVariance(p.Weights, daily.Cov))

	horizonMean, horizonVol := ScaleToHorizon(dailyMean, dailyVol, p.TimeHorizonDays)

	e.log.Debug().
		Float64("daily_mean", dailyMean).
		Float64("daily_vol", dailyVol).
		Int("horizon_days", p.TimeHorizonDays).
		Msg("Computed horizon-scaled portfolio statistics")

	return estimateParametric(p.PortfolioValue, horizonMean, horizonVol, p.ConfidenceLevel)
}

// estimateParametric computes VaR and ES from horizon-scaled portfolio mean and
// volatility under a normality assumption:
//
//	VaR_return = mu_T + sigma_T * Z_alpha
//	ES_return  = mu_T - sigma_T * phi(Z_alpha) / alpha
//
// where Z_alpha is the left-tail standard normal quantile at alpha = 1 - confidence
// and phi the standard normal density. ES_return <= VaR_return holds analytically
// for any alpha in (0,1) and sigma_T >= 0.
func estimateParametric(portfolioValue, horizonMean, horizonVol, confidence float64) (*Result, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("%w: confidence level must be in (0,1), got %g",
			riskconfig.ErrInvalidConfiguration, confidence)
	}
	// Defensive: a valid covariance matrix can never produce this.
	if horizonVol < 0 {
		return nil, fmt.Errorf("%w: horizon volatility is negative (%g)", ErrInvalidInput, horizonVol)
	}

	alpha := 1 - confidence
	z := distuv.UnitNormal.Quantile(alpha)

	varReturn := horizonMean + horizonVol*z
	esReturn := horizonMean - horizonVol*distuv.UnitNormal.Prob(z)/alpha

	return &Result{
		Method:    MethodParametric,
		VaRReturn: varReturn,
		VaRValue:  lossValue(varReturn, portfolioValue),
		ESReturn:  esReturn,
		ESValue:   lossValue(esReturn, portfolioValue),
	}, nil
}
