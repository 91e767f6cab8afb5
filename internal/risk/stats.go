package risk

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/riskcalc/internal/riskconfig"
)

// negativeVarianceTolerance bounds the amount of floating-point noise we accept
// silently when a quadratic form on a PSD matrix comes out slightly negative.
const negativeVarianceTolerance = 1e-12

// DailyStats holds per-asset daily figures derived from a portfolio's annualized
// inputs, plus the daily covariance matrix Sigma = D * rho * D where
// D = diag(daily volatilities). It is ephemeral: built once per calculation and
// shared by both estimators.
type DailyStats struct {
	Means []float64
	Vols  []float64
	Cov   *mat.SymDense
}

// NewDailyStats converts the portfolio's annualized per-asset inputs into daily
// figures and assembles the daily covariance matrix. The caller is expected to
// have validated the portfolio first.
func NewDailyStats(p *riskconfig.Portfolio) *DailyStats {
	n := p.NumAssets()
	means := make([]float64, n)
	vols := make([]float64, n)
	for i := 0; i < n; i++ {
		means[i] = AnnualToDailyReturn(p.ExpectedAnnualReturns[i], p.TradingDaysPerYear)
		vols[i] = AnnualToDailyVolatility(p.AnnualVolatilities[i], p.TradingDaysPerYear)
	}

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, vols[i]*p.CorrelationMatrix[i][j]*vols[j])
		}
	}

	return &DailyStats{Means: means, Vols: vols, Cov: cov}
}

// PortfolioDailyMean computes the portfolio's expected daily return as the
// weighted sum of per-asset daily expected returns.
func PortfolioDailyMean(weights, dailyMeans []float64) float64 {
	return floats.Dot(weights, dailyMeans)
}

// PortfolioDailyVariance computes the daily portfolio variance via the quadratic
// form w' * Sigma * w. A result that is negative beyond floating-point tolerance
// is logged as a warning (the matrix should be PSD); either way the value is
// clamped to zero so the downstream square root stays defined.
func (e *Engine) PortfolioDailyVariance(weights []float64, cov *mat.SymDense) float64 {
	w := mat.NewVecDense(len(weights), weights)
	variance := mat.Inner(w, cov, w)
	if variance < 0 {
		if variance < -negativeVarianceTolerance {
			e.log.Warn().
				Float64("variance", variance).
				Msg("Portfolio variance is negative beyond numerical tolerance, clamping to zero")
		}
		variance = 0
	}
	return variance
}
