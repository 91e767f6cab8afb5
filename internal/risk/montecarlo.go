package risk

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/riskcalc/internal/riskconfig"
	"github.com/aristath/riskcalc/pkg/formulas"
)

// SimulationOptions controls the Monte Carlo random stream. A zero Seed draws a
// time-derived seed, making results vary run to run; supply a fixed seed for
// reproducible output.
type SimulationOptions struct {
	Seed uint64
}

// computeMonteCarlo simulates NumSimulations independent horizon paths of
// correlated daily asset returns and derives empirical VaR/ES from the sorted
// horizon-return distribution.
//
// Quantile policy: nearest-rank on the ascending sorted sample, index
// floor(alpha * N) clamped to [0, N-1]. ES is the mean of the tail up to and
// including that index, which guarantees ES_return <= VaR_return by construction.
//
// Paths are independent, so a parallel map over paths followed by the sort
// barrier would be a drop-in replacement; the sequential loop is kept for a
// single deterministic random stream.
func (e *Engine) computeMonteCarlo(p *riskconfig.Portfolio, daily *DailyStats, opts *SimulationOptions) (*Result, error) {
	n := p.NumAssets()

	// L * L' = Sigma_daily. Fails iff the matrix is not positive definite
	// (perfectly correlated or degenerate assets); there is no fallback.
	var chol mat.Cholesky
	if ok := chol.Factorize(daily.Cov); !ok {
		return nil, fmt.Errorf("%w: Cholesky factorization of the daily covariance matrix failed", ErrNonPositiveDefinite)
	}
	lower := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(lower)

	var seed uint64
	if opts != nil && opts.Seed != 0 {
		seed = opts.Seed
	} else {
		seed = uint64(time.Now().UnixNano())
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed)}

	e.log.Info().
		Int("num_simulations", p.NumSimulations).
		Int("horizon_days", p.TimeHorizonDays).
		Int("num_assets", n).
		Msg("Starting Monte Carlo simulation")

	horizonReturns := make([]float64, p.NumSimulations)
	z := make([]float64, n)
	for path := 0; path < p.NumSimulations; path++ {
		value := 1.0
		for day := 0; day < p.TimeHorizonDays; day++ {
			for i := range z {
				z[i] = normal.Rand()
			}
			// Correlated daily asset returns: delta = mu_daily + L*z,
			// reduced to the portfolio daily return by the weight vector.
			dayReturn := 0.0
			for i := 0; i < n; i++ {
				r := daily.Means[i]
				for j := 0; j <= i; j++ {
					r += lower.At(i, j) * z[j]
				}
				dayReturn += p.Weights[i] * r
			}
			value *= 1 + dayReturn
		}
		horizonReturns[path] = value - 1
	}

	sort.Float64s(horizonReturns)

	alpha := 1 - p.ConfidenceLevel
	varIdx := formulas.QuantileIndex(len(horizonReturns), alpha)
	if varIdx < 0 {
		return nil, fmt.Errorf("%w: %d simulations at confidence %g", ErrInsufficientSamples, p.NumSimulations, p.ConfidenceLevel)
	}

	varReturn := horizonReturns[varIdx]
	esReturn := formulas.TailMean(horizonReturns, varIdx)

	return &Result{
		Method:           MethodMonteCarlo,
		VaRReturn:        varReturn,
		VaRValue:         lossValue(varReturn, p.PortfolioValue),
		ESReturn:         esReturn,
		ESValue:          lossValue(esReturn, p.PortfolioValue),
		SimulatedReturns: horizonReturns,
	}, nil
}
