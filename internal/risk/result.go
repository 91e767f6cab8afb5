package risk

// Method tags identifying which estimator produced a Result.
const (
	MethodParametric = "parametric"
	MethodMonteCarlo = "monte_carlo"
)

// Result is the output record of a single VaR/ES calculation. VaR and ES are
// expressed both as signed horizon returns (negative denotes a loss) and as
// positive monetary loss values (return * portfolio value, floored at zero).
// A Result is never mutated after construction.
type Result struct {
	Method    string  `json:"method"`
	VaRReturn float64 `json:"var_return"`
	VaRValue  float64 `json:"var_value"`
	ESReturn  float64 `json:"es_return"`
	ESValue   float64 `json:"es_value"`

	// SimulatedReturns holds the full ascending-sorted sequence of simulated
	// horizon returns. Populated by the Monte Carlo estimator only; read-only
	// for consumers (histogram rendering, persistence).
	SimulatedReturns []float64 `json:"simulated_returns,omitempty"`
}

// lossValue converts a signed return into a positive monetary loss, floored at
// zero when the return at the tail threshold is a gain.
func lossValue(ret, portfolioValue float64) float64 {
	loss := -ret * portfolioValue
	if loss < 0 {
		return 0
	}
	return loss
}
