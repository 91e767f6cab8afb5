package risk

import "errors"

// Fatal error conditions surfaced by the engine. All of them stem from invalid
// inputs, not transient conditions, so nothing is retried.
var (
	// ErrInvalidInput marks a defensive check failure on derived inputs, such as
	// a negative horizon volatility that should never arise from a valid
	// covariance matrix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonPositiveDefinite is returned when the daily covariance matrix fails
	// Cholesky factorization. This is fatal for the Monte Carlo path only; the
	// parametric path never factorizes. Correct resolution is to fix the input
	// correlation or volatility data upstream, not to fall back.
	ErrNonPositiveDefinite = errors.New("covariance matrix is not positive definite")

	// ErrInsufficientSamples is returned when the tail set for Expected Shortfall
	// is empty for the configured number of simulations and confidence level.
	ErrInsufficientSamples = errors.New("insufficient simulation samples for tail estimate")
)
