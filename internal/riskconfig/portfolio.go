// Package riskconfig defines the portfolio configuration record consumed by the
// risk engine. A Portfolio is constructed once per run, validated up front, and
// never mutated by any downstream component.
package riskconfig

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned for malformed portfolio parameters.
// All validation failures wrap this sentinel so callers can match with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// WeightSumTolerance is the maximum allowed deviation of the weight sum from 1.0.
const WeightSumTolerance = 1e-6

// matrixTolerance bounds symmetry and unit-diagonal checks on the correlation matrix.
const matrixTolerance = 1e-9

// Portfolio is an immutable snapshot of portfolio and market assumptions.
// Weights may be negative (short positions) but must sum to 1.
type Portfolio struct {
	Name                  string      `yaml:"name" json:"name"`
	PortfolioValue        float64     `yaml:"portfolio_value" json:"portfolio_value"`
	AssetNames            []string    `yaml:"asset_names" json:"asset_names"`
	Weights               []float64   `yaml:"weights" json:"weights"`
	ExpectedAnnualReturns []float64   `yaml:"expected_annual_returns" json:"expected_annual_returns"`
	AnnualVolatilities    []float64   `yaml:"annual_volatilities" json:"annual_volatilities"`
	CorrelationMatrix     [][]float64 `yaml:"correlation_matrix" json:"correlation_matrix"`
	ConfidenceLevel       float64     `yaml:"confidence_level" json:"confidence_level"`
	TimeHorizonDays       int         `yaml:"time_horizon_days" json:"time_horizon_days"`
	NumSimulations        int         `yaml:"num_simulations" json:"num_simulations"`
	TradingDaysPerYear    int         `yaml:"trading_days_per_year" json:"trading_days_per_year"`
}

// NumAssets returns the number of assets in the portfolio.
func (p *Portfolio) NumAssets() int {
	return len(p.AssetNames)
}

// Validate checks every structural invariant of the configuration. It fails fast
// with ErrInvalidConfiguration before any statistics are computed, so a calculation
// never starts on malformed inputs.
func (p *Portfolio) Validate() error {
	n := len(p.AssetNames)
	if n < 1 {
		return fmt.Errorf("%w: at least one asset is required", ErrInvalidConfiguration)
	}
	if p.PortfolioValue <= 0 {
		return fmt.Errorf("%w: portfolio value must be positive, got %g", ErrInvalidConfiguration, p.PortfolioValue)
	}
	if len(p.Weights) != n {
		return fmt.Errorf("%w: %d weights for %d assets", ErrInvalidConfiguration, len(p.Weights), n)
	}
	if len(p.ExpectedAnnualReturns) != n {
		return fmt.Errorf("%w: %d expected returns for %d assets", ErrInvalidConfiguration, len(p.ExpectedAnnualReturns), n)
	}
	if len(p.AnnualVolatilities) != n {
		return fmt.Errorf("%w: %d volatilities for %d assets", ErrInvalidConfiguration, len(p.AnnualVolatilities), n)
	}

	sum := 0.0
	for _, w := range p.Weights {
		sum += w
	}
	if math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.8f, expected 1.0", ErrInvalidConfiguration, sum)
	}

	for i, vol := range p.AnnualVolatilities {
		if vol < 0 {
			return fmt.Errorf("%w: volatility for %s is negative (%g)", ErrInvalidConfiguration, p.AssetNames[i], vol)
		}
	}

	if err := p.validateCorrelationMatrix(n); err != nil {
		return err
	}

	if p.ConfidenceLevel <= 0 || p.ConfidenceLevel >= 1 {
		return fmt.Errorf("%w: confidence level must be in (0,1), got %g", ErrInvalidConfiguration, p.ConfidenceLevel)
	}
	if p.TimeHorizonDays <= 0 {
		return fmt.Errorf("%w: time horizon must be positive, got %d", ErrInvalidConfiguration, p.TimeHorizonDays)
	}
	if p.NumSimulations <= 0 {
		return fmt.Errorf("%w: number of simulations must be positive, got %d", ErrInvalidConfiguration, p.NumSimulations)
	}
	if p.TradingDaysPerYear <= 0 {
		return fmt.Errorf("%w: trading days per year must be positive, got %d", ErrInvalidConfiguration, p.TradingDaysPerYear)
	}

	return nil
}

// validateCorrelationMatrix checks shape, symmetry, unit diagonal and entry range.
// Positive definiteness is not checked here; the Monte Carlo path surfaces it as a
// factorization failure, and the parametric path never needs it.
func (p *Portfolio) validateCorrelationMatrix(n int) error {
	if len(p.CorrelationMatrix) != n {
		return fmt.Errorf("%w: correlation matrix has %d rows, expected %d", ErrInvalidConfiguration, len(p.CorrelationMatrix), n)
	}
	for i, row := range p.CorrelationMatrix {
		if len(row) != n {
			return fmt.Errorf("%w: correlation matrix row %d has %d columns, expected %d", ErrInvalidConfiguration, i, len(row), n)
		}
		for j, v := range row {
			if v < -1-matrixTolerance || v > 1+matrixTolerance {
				return fmt.Errorf("%w: correlation [%d][%d] = %g outside [-1,1]", ErrInvalidConfiguration, i, j, v)
			}
		}
	}
	for i := 0; i < n; i++ {
		if math.Abs(p.CorrelationMatrix[i][i]-1.0) > matrixTolerance {
			return fmt.Errorf("%w: correlation diagonal [%d][%d] = %g, expected 1.0", ErrInvalidConfiguration, i, i, p.CorrelationMatrix[i][i])
		}
		for j := i + 1; j < n; j++ {
			if math.Abs(p.CorrelationMatrix[i][j]-p.CorrelationMatrix[j][i]) > matrixTolerance {
				return fmt.Errorf("%w: correlation matrix is not symmetric at [%d][%d]", ErrInvalidConfiguration, i, j)
			}
		}
	}
	return nil
}

// DefaultPortfolio returns the built-in diversified sample portfolio used when no
// portfolio file is configured.
func DefaultPortfolio() Portfolio {
	return Portfolio{
		Name:                  "Default Diversified Portfolio",
		PortfolioValue:        1_000_000,
		AssetNames:            []string{"Equity_US", "Bond_EU", "Commodity_Gold"},
		Weights:               []float64{0.5, 0.3, 0.2},
		ExpectedAnnualReturns: []float64{0.08, 0.03, 0.05},
		AnnualVolatilities:    []float64{0.15, 0.05, 0.18},
		CorrelationMatrix: [][]float64{
			{1.0, 0.2, 0.1},
			{0.2, 1.0, 0.05},
			{0.1, 0.05, 1.0},
		},
		ConfidenceLevel:    0.99,
		TimeHorizonDays:    10,
		NumSimulations:     10_000,
		TradingDaysPerYear: 252,
	}
}
