package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskcalc/internal/riskconfig"
)

// z99 is the standard normal quantile at alpha = 0.01.
const z99 = -2.3263478740408408

func stdNormalPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func singleAssetZeroMeanPortfolio() riskconfig.Portfolio {
	return riskconfig.Portfolio{
		Name:                  "Single Asset Zero Mean",
		PortfolioValue:        1_000_000,
		AssetNames:            []string{"Equity"},
		Weights:               []float64{1.0},
		ExpectedAnnualReturns: []float64{0.0},
		AnnualVolatilities:    []float64{0.15873},
		CorrelationMatrix:     [][]float64{{1.0}},
		ConfidenceLevel:       0.99,
		TimeHorizonDays:       1,
		NumSimulations:        1000,
		TradingDaysPerYear:    252,
	}
}

func TestComputeParametric_SingleAssetZeroMean(t *testing.T) {
	p := singleAssetZeroMeanPortfolio()
	dailyVol := p.AnnualVolatilities[0] / math.Sqrt(252)

	result, err := testEngine().ComputeParametric(&p)
	require.NoError(t, err)

	expectedVaR := dailyVol * z99
	expectedES := -dailyVol * stdNormalPDF(z99) / 0.01

	assert.Equal(t, MethodParametric, result.Method)
	assert.InDelta(t, expectedVaR, result.VaRReturn, 1e-9)
	assert.InDelta(t, expectedES, result.ESReturn, 1e-9)
	assert.InDelta(t, -expectedVaR*p.PortfolioValue, result.VaRValue, 1e-3)
	assert.InDelta(t, -expectedES*p.PortfolioValue, result.ESValue, 1e-3)
	assert.Empty(t, result.SimulatedReturns, "parametric results carry no simulated paths")
}

func TestComputeParametric_ESWorseThanVaR(t *testing.T) {
	confidences := []float64{0.90, 0.95, 0.99, 0.995}
	for _, confidence := range confidences {
		p := riskconfig.DefaultPortfolio()
		p.ConfidenceLevel = confidence

		result, err := testEngine().ComputeParametric(&p)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.ESReturn, result.VaRReturn,
			"ES return must be an equal-or-worse loss at confidence %g", confidence)
		assert.GreaterOrEqual(t, result.ESValue, result.VaRValue)
	}
}

func TestComputeParametric_InvalidWeights(t *testing.T) {
	p := riskconfig.DefaultPortfolio()
	p.AssetNames = []string{"A", "B"}
	p.Weights = []float64{0.5, 0.6}
	p.ExpectedAnnualReturns = []float64{0.05, 0.05}
	p.AnnualVolatilities = []float64{0.1, 0.1}
	p.CorrelationMatrix = [][]float64{{1, 0}, {0, 1}}

	_, err := testEngine().ComputeParametric(&p)
	require.ErrorIs(t, err, riskconfig.ErrInvalidConfiguration)
}

func TestEstimateParametric_Defensive(t *testing.T) {
	_, err := estimateParametric(1_000_000, 0.0, 0.01, 1.5)
	require.ErrorIs(t, err, riskconfig.ErrInvalidConfiguration)

	_, err = estimateParametric(1_000_000, 0.0, -0.01, 0.99)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestEstimateParametric_ZeroVolatility(t *testing.T) {
	// With zero volatility both measures collapse to the horizon mean.
	result, err := estimateParametric(1_000_000, 0.002, 0, 0.99)
	require.NoError(t, err)
	assert.InDelta(t, 0.002, result.VaRReturn, 1e-12)
	assert.InDelta(t, 0.002, result.ESReturn, 1e-12)
	assert.Equal(t, 0.0, result.VaRValue, "a positive return is not a loss")
}
