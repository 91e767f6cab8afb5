package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/riskcalc/internal/database"
	"github.com/aristath/riskcalc/internal/modules/results"
	"github.com/aristath/riskcalc/internal/risk"
	"github.com/aristath/riskcalc/internal/riskconfig"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := results.NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, err)

	return New(Config{
		Log:         zerolog.Nop(),
		Port:        0,
		Engine:      risk.NewEngine(zerolog.Nop()),
		Runs:        repo,
		DefaultSeed: 42,
	})
}

func postPortfolio(t *testing.T, srv *Server, path string, p riskconfig.Portfolio) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(p)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

type resultEnvelope struct {
	Data     risk.Result            `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

func TestHandleParametric(t *testing.T) {
	srv := testServer(t)
	rec := postPortfolio(t, srv, "/api/risk/parametric", riskconfig.DefaultPortfolio())
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope resultEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, risk.MethodParametric, envelope.Data.Method)
	assert.LessOrEqual(t, envelope.Data.ESReturn, envelope.Data.VaRReturn)
	assert.NotEmpty(t, envelope.Metadata["run_id"])
}

func TestHandleParametric_InvalidWeights(t *testing.T) {
	srv := testServer(t)
	p := riskconfig.DefaultPortfolio()
	p.Weights = []float64{0.5, 0.3, 0.3}

	rec := postPortfolio(t, srv, "/api/risk/parametric", p)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMonteCarlo(t *testing.T) {
	srv := testServer(t)
	p := riskconfig.DefaultPortfolio()
	p.NumSimulations = 500
	p.TimeHorizonDays = 2

	rec := postPortfolio(t, srv, "/api/risk/montecarlo?seed=7", p)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope resultEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, risk.MethodMonteCarlo, envelope.Data.Method)
	assert.Len(t, envelope.Data.SimulatedReturns, 500)
	assert.Equal(t, false, envelope.Metadata["simulated_returns_elided"])
}

func TestHandleMonteCarlo_ElidesLargeReturnSets(t *testing.T) {
	srv := testServer(t)
	p := riskconfig.DefaultPortfolio()
	p.NumSimulations = 2000
	p.TimeHorizonDays = 1

	rec := postPortfolio(t, srv, "/api/risk/montecarlo", p)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope resultEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.SimulatedReturns)
	assert.Equal(t, true, envelope.Metadata["simulated_returns_elided"])
}

func TestHandleMonteCarlo_NonPositiveDefinite(t *testing.T) {
	srv := testServer(t)
	p := riskconfig.Portfolio{
		Name:                  "Degenerate",
		PortfolioValue:        1000,
		AssetNames:            []string{"A", "B"},
		Weights:               []float64{0.5, 0.5},
		ExpectedAnnualReturns: []float64{0.05, 0.05},
		AnnualVolatilities:    []float64{0.2, 0.2},
		CorrelationMatrix:     [][]float64{{1, 1}, {1, 1}},
		ConfidenceLevel:       0.99,
		TimeHorizonDays:       5,
		NumSimulations:        100,
		TradingDaysPerYear:    252,
	}

	rec := postPortfolio(t, srv, "/api/risk/montecarlo", p)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunHistoryEndpoints(t *testing.T) {
	srv := testServer(t)
	p := riskconfig.DefaultPortfolio()
	p.NumSimulations = 300
	p.TimeHorizonDays = 1

	rec := postPortfolio(t, srv, "/api/risk/montecarlo?seed=3", p)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope resultEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	runID := envelope.Metadata["run_id"].(string)
	require.NotEmpty(t, runID)

	// List
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/risk/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), runID)

	// Get
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/risk/runs/"+runID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Histogram
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/risk/runs/"+runID+"/histogram", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	// Unknown run
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/risk/runs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
