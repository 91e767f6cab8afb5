package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/riskcalc/internal/modules/report"
	"github.com/aristath/riskcalc/internal/modules/results"
	"github.com/aristath/riskcalc/internal/risk"
	"github.com/aristath/riskcalc/internal/riskconfig"
)

// maxInlineReturns caps how many simulated returns are echoed back in the JSON
// response; larger sequences stay available through the stored run.
const maxInlineReturns = 1000

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startupTime).String(),
	})
}

// handleParametric handles POST /api/risk/parametric.
func (s *Server) handleParametric(w http.ResponseWriter, r *http.Request) {
	portfolio, ok := s.decodePortfolio(w, r)
	if !ok {
		return
	}

	result, err := s.engine.ComputeParametric(portfolio)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	runID := s.persistRun(portfolio, result)
	s.writeResult(w, portfolio, result, runID)
}

// handleMonteCarlo handles POST /api/risk/montecarlo. An optional ?seed= query
// parameter overrides the configured default; with no seed at all, results
// vary run to run, which is expected for an unseeded simulation.
func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	portfolio, ok := s.decodePortfolio(w, r)
	if !ok {
		return
	}

	seed := s.defaultSeed
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed parameter", http.StatusBadRequest)
			return
		}
		seed = parsed
	}

	if err := portfolio.Validate(); err != nil {
		s.writeEngineError(w, err)
		return
	}

	daily := risk.NewDailyStats(portfolio)
	result, err := s.engine.ComputeMonteCarlo(portfolio, daily, &risk.SimulationOptions{Seed: seed})
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	runID := s.persistRun(portfolio, result)
	s.writeResult(w, portfolio, result, runID)
}

// handleListRuns handles GET /api/risk/runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	runs, err := s.runs.List(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": runs,
		"metadata": map[string]interface{}{
			"count":     len(runs),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// handleGetRun handles GET /api/risk/runs/{id}.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"data": run})
}

// handleRunHistogram handles GET /api/risk/runs/{id}/histogram, serving a PNG
// of the stored simulated-return distribution.
func (s *Server) handleRunHistogram(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	if len(run.SimulatedReturns) == 0 {
		http.Error(w, "run has no simulated returns (parametric method)", http.StatusUnprocessableEntity)
		return
	}

	res := &risk.Result{
		Method:           run.Method,
		VaRReturn:        run.VaRReturn,
		VaRValue:         run.VaRValue,
		ESReturn:         run.ESReturn,
		ESValue:          run.ESValue,
		SimulatedReturns: run.SimulatedReturns,
	}
	img, err := report.HistogramPNG(res, run.PortfolioName, run.TimeHorizonDays)
	if err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to render histogram")
		http.Error(w, "Failed to render histogram", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*results.Run, bool) {
	id := chi.URLParam(r, "id")
	run, err := s.runs.Get(id)
	if err != nil {
		if errors.Is(err, results.ErrRunNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
		} else {
			s.log.Error().Err(err).Str("run_id", id).Msg("Failed to load run")
			http.Error(w, "Failed to load run", http.StatusInternalServerError)
		}
		return nil, false
	}
	return run, true
}

func (s *Server) decodePortfolio(w http.ResponseWriter, r *http.Request) (*riskconfig.Portfolio, bool) {
	var portfolio riskconfig.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		http.Error(w, "invalid portfolio payload: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if portfolio.TradingDaysPerYear == 0 {
		portfolio.TradingDaysPerYear = 252
	}
	return &portfolio, true
}

// persistRun stores the result; persistence failures are logged but never fail
// the request, since the computation itself succeeded.
func (s *Server) persistRun(p *riskconfig.Portfolio, res *risk.Result) string {
	runID, err := s.runs.Save(p.Name, p.ConfidenceLevel, p.TimeHorizonDays, res)
	if err != nil {
		s.log.Error().Err(err).Str("method", res.Method).Msg("Failed to persist run")
		return ""
	}
	return runID
}

func (s *Server) writeResult(w http.ResponseWriter, p *riskconfig.Portfolio, res *risk.Result, runID string) {
	truncated := false
	payload := *res
	if len(payload.SimulatedReturns) > maxInlineReturns {
		payload.SimulatedReturns = nil
		truncated = true
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": payload,
		"metadata": map[string]interface{}{
			"portfolio":                p.Name,
			"confidence_level":         p.ConfidenceLevel,
			"time_horizon_days":        p.TimeHorizonDays,
			"run_id":                   runID,
			"simulated_returns_elided": truncated,
			"timestamp":                time.Now().Format(time.RFC3339),
		},
	})
}

// writeEngineError maps engine failures onto HTTP statuses: configuration
// problems are client errors, matrix/sample failures are unprocessable input,
// everything else is a server error.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, riskconfig.ErrInvalidConfiguration), errors.Is(err, risk.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, risk.ErrNonPositiveDefinite), errors.Is(err, risk.ErrInsufficientSamples):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.log.Error().Err(err).Msg("Risk calculation failed")
		http.Error(w, "Risk calculation failed", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
