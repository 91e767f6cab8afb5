// Package results persists the history of risk calculation runs.
package results

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/riskcalc/internal/risk"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is a stored risk calculation result. SimulatedReturns is populated for
// Monte Carlo runs only and is loaded on demand (Get, not List).
type Run struct {
	ID               string    `json:"id"`
	PortfolioName    string    `json:"portfolio_name"`
	Method           string    `json:"method"`
	ConfidenceLevel  float64   `json:"confidence_level"`
	TimeHorizonDays  int       `json:"time_horizon_days"`
	VaRReturn        float64   `json:"var_return"`
	VaRValue         float64   `json:"var_value"`
	ESReturn         float64   `json:"es_return"`
	ESValue          float64   `json:"es_value"`
	CreatedAt        time.Time `json:"created_at"`
	SimulatedReturns []float64 `json:"simulated_returns,omitempty"`
}

// Repository handles run persistence in the results database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates the repository and ensures the schema exists.
func NewRepository(db *sql.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("repo", "results").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	schema := `CREATE TABLE IF NOT EXISTS risk_runs (
		id TEXT PRIMARY KEY,
		portfolio_name TEXT NOT NULL,
		method TEXT NOT NULL,
		confidence_level REAL NOT NULL,
		time_horizon_days INTEGER NOT NULL,
		var_return REAL NOT NULL,
		var_value REAL NOT NULL,
		es_return REAL NOT NULL,
		es_value REAL NOT NULL,
		simulated_returns BLOB,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_risk_runs_created_at ON risk_runs(created_at);`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create risk_runs schema: %w", err)
	}
	return nil
}

// Save stores a computed result and returns the generated run id. The
// simulated-returns sequence is msgpack-encoded to keep large Monte Carlo runs
// compact.
func (r *Repository) Save(portfolioName string, confidence float64, horizonDays int, res *risk.Result) (string, error) {
	id := uuid.NewString()

	var blob []byte
	if len(res.SimulatedReturns) > 0 {
		encoded, err := msgpack.Marshal(res.SimulatedReturns)
		if err != nil {
			return "", fmt.Errorf("failed to encode simulated returns: %w", err)
		}
		blob = encoded
	}

	_, err := r.db.Exec(
		`INSERT INTO risk_runs (id, portfolio_name, method, confidence_level, time_horizon_days,
			var_return, var_value, es_return, es_value, simulated_returns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, portfolioName, res.Method, confidence, horizonDays,
		res.VaRReturn, res.VaRValue, res.ESReturn, res.ESValue, blob,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	r.log.Debug().Str("run_id", id).Str("method", res.Method).Msg("Stored risk run")
	return id, nil
}

// List returns the most recent runs, newest first, without simulated returns.
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, portfolio_name, method, confidence_level, time_horizon_days,
			var_return, var_value, es_return, es_value, created_at
		FROM risk_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run including its simulated-returns sequence.
func (r *Repository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(
		`SELECT id, portfolio_name, method, confidence_level, time_horizon_days,
			var_return, var_value, es_return, es_value, created_at, simulated_returns
		FROM risk_runs WHERE id = ?`, id)

	var run Run
	var createdAt string
	var blob []byte
	err := row.Scan(&run.ID, &run.PortfolioName, &run.Method, &run.ConfidenceLevel,
		&run.TimeHorizonDays, &run.VaRReturn, &run.VaRValue, &run.ESReturn,
		&run.ESValue, &createdAt, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if len(blob) > 0 {
		if err := msgpack.Unmarshal(blob, &run.SimulatedReturns); err != nil {
			return nil, fmt.Errorf("failed to decode simulated returns for %s: %w", id, err)
		}
	}
	return &run, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var createdAt string
	err := rows.Scan(&run.ID, &run.PortfolioName, &run.Method, &run.ConfidenceLevel,
		&run.TimeHorizonDays, &run.VaRReturn, &run.VaRValue, &run.ESReturn,
		&run.ESValue, &createdAt)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return run, nil
}
