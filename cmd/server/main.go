// Package main is the entry point for the portfolio risk service. It computes
// Value-at-Risk and Expected Shortfall for configured portfolios using two
// independent methodologies (parametric variance-covariance and Monte Carlo
// simulation), persists every run, and serves results over HTTP.
//
// Two modes:
//   - default: long-running HTTP server with optional cron-scheduled
//     recalculation of the configured portfolios
//   - -once: one-shot batch calculation printed to stdout, with the Monte
//     Carlo histogram written into the data directory
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/aristath/riskcalc/internal/config"
	"github.com/aristath/riskcalc/internal/database"
	"github.com/aristath/riskcalc/internal/modules/report"
	"github.com/aristath/riskcalc/internal/modules/results"
	"github.com/aristath/riskcalc/internal/risk"
	"github.com/aristath/riskcalc/internal/riskconfig"
	"github.com/aristath/riskcalc/internal/server"
	"github.com/aristath/riskcalc/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "run a single batch calculation and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting risk service")

	portfolios, err := loadPortfolios(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load portfolios")
	}
	log.Info().Int("portfolios", len(portfolios)).Msg("Loaded portfolio configuration")

	db, err := database.Open(filepath.Join(cfg.DataDir, "results.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open results database")
	}
	defer db.Close()

	runRepo, err := results.NewRepository(db.Conn(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize run repository")
	}

	engine := risk.NewEngine(log)

	if *once {
		if err := runBatch(cfg, log, engine, runRepo, portfolios); err != nil {
			log.Fatal().Err(err).Msg("Batch calculation failed")
		}
		return
	}

	srv := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		Engine:      engine,
		Runs:        runRepo,
		DefaultSeed: cfg.Seed,
	})

	var scheduler *cron.Cron
	if cfg.RecalcCron != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.RecalcCron, func() {
			if err := runBatch(cfg, log, engine, runRepo, portfolios); err != nil {
				log.Error().Err(err).Msg("Scheduled recalculation failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.RecalcCron).Msg("Invalid recalculation schedule")
		}
		scheduler.Start()
		log.Info().Str("cron", cfg.RecalcCron).Msg("Scheduled periodic recalculation")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Stopped")
}

// loadPortfolios reads the configured portfolio file, or falls back to the
// built-in default portfolio when none is set.
func loadPortfolios(cfg *config.Config) ([]riskconfig.Portfolio, error) {
	if cfg.PortfolioFile == "" {
		return []riskconfig.Portfolio{riskconfig.DefaultPortfolio()}, nil
	}
	return riskconfig.Load(cfg.PortfolioFile)
}

// runBatch computes both risk measures for every portfolio, prints the result
// blocks, persists the runs, and writes each Monte Carlo histogram to the
// data directory.
func runBatch(cfg *config.Config, log zerolog.Logger, engine *risk.Engine, runRepo *results.Repository, portfolios []riskconfig.Portfolio) error {
	for i := range portfolios {
		p := &portfolios[i]

		parametric, err := engine.ComputeParametric(p)
		if err != nil {
			return fmt.Errorf("parametric calculation for %q: %w", p.Name, err)
		}
		report.RenderText(os.Stdout, p, parametric)
		if _, err := runRepo.Save(p.Name, p.ConfidenceLevel, p.TimeHorizonDays, parametric); err != nil {
			log.Error().Err(err).Msg("Failed to persist parametric run")
		}

		daily := risk.NewDailyStats(p)
		monteCarlo, err := engine.ComputeMonteCarlo(p, daily, &risk.SimulationOptions{Seed: cfg.Seed})
		if err != nil {
			return fmt.Errorf("monte carlo calculation for %q: %w", p.Name, err)
		}
		report.RenderText(os.Stdout, p, monteCarlo)
		if _, err := runRepo.Save(p.Name, p.ConfidenceLevel, p.TimeHorizonDays, monteCarlo); err != nil {
			log.Error().Err(err).Msg("Failed to persist monte carlo run")
		}

		img, err := report.HistogramPNG(monteCarlo, p.Name, p.TimeHorizonDays)
		if err != nil {
			log.Warn().Err(err).Str("portfolio", p.Name).Msg("Histogram rendering skipped")
			continue
		}
		chartPath := filepath.Join(cfg.DataDir, fmt.Sprintf("histogram_%d.png", i))
		if err := os.WriteFile(chartPath, img, 0644); err != nil {
			log.Warn().Err(err).Str("path", chartPath).Msg("Failed to write histogram")
			continue
		}
		log.Info().Str("path", chartPath).Msg("Wrote simulated-returns histogram")
	}
	return nil
}
