package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/contactkeval/option-mc/internal/config"
	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/montecarlo"
	"github.com/contactkeval/option-mc/internal/pricing"
	"github.com/contactkeval/option-mc/internal/report"
)

func main() {
	configPath := flag.String("config", filepath.Join("configs", "option-mc.yaml"), "path to YAML config")
	paths := flag.Int("paths", 0, "number of simulated paths (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	randomSeed := flag.Bool("random-seed", false, "draw the seed from the clock")
	workers := flag.Int("workers", 0, "sampling goroutines, results do not depend on it (overrides config)")
	outDir := flag.String("out", "", "directory for pricing.json and histogram files (overrides config)")
	verbosity := flag.Int("v", 0, "0=error,1=info,2=debug,3=trace (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// flags explicitly set on the command line win over file and env
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "paths":
			cfg.Simulation.Paths = *paths
		case "seed":
			cfg.Simulation.Seed = seed
		case "workers":
			cfg.Simulation.Workers = *workers
		case "out":
			cfg.Report.OutputDir = *outDir
		case "v":
			cfg.Verbosity = *verbosity
		}
	})
	if *randomSeed {
		cfg.Simulation.Seed = nil
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger.SetVerbosity(cfg.Verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// run prices the configured contract by simulation and in closed form,
// prints the summary to w and writes report files when an output dir is set.
func run(ctx context.Context, cfg *config.Config, w io.Writer) error {
	params, err := cfg.ResolveMarket()
	if err != nil {
		return fmt.Errorf("resolving market: %w", err)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid market: %w", err)
	}

	sim, err := montecarlo.NewSimulator(cfg.SimulationConfig())
	if err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}

	start := time.Now()
	res, err := sim.Run(ctx, params)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Infof("simulated %d paths in %v (seed=%d)", res.Estimate.Paths, time.Since(start), res.Seed)

	out := report.Run{Params: params, Seed: res.Seed, Estimate: res.Estimate}
	analytic, err := pricing.Analytic(params)
	switch {
	case err == nil:
		out.Analytic = &analytic
	case errors.Is(err, pricing.ErrDegenerateInput):
		logger.Infof("skipping closed form: %v", err)
	default:
		return fmt.Errorf("black-scholes failed: %w", err)
	}

	if iv, err := pricing.ImpliedVolatility(params, res.Estimate.Call); err == nil {
		logger.Infof("volatility implied by the Monte Carlo call: %.4f (input %.4f)", iv, params.Volatility)
	} else {
		logger.Debugf("implied volatility: %v", err)
	}

	if err := report.WriteSummary(w, out); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if cfg.Report.OutputDir == "" {
		return nil
	}
	if err := writeOutputs(cfg.Report.OutputDir, cfg.Report.Bins, out, res.Sample); err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	logger.Infof("wrote pricing.json and histogram files to %s", cfg.Report.OutputDir)
	return nil
}

func writeOutputs(dir string, bins int, priced report.Run, sample montecarlo.Sample) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := report.WriteJSON(priced, dir); err != nil {
		return err
	}
	h, err := report.NewHistogram(sample, bins)
	if err != nil {
		return err
	}
	if err := report.WriteHistogramJSON(h, dir); err != nil {
		return err
	}
	return report.WriteHistogramCSV(h, dir)
}
