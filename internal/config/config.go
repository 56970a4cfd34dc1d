package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/contactkeval/option-mc/internal/data"
	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/montecarlo"
	"github.com/contactkeval/option-mc/internal/pricing"
	"github.com/contactkeval/option-mc/internal/report"
)

// Config holds all application configuration.
type Config struct {
	Market struct {
		pricing.MarketParams `yaml:",inline"`
		BarsFile             string `yaml:"bars_file"` // when set, spot and volatility come from this CSV
	} `yaml:"market"`
	Simulation struct {
		Paths   int    `yaml:"paths"`
		Seed    *int64 `yaml:"seed"` // null draws a seed from the clock
		Workers int    `yaml:"workers"`
	} `yaml:"simulation"`
	Report struct {
		OutputDir string `yaml:"output_dir"` // empty skips JSON/CSV output
		Bins      int    `yaml:"bins"`
	} `yaml:"report"`
	Verbosity int `yaml:"verbosity"` // 0=error,1=info,2=debug,3=trace
}

// Default returns the reference contract: S0=100, K=105, T=1, r=5%, σ=20%,
// 100000 paths with seed 42.
func Default() *Config {
	cfg := &Config{}
	cfg.Market.MarketParams = pricing.MarketParams{
		Spot:       100,
		Strike:     105,
		Maturity:   1.0,
		Rate:       0.05,
		Volatility: 0.2,
	}
	seed := int64(42)
	cfg.Simulation.Paths = 100000
	cfg.Simulation.Seed = &seed
	cfg.Simulation.Workers = 1
	cfg.Report.Bins = report.DefaultBins
	cfg.Verbosity = int(logger.Info)
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error; keys
// absent from the file keep their default.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(raw) > 0 {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variable overrides
func (c *Config) applyEnv() error {
	if v := os.Getenv("OPTION_MC_PATHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OPTION_MC_PATHS: %w", err)
		}
		c.Simulation.Paths = n
	}
	if v := os.Getenv("OPTION_MC_SEED"); v != "" {
		if v == "random" {
			c.Simulation.Seed = nil
		} else {
			seed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("OPTION_MC_SEED: %w", err)
			}
			c.Simulation.Seed = &seed
		}
	}
	if v := os.Getenv("OPTION_MC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OPTION_MC_WORKERS: %w", err)
		}
		c.Simulation.Workers = n
	}
	if v := os.Getenv("OPTION_MC_OUTPUT_DIR"); v != "" {
		c.Report.OutputDir = v
	}
	if v := os.Getenv("OPTION_MC_VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			l, perr := logger.ParseLevel(v)
			if perr != nil {
				return fmt.Errorf("OPTION_MC_VERBOSITY: %w", perr)
			}
			n = int(l)
		}
		c.Verbosity = n
	}
	return nil
}

// ResolveMarket returns the market parameters, replacing spot and volatility
// with the last close and historical volatility of BarsFile when one is set.
func (c *Config) ResolveMarket() (pricing.MarketParams, error) {
	p := c.Market.MarketParams
	if c.Market.BarsFile == "" {
		return p, nil
	}

	bars, err := data.LoadCSVBars(c.Market.BarsFile)
	if err != nil {
		return pricing.MarketParams{}, err
	}
	spot, vol, err := data.Snapshot(bars)
	if err != nil {
		return pricing.MarketParams{}, fmt.Errorf("snapshot %s: %w", c.Market.BarsFile, err)
	}
	logger.Infof("market from %s: spot=%.4f hist vol=%.2f%%", c.Market.BarsFile, spot, vol*100)

	p.Spot, p.Volatility = spot, vol
	return p, nil
}

// SimulationConfig converts the simulation section.
func (c *Config) SimulationConfig() montecarlo.Config {
	out := montecarlo.Config{Paths: c.Simulation.Paths, Workers: c.Simulation.Workers}
	if c.Simulation.Seed != nil {
		seed := uint64(*c.Simulation.Seed)
		out.Seed = &seed
	}
	return out
}

// Validate checks every parameter before any computation starts.
// Market parameters are checked unless they come from BarsFile.
func (c *Config) Validate() error {
	if c.Market.BarsFile == "" {
		if err := c.Market.MarketParams.Validate(); err != nil {
			return fmt.Errorf("market: %w", err)
		}
	}
	if err := c.SimulationConfig().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.Report.Bins < 1 {
		return fmt.Errorf("report.bins must be at least 1, got %d", c.Report.Bins)
	}
	if c.Verbosity < int(logger.Error) || c.Verbosity > int(logger.Trace) {
		return fmt.Errorf("verbosity must be between %d and %d, got %d", logger.Error, logger.Trace, c.Verbosity)
	}
	return nil
}
