package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjackbots/cmd/blackjackbots/shared"
	"github.com/lox/blackjackbots/internal/config"
	"github.com/lox/blackjackbots/internal/simulator"
)

// SimulateCmd plays a run of games with the configured bots
type SimulateCmd struct {
	Config   string        `kong:"short='c',default='blackjack.hcl',help='HCL config file (defaults are used when missing)'"`
	Games    int           `kong:"short='n',default='100',help='Number of games to play'"`
	Seed     *int64        `kong:"help='Deterministic RNG seed (overrides table.seed)'"`
	LogLevel string        `kong:"help='Log level: debug, info, warn or error (overrides log_level)'"`
	Fast     bool          `kong:"help='Play without think delays'"`
	Timeout  time.Duration `kong:"default='5m',help='Abort if a single game takes longer than this'"`
	Detail   bool          `kong:"help='Print the full per-seat breakdown'"`
	Report   string        `kong:"help='Write a JSON report to this file'"`
}

func (c *SimulateCmd) Run() error {
	settings, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		settings.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		settings.Table.Seed = *c.Seed
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", c.Config, err)
	}

	logger, err := shared.SetupLogger(settings.LogLevel)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandlerWithLogger(logger)
	defer cancel()

	logger.Info("Starting simulation",
		"games", c.Games,
		"bots", len(settings.Bots),
		"decks", settings.Table.Decks,
		"penetration", settings.Table.Penetration,
		"fast", c.Fast)

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Games:       c.Games,
		Seed:        settings.Table.Seed,
		Fast:        c.Fast,
		GameTimeout: c.Timeout,
		Settings:    settings,
		Logger:      logger,
	})
	results, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond), "seed", results.Seed)

	renderSummary(os.Stdout, results)
	if c.Detail {
		simulator.PrintSummary(os.Stdout, results)
	}
	if c.Report != "" {
		if err := simulator.WriteReport(c.Report, results); err != nil {
			return err
		}
		logger.Info("Wrote report", "file", c.Report)
	}
	return nil
}
