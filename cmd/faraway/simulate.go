package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/faraway/internal/config"
	"github.com/lox/faraway/internal/randutil"
	"github.com/lox/faraway/internal/simulator"
)

type SimulateCmd struct {
	Games      int           `short:"n" help:"Number of games (default from config)"`
	Players    int           `short:"p" help:"Number of players (default from config)"`
	Parallel   int           `short:"j" help:"Games played concurrently (default from config)"`
	Seed       int64         `help:"Seed of the first game (0 for random)"`
	Strategies []string      `help:"Strategy per seat, cycled when shorter than the table (dumb, random, greedy)"`
	MaxRounds  int           `help:"Rounds per game, 0 keeps the config value"`
	Timeout    time.Duration `help:"Per-game watchdog timeout, 0 keeps the config value"`
	Output     string        `short:"o" type:"path" help:"Write a JSON report to this file"`
	Verbose    bool          `help:"Verbose logging"`
}

// apply copies the flags that were set over the loaded configuration
func (c *SimulateCmd) apply(cfg *config.Config) {
	if c.Games > 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Players > 0 {
		cfg.Session.Players = c.Players
	}
	if c.Parallel > 0 {
		cfg.Simulation.Parallel = c.Parallel
	}
	if len(c.Strategies) > 0 {
		cfg.Simulation.Strategies = c.Strategies
	}
	if c.MaxRounds > 0 {
		cfg.Simulation.MaxRounds = c.MaxRounds
	}
	if c.Timeout > 0 {
		cfg.Simulation.Timeout = c.Timeout.String()
	}
}

// logLevel is the configured level, raised to debug by --verbose
func (c *SimulateCmd) logLevel(cfg *config.Config) log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	return cfg.LogLevel()
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = cfg.Session.Seed
	}
	if seed == 0 {
		seed = randutil.TimeSeed()
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: c.logLevel(cfg)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulator.New(simulator.Config{
		Games:      cfg.Simulation.Games,
		Players:    cfg.Session.Players,
		Copies:     cfg.Session.Copies,
		Seed:       seed,
		Strategies: cfg.Lineup(),
		MaxRounds:  cfg.Simulation.MaxRounds,
		Parallel:   cfg.Simulation.Parallel,
		Timeout:    cfg.TimeoutDuration(),
		Logger:     logger,
	})

	fmt.Println(titleStyle.Render("Faraway simulation"))
	fmt.Printf("Starting simulation: %d games, lineup %s (seed: %d)\n",
		cfg.Simulation.Games, sim.Lineup(), seed)

	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	report := sim.NewReport(stats)
	simulator.PrintSummary(os.Stdout, report)

	if c.Output != "" {
		if err := report.WriteFile(c.Output); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", c.Output)
	}
	return nil
}
