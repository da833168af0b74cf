// Package simulator plays bot-only games in bulk and aggregates the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/faraway/internal/bot"
	"github.com/lox/faraway/internal/game"
	"github.com/lox/faraway/internal/randutil"
	"github.com/lox/faraway/internal/statistics"
)

// ErrGameTimeout is returned for a game the watchdog abandoned
var ErrGameTimeout = errors.New("game timed out")

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Players    int
	Copies     int
	Seed       int64
	Strategies []string // strategy per seat, cycled when shorter than Players
	MaxRounds  int      // 0 plays until the deck runs out
	Parallel   int      // concurrent games, 0 means 1

	// Timeout abandons a game that runs longer. The abandoned game's bots
	// stop at their next decision, but a strategy that never returns keeps
	// its goroutine, so live games can briefly exceed Parallel.
	Timeout time.Duration
	Clock   quartz.Clock
	Logger  *log.Logger
}

type strategyFactory func(name string, rng *rand.Rand, logger *log.Logger) (bot.Strategy, error)

// Simulator runs game simulations
type Simulator struct {
	config      Config
	newStrategy strategyFactory
	elapsed     time.Duration
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Players == 0 {
		config.Players = 4
	}
	if config.Copies == 0 {
		config.Copies = 4
	}
	if config.Parallel <= 0 {
		config.Parallel = 1
	}
	if len(config.Strategies) == 0 {
		config.Strategies = []string{bot.Dumb}
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config, newStrategy: bot.New}
}

// Elapsed returns how long the last Run took
func (s *Simulator) Elapsed() time.Duration { return s.elapsed }

// Config returns the effective configuration
func (s *Simulator) Config() Config { return s.config }

// SeatStrategy returns the strategy name playing seat
func (s *Simulator) SeatStrategy(seat int) string {
	return s.config.Strategies[seat%len(s.config.Strategies)]
}

// Lineup describes the strategies at the table, e.g. "greedy,random,dumb"
func (s *Simulator) Lineup() string {
	names := make([]string, s.config.Players)
	for seat := range names {
		names[seat] = s.SeatStrategy(seat)
	}
	return strings.Join(names, ",")
}

// Run plays every game and returns the aggregated statistics
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("invalid games count: %d", s.config.Games)
	}
	for seat := 0; seat < s.config.Players; seat++ {
		if _, err := s.newStrategy(s.SeatStrategy(seat), nil, nil); err != nil {
			return nil, err
		}
	}

	start := s.config.Clock.Now()
	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation",
		"games", s.config.Games,
		"players", s.config.Players,
		"lineup", s.Lineup(),
		"parallel", s.config.Parallel,
		"seed", s.config.Seed)

	results := make([]statistics.GameResult, s.config.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)

	for i := 0; i < s.config.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.playGameWithTimeout(ctx, i)
			if errors.Is(err, ErrGameTimeout) {
				logger.Warn("Game abandoned", "game", i+1, "seed", result.Seed, "timeout", s.config.Timeout)
				result.TimedOut = true
				err = nil
			}
			results[i] = result
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := statistics.New(s.config.Players)
	for _, r := range results {
		stats.Add(r)
	}

	// Validate statistics before returning
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.elapsed = s.config.Clock.Since(start)
	logger.Info("Simulation finished",
		"games", stats.Games,
		"exhausted", stats.Exhausted,
		"timedOut", stats.TimedOut,
		"elapsed", s.elapsed)
	return stats, nil
}

// playGameWithTimeout runs a single game under the watchdog
func (s *Simulator) playGameWithTimeout(parent context.Context, index int) (statistics.GameResult, error) {
	seed := s.config.Seed + int64(index)
	if s.config.Timeout <= 0 {
		return s.playGame(parent, seed)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	watchdog := s.config.Clock.AfterFunc(s.config.Timeout, cancel, "simulator", "watchdog")
	defer watchdog.Stop()

	type outcome struct {
		result statistics.GameResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := s.playGame(ctx, seed)
		done <- outcome{r, err}
	}()

	select {
	case o := <-done:
		// a game that saw the watchdog before finishing still timed out
		if o.err == nil || parent.Err() != nil || ctx.Err() == nil {
			return o.result, o.err
		}
	case <-ctx.Done():
		if err := parent.Err(); err != nil {
			return statistics.GameResult{Seed: seed}, err
		}
	}
	return statistics.GameResult{Seed: seed}, fmt.Errorf("%w after %v (seed: %d)", ErrGameTimeout, s.config.Timeout, seed)
}

// playGame plays one bot-only game to the round limit or until it stalls
func (s *Simulator) playGame(ctx context.Context, seed int64) (statistics.GameResult, error) {
	logger := s.config.Logger
	session, err := game.NewSession(game.Config{
		Players: s.config.Players,
		Copies:  s.config.Copies,
		Shuffle: true,
		Seed:    seed,
	}, game.WithLogger(logger), game.WithClock(s.config.Clock))
	if err != nil {
		return statistics.GameResult{Seed: seed}, fmt.Errorf("creating session (seed: %d): %w", seed, err)
	}

	manager := bot.NewManager(session,
		bot.WithMaxRounds(s.config.MaxRounds),
		bot.WithContext(ctx),
		bot.WithLogger(logger))
	for seat := 0; seat < s.config.Players; seat++ {
		rng := randutil.New(seed*int64(s.config.Players+1) + int64(seat) + 1)
		strategy, err := s.newStrategy(s.SeatStrategy(seat), rng, logger)
		if err != nil {
			return statistics.GameResult{Seed: seed}, err
		}
		if err := manager.Add(seat, strategy); err != nil {
			return statistics.GameResult{Seed: seed}, err
		}
	}
	manager.Start()
	manager.Stop()
	if err := ctx.Err(); err != nil {
		return statistics.GameResult{Seed: seed}, err
	}

	scores := session.Scores()
	result := statistics.GameResult{
		Seed:      seed,
		Scores:    make([]int, len(scores)),
		Rounds:    session.Round() - 1,
		Exhausted: session.Exhausted(),
	}
	for i, sc := range scores {
		result.Scores[i] = sc.Total
	}

	logger.Debug("Game finished",
		"seed", seed,
		"rounds", result.Rounds,
		"scores", result.Scores,
		"exhausted", result.Exhausted,
		"decisions", manager.Decisions())

	return result, nil
}
