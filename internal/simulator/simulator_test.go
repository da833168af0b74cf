package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/faraway/internal/bot"
	"github.com/lox/faraway/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNew(t *testing.T) {
	sim := New(Config{Games: 10, Seed: 12345})
	cfg := sim.Config()

	assert.Equal(t, 10, cfg.Games)
	assert.Equal(t, 4, cfg.Players)
	assert.Equal(t, 4, cfg.Copies)
	assert.Equal(t, 1, cfg.Parallel)
	assert.Equal(t, []string{bot.Dumb}, cfg.Strategies)
	assert.NotNil(t, cfg.Clock)
	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, "dumb,dumb,dumb,dumb", sim.Lineup())
}

func TestLineupCyclesStrategies(t *testing.T) {
	sim := New(Config{Players: 3, Strategies: []string{bot.Greedy, bot.Random}})
	assert.Equal(t, "greedy,random,greedy", sim.Lineup())
	assert.Equal(t, bot.Random, sim.SeatStrategy(1))
}

func TestRunUntilDeckRunsOut(t *testing.T) {
	sim := New(Config{
		Games:   3,
		Players: 2,
		Copies:  1,
		Seed:    1,
		Logger:  quietLogger(),
	})

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Games)
	assert.Equal(t, 3, stats.Exhausted)
	// 15 cards for two players: three refills are possible, the fourth is not
	assert.Equal(t, 3.0, stats.Rounds.Mean())
	require.Len(t, stats.Seats, 2)
	assert.Equal(t, 3, stats.Seats[0].Score.N)
}

func TestRunRespectsMaxRounds(t *testing.T) {
	sim := New(Config{
		Games:      4,
		Players:    4,
		Copies:     4,
		Seed:       99,
		Strategies: []string{bot.Greedy, bot.Random},
		MaxRounds:  game.FinalRound,
		Logger:     quietLogger(),
	})

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(game.FinalRound), stats.Rounds.Mean())
	assert.Zero(t, stats.Exhausted)

	totalWins := 0
	for _, seat := range stats.Seats {
		totalWins += seat.Wins
	}
	assert.LessOrEqual(t, totalWins, 4)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := Config{
		Games:      6,
		Players:    3,
		Copies:     4,
		Seed:       2024,
		Strategies: []string{bot.Random, bot.Greedy, bot.Random},
		MaxRounds:  game.FinalRound,
		Logger:     quietLogger(),
	}

	sequential, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Parallel = 3
	parallel, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	for seat := range sequential.Seats {
		assert.Equal(t, sequential.Seats[seat].Score.Values, parallel.Seats[seat].Score.Values, "seat %d", seat)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no games", Config{Games: 0}},
		{"unknown strategy", Config{Games: 1, Strategies: []string{"shark"}}},
		{"too few players", Config{Games: 1, Players: 1}},
		{"deck too small", Config{Games: 1, Players: 4, Copies: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = quietLogger()
			_, err := New(tt.cfg).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

// stuckBot never answers until released
type stuckBot struct {
	bot.DumbBot
	entered chan struct{}
	release chan struct{}
	once    *sync.Once
}

func (b stuckBot) PlayCard(game.Snapshot, int) int {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return 0
}

func TestRunAbandonsStuckGame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	stuck := stuckBot{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		once:    &sync.Once{},
	}
	defer close(stuck.release)

	sim := New(Config{
		Games:   1,
		Players: 2,
		Copies:  1,
		Timeout: 5 * time.Second,
		Clock:   clock,
		Logger:  quietLogger(),
	})
	sim.newStrategy = func(string, *rand.Rand, *log.Logger) (bot.Strategy, error) {
		return stuck, nil
	}

	type outcome struct {
		timedOut int
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		stats, err := sim.Run(ctx)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		done <- outcome{timedOut: stats.TimedOut}
	}()

	select {
	case <-stuck.entered:
	case <-ctx.Done():
		t.Fatal("game never started")
	}

	clock.Advance(5 * time.Second).MustWait(ctx)

	select {
	case o := <-done:
		require.NoError(t, o.err)
		assert.Equal(t, 1, o.timedOut)
		assert.Equal(t, 5*time.Second, sim.Elapsed())
	case <-ctx.Done():
		t.Fatal("simulation did not return after the watchdog fired")
	}
}

func TestReport(t *testing.T) {
	sim := New(Config{
		Games:      2,
		Players:    2,
		Copies:     2,
		Seed:       7,
		Strategies: []string{bot.Greedy, bot.Dumb},
		MaxRounds:  4,
		Logger:     quietLogger(),
	})
	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	report := sim.NewReport(stats)
	assert.Equal(t, 2, report.Games)
	assert.Equal(t, "greedy,dumb", report.Lineup)
	require.Len(t, report.Seats, 2)
	assert.Equal(t, bot.Greedy, report.Seats[0].Strategy)
	assert.Equal(t, 4.0, report.MeanRounds)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Lineup, decoded.Lineup)
	assert.Equal(t, report.Seats[1].Wins, decoded.Seats[1].Wins)

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	assert.Contains(t, buf.String(), "=== RESULTS: greedy,dumb ===")
	assert.Contains(t, buf.String(), "Seat 1 (greedy)")
	assert.Contains(t, buf.String(), "Seat 2 (dumb)")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Games: 2, Players: 2, Copies: 1, Logger: quietLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
