package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/faraway/internal/bot"
	"github.com/lox/faraway/internal/game"
	"github.com/lox/faraway/internal/randutil"
	"github.com/lox/faraway/internal/tui"
)

type PlayCmd struct {
	Seed    int64 `help:"Deal seed (0 uses the config seed, then the clock)"`
	Players int   `short:"p" help:"Number of players, overriding the config"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Players > 0 {
		cfg.Session.Players = c.Players
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	seed := c.Seed
	if seed == 0 {
		seed = cfg.Session.Seed
	}
	if seed == 0 {
		seed = randutil.TimeSeed()
	}

	// The terminal belongs to the TUI, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.LogLevel(),
		Prefix:          "faraway",
	})

	session, err := game.NewSession(cfg.SessionConfig(seed), game.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("Starting interactive game", "id", session.ID(), "players", cfg.Session.Players, "seed", seed)

	model := tui.NewTUIModel(session, cfg.Session.OwnSeat, logger)
	manager, err := newBotManager(session, cfg.BotSeats(), seed, logger)
	if err != nil {
		return err
	}

	model.AddLogEntry(fmt.Sprintf("Game %s (seed %d). Type help for commands.", session.ID(), seed))
	manager.Start()
	defer manager.Stop()

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	scores := session.Scores()
	logger.Info("Game over", "round", session.Round(), "decisions", manager.Decisions())
	printScores(os.Stdout, session, scores)
	return nil
}

// newBotManager seats a strategy in every bot seat. Each seat gets its own
// random source derived from the deal seed so a game can be replayed.
func newBotManager(session *game.Session, seats map[int]string, seed int64, logger *log.Logger) (*bot.Manager, error) {
	manager := bot.NewManager(session, bot.WithLogger(logger))
	for _, seat := range slices.Sorted(maps.Keys(seats)) {
		strategy, err := bot.New(seats[seat], randutil.New(seed+int64(seat)+1), logger)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", seat, err)
		}
		if err := manager.Add(seat, strategy); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

func printScores(w io.Writer, session *game.Session, scores []game.Score) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Faraway: round %d", session.Round())))
	leaders := game.Leaders(scores)
	for _, sc := range scores {
		p, _ := session.Player(sc.Seat)
		line := fmt.Sprintf("%-10s %3d", p.Name, sc.Total)
		if slices.Contains(leaders, sc.Seat) {
			line += "  leading"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
