// Package config loads faraway settings from HCL files.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/faraway/internal/bot"
	"github.com/lox/faraway/internal/card"
	"github.com/lox/faraway/internal/game"
)

// Config represents the complete configuration
type Config struct {
	Session    *SessionSettings    `hcl:"session,block"`
	Seats      []SeatConfig        `hcl:"seat,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Log        *LogSettings        `hcl:"log,block"`
}

// SessionSettings describes the table that is dealt
type SessionSettings struct {
	Players int   `hcl:"players,optional"`
	OwnSeat int   `hcl:"own_seat,optional"`
	Copies  int   `hcl:"copies,optional"`
	Seed    int64 `hcl:"seed,optional"` // 0 picks a seed from the clock
	Shuffle *bool `hcl:"shuffle,optional"`
}

// SeatConfig assigns a bot strategy to a seat. Seats are numbered from 0.
type SeatConfig struct {
	Seat     string `hcl:"seat,label"`
	Strategy string `hcl:"strategy"`
	Name     string `hcl:"name,optional"`
}

// SimulationSettings controls bulk bot-only runs
type SimulationSettings struct {
	Games      int      `hcl:"games,optional"`
	Parallel   int      `hcl:"parallel,optional"`
	Timeout    string   `hcl:"timeout,optional"`
	MaxRounds  int      `hcl:"max_rounds,optional"`
	Strategies []string `hcl:"strategies,optional"`
}

// LogSettings controls logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

const (
	defaultPlayers   = 4
	defaultCopies    = 4
	defaultStrategy  = bot.Greedy
	defaultGames     = 100
	defaultTimeout   = "5s"
	defaultLogLevel  = "info"
	defaultLogFile   = "faraway.log"
	maxPlayers       = 6
	defaultMaxRounds = game.FinalRound
)

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Session == nil {
		c.Session = &SessionSettings{}
	}
	if c.Session.Players == 0 {
		c.Session.Players = defaultPlayers
	}
	if c.Session.Copies == 0 {
		c.Session.Copies = defaultCopies
	}
	if c.Session.Shuffle == nil {
		shuffle := true
		c.Session.Shuffle = &shuffle
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}
	if c.Simulation.Games == 0 {
		c.Simulation.Games = defaultGames
	}
	if c.Simulation.Parallel == 0 {
		c.Simulation.Parallel = 1
	}
	if c.Simulation.Timeout == "" {
		c.Simulation.Timeout = defaultTimeout
	}
	if c.Simulation.MaxRounds == 0 {
		c.Simulation.MaxRounds = defaultMaxRounds
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	s := c.Session
	if s.Players < 2 || s.Players > maxPlayers {
		return fmt.Errorf("players must be between 2 and %d, got %d", maxPlayers, s.Players)
	}
	if s.OwnSeat < 0 || s.OwnSeat >= s.Players {
		return fmt.Errorf("own seat %d out of range for %d players", s.OwnSeat, s.Players)
	}
	if s.Copies < 1 {
		return fmt.Errorf("copies must be at least 1, got %d", s.Copies)
	}
	if need, have := s.Players*game.HandSize+s.Players+1, s.Copies*len(card.Catalog()); have < need {
		return fmt.Errorf("%d catalog copies hold %d cards, the first deal needs %d", s.Copies, have, need)
	}

	seen := make(map[int]bool)
	for _, seat := range c.Seats {
		n, err := strconv.Atoi(seat.Seat)
		if err != nil {
			return fmt.Errorf("seat %q: label must be a seat number", seat.Seat)
		}
		if n < 0 || n >= s.Players {
			return fmt.Errorf("seat %d: out of range for %d players", n, s.Players)
		}
		if seen[n] {
			return fmt.Errorf("seat %d: configured twice", n)
		}
		seen[n] = true
		if !slices.Contains(bot.Names(), seat.Strategy) {
			return fmt.Errorf("seat %d: invalid strategy %s", n, seat.Strategy)
		}
	}

	sim := c.Simulation
	if sim.Games < 1 {
		return fmt.Errorf("simulation games must be positive, got %d", sim.Games)
	}
	if sim.Parallel < 1 {
		return fmt.Errorf("simulation parallel must be positive, got %d", sim.Parallel)
	}
	if sim.MaxRounds < 0 {
		return fmt.Errorf("simulation max_rounds must not be negative, got %d", sim.MaxRounds)
	}
	if _, err := time.ParseDuration(sim.Timeout); err != nil {
		return fmt.Errorf("simulation timeout: %w", err)
	}
	for _, name := range sim.Strategies {
		if !slices.Contains(bot.Names(), name) {
			return fmt.Errorf("simulation: invalid strategy %s", name)
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	return nil
}

// SessionConfig returns the game configuration for the configured table
func (c *Config) SessionConfig(seed int64) game.Config {
	names := make([]string, c.Session.Players)
	for _, seat := range c.Seats {
		if n, err := strconv.Atoi(seat.Seat); err == nil && n >= 0 && n < len(names) {
			names[n] = seat.Name
		}
	}
	return game.Config{
		Players: c.Session.Players,
		OwnSeat: c.Session.OwnSeat,
		Copies:  c.Session.Copies,
		Shuffle: *c.Session.Shuffle,
		Seed:    seed,
		Names:   names,
	}
}

// BotSeats returns the strategy for every seat other than the local
// player's. Seats without a seat block play the default strategy.
func (c *Config) BotSeats() map[int]string {
	bots := make(map[int]string, c.Session.Players)
	for seat := 0; seat < c.Session.Players; seat++ {
		if seat != c.Session.OwnSeat {
			bots[seat] = defaultStrategy
		}
	}
	for _, sc := range c.Seats {
		n, err := strconv.Atoi(sc.Seat)
		if err != nil || n == c.Session.OwnSeat {
			continue
		}
		bots[n] = sc.Strategy
	}
	return bots
}

// Lineup returns the strategy per seat for simulations. An explicit
// simulation lineup wins; otherwise the seat blocks are used and the local
// player's seat plays the default strategy.
func (c *Config) Lineup() []string {
	if len(c.Simulation.Strategies) > 0 {
		return c.Simulation.Strategies
	}
	lineup := make([]string, c.Session.Players)
	for seat := range lineup {
		lineup[seat] = defaultStrategy
	}
	for _, sc := range c.Seats {
		if n, err := strconv.Atoi(sc.Seat); err == nil && n >= 0 && n < len(lineup) {
			lineup[n] = sc.Strategy
		}
	}
	return lineup
}

// TimeoutDuration returns the parsed simulation timeout
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Simulation.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// LogLevel returns the parsed log level, defaulting to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
