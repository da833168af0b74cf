// Package bot provides automated decision sources. A Strategy is a pure
// function from a session snapshot to a choice index for each round state;
// the Manager feeds those choices into a session through the same Submit
// path a human uses.
package bot

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/faraway/internal/game"
	"github.com/lox/faraway/internal/randutil"
)

// Strategy chooses an index for every decision a seat can make
type Strategy interface {
	Name() string
	// PlayCard returns the hand index to select during Play
	PlayCard(snap game.Snapshot, seat int) int
	// PickCard returns the row index to draft during Pick
	PickCard(snap game.Snapshot, seat int) int
	// PickSanctuary returns the sanctuary index to keep during Sanctuary
	PickSanctuary(snap game.Snapshot, seat int) int
}

// Decide asks strategy for the decision seat should make in the snapshot's
// state.
func Decide(strategy Strategy, snap game.Snapshot, seat int) game.Decision {
	d := game.Decision{State: snap.State, Player: seat}
	switch snap.State {
	case game.Play:
		d.Choice = strategy.PlayCard(snap, seat)
	case game.Pick:
		d.Choice = strategy.PickCard(snap, seat)
	case game.Sanctuary:
		d.Choice = strategy.PickSanctuary(snap, seat)
	}
	return d
}

// Strategy names accepted by New
const (
	Dumb   = "dumb"
	Random = "random"
	Greedy = "greedy"
)

// Names returns the known strategy names in sorted order
func Names() []string {
	names := []string{Dumb, Random, Greedy}
	sort.Strings(names)
	return names
}

// New creates a strategy by name
func New(name string, rng *rand.Rand, logger *log.Logger) (Strategy, error) {
	switch name {
	case Dumb:
		return DumbBot{}, nil
	case Random:
		if rng == nil {
			rng = randutil.New(randutil.TimeSeed())
		}
		return NewRandBot(rng), nil
	case Greedy:
		return NewGreedyBot(logger), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", name)
	}
}

// DumbBot always chooses index 0
type DumbBot struct{}

func (DumbBot) Name() string { return Dumb }
func (DumbBot) PlayCard(game.Snapshot, int) int { return 0 }
func (DumbBot) PickCard(game.Snapshot, int) int { return 0 }
func (DumbBot) PickSanctuary(game.Snapshot, int) int { return 0 }

// RandBot is a simple bot that chooses uniformly among valid indexes
type RandBot struct {
	rng *rand.Rand
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand) *RandBot {
	return &RandBot{rng: rng}
}

func (r *RandBot) Name() string { return Random }

func (r *RandBot) PlayCard(snap game.Snapshot, seat int) int {
	p, _ := snap.Player(seat)
	return r.index(len(p.Hand))
}

func (r *RandBot) PickCard(snap game.Snapshot, _ int) int {
	return r.index(len(snap.Row))
}

func (r *RandBot) PickSanctuary(snap game.Snapshot, seat int) int {
	p, _ := snap.Player(seat)
	return r.index(len(p.Sanctuaries))
}

func (r *RandBot) index(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.IntN(n)
}
