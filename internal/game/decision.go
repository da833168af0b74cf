package game

import (
	"errors"
	"fmt"
)

// Decision is a single choice made by a player, whether it came from a
// human or a bot. Choice indexes the player's hand during Play and the
// draft row during Pick.
type Decision struct {
	State  State
	Player int
	Choice int
}

// String returns a readable form such as "seat 2 pick #0"
func (d Decision) String() string {
	switch d.State {
	case Play:
		return fmt.Sprintf("seat %d select #%d", d.Player, d.Choice)
	case Pick:
		return fmt.Sprintf("seat %d pick #%d", d.Player, d.Choice)
	default:
		return fmt.Sprintf("seat %d %s #%d", d.Player, d.State, d.Choice)
	}
}

var (
	// ErrInvalidChoice means the choice index is outside the hand or row
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrWrongPhase means the decision targets a state other than the current one
	ErrWrongPhase = errors.New("wrong phase")
	// ErrNotYourTurn means another player has draft priority
	ErrNotYourTurn = errors.New("not your turn")
	// ErrUnknownPlayer means the decision names a seat that does not exist
	ErrUnknownPlayer = errors.New("unknown player")
)
