package game

// State is the engine-wide round state
type State int

const (
	// Play: every player selects one hand card to play
	Play State = iota
	// Sanctuary: players holding sanctuaries would choose one
	Sanctuary
	// Pick: players draft from the row until they hold HandSize cards
	Pick
)

const (
	// HandSize is the number of cards each player holds outside Play
	HandSize = 3
	// FinalRound is the round in which the game is meant to end
	FinalRound = 8
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Play:
		return "Play"
	case Sanctuary:
		return "Sanctuary"
	case Pick:
		return "Pick"
	default:
		return "Unknown"
	}
}

// Next returns the state that follows s in the round cycle
func (s State) Next() State {
	return (s + 1) % 3
}

// Location is the container a card currently lives in
type Location int

const (
	InDeck Location = iota
	InHand
	InPlayed
	InRow
	InDiscard
	InSanctuaries
)

// String returns the string representation of a location
func (l Location) String() string {
	switch l {
	case InDeck:
		return "deck"
	case InHand:
		return "hand"
	case InPlayed:
		return "played"
	case InRow:
		return "row"
	case InDiscard:
		return "discard"
	case InSanctuaries:
		return "sanctuaries"
	default:
		return "unknown"
	}
}
