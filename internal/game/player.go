package game

import (
	"math"

	"github.com/lox/faraway/internal/card"
)

// NoSelection is the SelectedCardIndex of a player who has not chosen a card
const NoSelection = -1

// Player represents a seat at the table. Hand, played cards and the
// selection only change through Session.Submit.
type Player struct {
	Seat        int
	Name        string
	Own         bool    // the local player, whose hand is face up
	Orientation float64 // seat angle around the table, radians

	hand        []*card.Card
	played      []*card.Card
	sanctuaries []*card.Card
	selected    int
}

// NewPlayer creates a player at seat out of seats holding hand
func NewPlayer(seat, seats int, name string, hand []*card.Card) *Player {
	return &Player{
		Seat:        seat,
		Name:        name,
		Orientation: -math.Pi/2 + float64(seat)*2*math.Pi/float64(seats),
		hand:        hand,
		selected:    NoSelection,
	}
}

// selectHandCard toggles the selection of hand card index. Selecting the
// selected card again clears the selection. It returns false, changing
// nothing, when index is out of range.
func (p *Player) selectHandCard(index int) bool {
	if index < 0 || index >= len(p.hand) {
		return false
	}
	if p.selected == index {
		p.selected = NoSelection
	} else {
		p.selected = index
	}
	return true
}

// SelectedCardIndex returns the selected hand index or NoSelection
func (p *Player) SelectedCardIndex() int {
	return p.selected
}

// HasSelection reports whether the player has chosen a card to play
func (p *Player) HasSelection() bool {
	return p.selected >= 0
}

// LastPlayedCard returns the most recently played card, or nil when the
// player has not played yet.
func (p *Player) LastPlayedCard() *card.Card {
	if len(p.played) == 0 {
		return nil
	}
	return p.played[len(p.played)-1]
}

// HandSize returns the number of cards in hand
func (p *Player) HandSize() int {
	return len(p.hand)
}

// PlayedCount returns the number of cards played so far
func (p *Player) PlayedCount() int {
	return len(p.played)
}

// Hand returns copies of the cards in hand
func (p *Player) Hand() []card.Card {
	return values(p.hand)
}

// Played returns copies of the played cards in play order
func (p *Player) Played() []card.Card {
	return values(p.played)
}

// Sanctuaries returns copies of the sanctuaries held
func (p *Player) Sanctuaries() []card.Card {
	return values(p.sanctuaries)
}

// Tableau returns the face-up cards that score for this player
func (p *Player) Tableau() []card.Card {
	return append(values(p.played), values(p.sanctuaries)...)
}

// playSelected moves the selected card to the end of the played cards and
// clears the selection.
func (p *Player) playSelected() *card.Card {
	c := p.hand[p.selected]
	p.hand = append(p.hand[:p.selected], p.hand[p.selected+1:]...)
	c.FaceDown = false
	p.played = append(p.played, c)
	p.selected = NoSelection
	return c
}

// receive adds a drafted card to the hand. Only the own player sees it.
func (p *Player) receive(c *card.Card) {
	c.FaceDown = !p.Own
	p.hand = append(p.hand, c)
}

// eligibleToPick reports whether the player is waiting for a draft pick
func (p *Player) eligibleToPick() bool {
	return len(p.hand) == HandSize-1 && len(p.played) > 0
}

func values(cards []*card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	for i, c := range cards {
		out[i] = *c.Instance(c.ID)
	}
	return out
}
