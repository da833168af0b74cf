// Package deck holds the ordered draw pile and the shuffling used to build it.
package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/faraway/internal/card"
)

// ErrDeckUnderflow is returned when more cards are requested than remain.
var ErrDeckUnderflow = errors.New("deck underflow")

// Shuffle permutes items in place with Fisher-Yates, so every permutation
// is equally likely given a uniform rng.
func Shuffle[T any](items []T, rng *rand.Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Deck is an ordered pile of cards; index 0 is the top.
type Deck struct {
	cards []*card.Card
	rng   *rand.Rand
}

// New creates a deck holding cards in the given order. The deck takes
// ownership of the slice. rng may be nil when the deck is never shuffled.
func New(cards []*card.Card, rng *rand.Rand) *Deck {
	return &Deck{cards: cards, rng: rng}
}

// Shuffle randomizes the order of the remaining cards
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	Shuffle(d.cards, d.rng)
}

// Deal removes and returns the top n cards. When fewer than n cards remain
// nothing is removed and ErrDeckUnderflow is returned.
func (d *Deck) Deal(n int) ([]*card.Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d cards, %d remaining", ErrDeckUnderflow, n, len(d.cards))
	}

	dealt := make([]*card.Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns the remaining cards, top first. The slice is a copy; the
// cards are shared.
func (d *Deck) Cards() []*card.Card {
	out := make([]*card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}
