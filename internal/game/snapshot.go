package game

import "github.com/lox/faraway/internal/card"

// CardView is a card together with the container it sits in
type CardView struct {
	card.Card
	Location Location
	Owner    int // seat for hand, played and sanctuary cards, -1 otherwise
}

// PlayerView is the read-only state of one player
type PlayerView struct {
	Seat              int
	Name              string
	Own               bool
	Orientation       float64
	Hand              []CardView
	Played            []CardView
	Sanctuaries       []CardView
	SelectedCardIndex int
}

// LastPlayed returns the most recently played card, if any
func (pv PlayerView) LastPlayed() (card.Card, bool) {
	if len(pv.Played) == 0 {
		return card.Card{}, false
	}
	return pv.Played[len(pv.Played)-1].Card, true
}

// Tableau returns the face-up cards that score for the player
func (pv PlayerView) Tableau() []card.Card {
	out := make([]card.Card, 0, len(pv.Played)+len(pv.Sanctuaries))
	for _, v := range pv.Played {
		out = append(out, v.Card)
	}
	for _, v := range pv.Sanctuaries {
		out = append(out, v.Card)
	}
	return out
}

// Snapshot is a deep copy of a session at one point in time. It holds
// everything a presentation layer or a bot needs without touching the
// session itself.
type Snapshot struct {
	ID         string
	State      State
	Round      int
	Players    []PlayerView
	Row        []CardView
	Deck       []CardView
	Discard    []CardView
	NextPicker int  // seat with draft priority, -1 when nobody may pick
	Exhausted  bool // the deck could not refill the row
	FinalRound bool
}

// Player returns the view of seat
func (s Snapshot) Player(seat int) (PlayerView, bool) {
	if seat < 0 || seat >= len(s.Players) {
		return PlayerView{}, false
	}
	return s.Players[seat], true
}

// AllCards returns every card in the snapshot across all containers
func (s Snapshot) AllCards() []CardView {
	var out []CardView
	out = append(out, s.Deck...)
	out = append(out, s.Row...)
	out = append(out, s.Discard...)
	for _, p := range s.Players {
		out = append(out, p.Hand...)
		out = append(out, p.Played...)
		out = append(out, p.Sanctuaries...)
	}
	return out
}

// Locate returns the location of the card instance with the given id
func (s Snapshot) Locate(id int) (Location, bool) {
	for _, v := range s.AllCards() {
		if v.ID == id {
			return v.Location, true
		}
	}
	return 0, false
}

func viewsOf(cards []*card.Card, loc Location, owner int) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = CardView{Card: *c.Instance(c.ID), Location: loc, Owner: owner}
	}
	return out
}
