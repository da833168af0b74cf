package game

import "github.com/lox/faraway/internal/card"

// CardScore is the contribution of one tableau card
type CardScore struct {
	Card   card.Card
	Points int
}

// Score is the score breakdown of one player
type Score struct {
	Seat  int
	Total int
	Cards []CardScore
}

// ScoreTableau evaluates every card of a tableau against the whole tableau
func ScoreTableau(seat int, tableau []card.Card) Score {
	score := Score{Seat: seat, Cards: make([]CardScore, 0, len(tableau))}
	for _, c := range tableau {
		pts := c.Points(tableau)
		score.Cards = append(score.Cards, CardScore{Card: c, Points: pts})
		score.Total += pts
	}
	return score
}

// Scores returns the current score of every player, in seat order
func (s *Session) Scores() []Score {
	scores := make([]Score, len(s.players))
	for i, p := range s.players {
		scores[i] = ScoreTableau(p.Seat, p.Tableau())
	}
	return scores
}

// Leaders returns the seats sharing the highest score
func Leaders(scores []Score) []int {
	var leaders []int
	best := 0
	for _, sc := range scores {
		switch {
		case len(leaders) == 0 || sc.Total > best:
			best = sc.Total
			leaders = []int{sc.Seat}
		case sc.Total == best:
			leaders = append(leaders, sc.Seat)
		}
	}
	return leaders
}
