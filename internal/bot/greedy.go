package bot

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/faraway/internal/card"
	"github.com/lox/faraway/internal/game"
)

// GreedyBot chooses whichever card adds the most points to its tableau right
// now. Ties go to the lowest index.
type GreedyBot struct {
	logger *log.Logger
}

// NewGreedyBot creates a new GreedyBot instance
func NewGreedyBot(logger *log.Logger) *GreedyBot {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GreedyBot{logger: logger.WithPrefix("greedy")}
}

func (g *GreedyBot) Name() string { return Greedy }

func (g *GreedyBot) PlayCard(snap game.Snapshot, seat int) int {
	p, ok := snap.Player(seat)
	if !ok {
		return 0
	}
	return g.best(p, cardsOf(p.Hand), "play")
}

// PickCard values each row card as if it were played next
func (g *GreedyBot) PickCard(snap game.Snapshot, seat int) int {
	p, ok := snap.Player(seat)
	if !ok {
		return 0
	}
	return g.best(p, cardsOf(snap.Row), "pick")
}

func (g *GreedyBot) PickSanctuary(snap game.Snapshot, seat int) int {
	p, ok := snap.Player(seat)
	if !ok {
		return 0
	}
	return g.best(p, cardsOf(p.Sanctuaries), "sanctuary")
}

func (g *GreedyBot) best(p game.PlayerView, candidates []card.Card, what string) int {
	tableau := p.Tableau()
	base := game.ScoreTableau(p.Seat, tableau).Total

	choice, bestDelta := 0, 0
	for i, c := range candidates {
		delta := game.ScoreTableau(p.Seat, append(tableau[:len(tableau):len(tableau)], c)).Total - base
		if i == 0 || delta > bestDelta {
			choice, bestDelta = i, delta
		}
	}

	if len(candidates) > 0 {
		g.logger.Debug("Greedy choice",
			"seat", p.Seat,
			"decision", what,
			"card", candidates[choice],
			"delta", bestDelta)
	}
	return choice
}

func cardsOf(views []game.CardView) []card.Card {
	out := make([]card.Card, len(views))
	for i, v := range views {
		out[i] = v.Card
	}
	return out
}
