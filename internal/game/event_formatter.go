package game

import (
	"fmt"
	"strings"

	"github.com/lox/faraway/internal/card"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowHidden  bool // reveal face-down cards (for logs and simulations)
	Perspective int  // seat addressed as "You", -1 for none
}

// EventFormatter provides centralized formatting for session events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format formats any event, returning "" for events it does not know
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case StateChangedEvent:
		return ef.FormatStateChanged(e)
	case DecisionAppliedEvent:
		return ef.FormatDecisionApplied(e)
	default:
		return ""
	}
}

// FormatStateChanged describes a round state transition
func (ef *EventFormatter) FormatStateChanged(event StateChangedEvent) string {
	snap := event.Snapshot
	switch event.To {
	case Sanctuary:
		parts := make([]string, 0, len(snap.Players))
		for _, p := range snap.Players {
			if last, ok := p.LastPlayed(); ok {
				parts = append(parts, fmt.Sprintf("%s %s", ef.name(p), last))
			}
		}
		return fmt.Sprintf("*** PLAYED *** %s", strings.Join(parts, ", "))
	case Pick:
		return fmt.Sprintf("*** PICK *** row %s", ef.FormatCards(rowCards(snap)))
	case Play:
		text := fmt.Sprintf("*** ROUND %d ***", snap.Round)
		if snap.Exhausted {
			text += " deck exhausted"
		}
		if snap.FinalRound {
			text += " (final round)"
		}
		return text
	default:
		return fmt.Sprintf("%s -> %s", event.From, event.To)
	}
}

// FormatDecisionApplied describes an accepted decision
func (ef *EventFormatter) FormatDecisionApplied(event DecisionAppliedEvent) string {
	d := event.Decision
	p, ok := event.Snapshot.Player(d.Player)
	if !ok {
		return d.String()
	}
	switch d.State {
	case Play:
		if p.SelectedCardIndex == NoSelection {
			return fmt.Sprintf("%s: clears selection", ef.name(p))
		}
		return fmt.Sprintf("%s: selects a card", ef.name(p))
	case Pick:
		if len(p.Hand) == 0 {
			return fmt.Sprintf("%s: picks", ef.name(p))
		}
		picked := p.Hand[len(p.Hand)-1]
		return fmt.Sprintf("%s: picks %s", ef.name(p), ef.FormatCard(picked.Card))
	default:
		return fmt.Sprintf("%s: %s", ef.name(p), d)
	}
}

// FormatCard renders a card, hiding it when it is face down
func (ef *EventFormatter) FormatCard(c card.Card) string {
	if c.FaceDown && !ef.opts.ShowHidden {
		return "??"
	}
	return c.String()
}

// FormatCards renders cards in brackets, e.g. "[44Y 3B ??]"
func (ef *EventFormatter) FormatCards(cards []card.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = ef.FormatCard(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (ef *EventFormatter) name(p PlayerView) string {
	if p.Seat == ef.opts.Perspective {
		return "You"
	}
	return p.Name
}

func rowCards(snap Snapshot) []card.Card {
	out := make([]card.Card, len(snap.Row))
	for i, v := range snap.Row {
		out[i] = v.Card
	}
	return out
}
