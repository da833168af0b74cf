package card

import (
	"fmt"
	"strings"
)

// ScoringKind selects how a Scoring value is evaluated
type ScoringKind int

const (
	NoScoring ScoringKind = iota
	Static
	ColorCount
	NightCount
	ResourceCount
	SanctuaryCount
)

// String returns the string representation of a scoring kind
func (k ScoringKind) String() string {
	switch k {
	case NoScoring:
		return "none"
	case Static:
		return "static"
	case ColorCount:
		return "color"
	case NightCount:
		return "night"
	case ResourceCount:
		return "resource"
	case SanctuaryCount:
		return "sanctuary"
	default:
		return "unknown"
	}
}

// Scoring is the point rule printed on a card. Only the fields relevant to
// Kind are meaningful: Colors for ColorCount, Resource for ResourceCount.
type Scoring struct {
	Kind     ScoringKind
	Value    int
	Colors   []Color
	Resource Resource
}

// NoPoints scores nothing
func NoPoints() Scoring {
	return Scoring{Kind: NoScoring}
}

// StaticPoints scores a fixed value
func StaticPoints(value int) Scoring {
	return Scoring{Kind: Static, Value: value}
}

// ColorPoints scores value for each card whose colour is one of colors
func ColorPoints(value int, colors ...Color) Scoring {
	return Scoring{Kind: ColorCount, Value: value, Colors: colors}
}

// NightPoints scores value for each night card
func NightPoints(value int) Scoring {
	return Scoring{Kind: NightCount, Value: value}
}

// ResourcePoints scores value for each unit of resource across the cards
func ResourcePoints(value int, resource Resource) Scoring {
	return Scoring{Kind: ResourceCount, Value: value, Resource: resource}
}

// SanctuaryPoints scores value for each card carrying the sanctuary flag
func SanctuaryPoints(value int) Scoring {
	return Scoring{Kind: SanctuaryCount, Value: value}
}

// Evaluate returns the points this rule yields over cards. Only the
// composition of cards matters, never their order, and cards is not modified.
func (s Scoring) Evaluate(cards []Card) int {
	switch s.Kind {
	case Static:
		return s.Value
	case ColorCount:
		n := 0
		for _, c := range cards {
			if s.hasColor(c.Color) {
				n++
			}
		}
		return n * s.Value
	case NightCount:
		n := 0
		for _, c := range cards {
			if c.Night {
				n++
			}
		}
		return n * s.Value
	case ResourceCount:
		n := 0
		for _, c := range cards {
			n += c.Resources.Count(s.Resource)
		}
		return n * s.Value
	case SanctuaryCount:
		n := 0
		for _, c := range cards {
			if c.Sanctuary {
				n++
			}
		}
		return n * s.Value
	default:
		return 0
	}
}

func (s Scoring) hasColor(color Color) bool {
	for _, c := range s.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// String describes the rule, e.g. "2 x [Yellow Blue]"
func (s Scoring) String() string {
	switch s.Kind {
	case Static:
		return fmt.Sprintf("%d", s.Value)
	case ColorCount:
		names := make([]string, len(s.Colors))
		for i, c := range s.Colors {
			names[i] = c.String()
		}
		return fmt.Sprintf("%d x [%s]", s.Value, strings.Join(names, " "))
	case NightCount:
		return fmt.Sprintf("%d x night", s.Value)
	case ResourceCount:
		return fmt.Sprintf("%d x %s", s.Value, s.Resource)
	case SanctuaryCount:
		return fmt.Sprintf("%d x sanctuary", s.Value)
	default:
		return "-"
	}
}
