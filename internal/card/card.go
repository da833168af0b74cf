package card

import (
	"fmt"
	"sort"
	"strings"
)

// Color represents the colour of a card
type Color int

const (
	None Color = iota
	Blue
	Red
	Green
	Yellow
)

// String returns the string representation of a color
func (c Color) String() string {
	switch c {
	case None:
		return "None"
	case Blue:
		return "Blue"
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Yellow:
		return "Yellow"
	default:
		return "Unknown"
	}
}

// Short returns the single letter used in compact card notation
func (c Color) Short() string {
	switch c {
	case Blue:
		return "B"
	case Red:
		return "R"
	case Green:
		return "G"
	case Yellow:
		return "Y"
	default:
		return "-"
	}
}

// Resource identifies a kind of resource printed on a card
type Resource int

const (
	Bull Resource = iota
	Ananas
	Blues
)

// String returns the string representation of a resource
func (r Resource) String() string {
	switch r {
	case Bull:
		return "bull"
	case Ananas:
		return "ananas"
	case Blues:
		return "blues"
	default:
		return "?"
	}
}

// ParseResource converts a resource name into a Resource
func ParseResource(name string) (Resource, error) {
	switch strings.ToLower(name) {
	case "bull":
		return Bull, nil
	case "ananas":
		return Ananas, nil
	case "blues":
		return Blues, nil
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// Resources is a sparse bundle of resource counts. Absent keys count as zero.
type Resources map[Resource]int

// Count returns the amount of the given resource
func (r Resources) Count(kind Resource) int {
	return r[kind]
}

// Total returns the number of resource units in the bundle
func (r Resources) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// Clone returns an independent copy of the bundle
func (r Resources) Clone() Resources {
	if r == nil {
		return nil
	}
	out := make(Resources, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Covers reports whether r holds at least as much of every resource as need
func (r Resources) Covers(need Resources) bool {
	for kind, n := range need {
		if r[kind] < n {
			return false
		}
	}
	return true
}

// String renders the bundle in a stable order, e.g. "ananas:1 blues:2"
func (r Resources) String() string {
	if len(r) == 0 {
		return "-"
	}
	kinds := make([]Resource, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s:%d", k, r[k]))
	}
	return strings.Join(parts, " ")
}

// NightMax is the highest card index that counts as a night card
const NightMax = 20

// IsNightIndex reports whether a regular card index falls in the night range
func IsNightIndex(index int) bool {
	return index >= 0 && index <= NightMax
}

// SanctuaryIndex is the index carried by every sanctuary card
const SanctuaryIndex = -1

// Card is a single card instance. Rules attributes never change after
// creation; only FaceDown is toggled by the engine as the card moves.
type Card struct {
	ID         int // unique per dealt instance, 0 for catalog definitions
	Index      int
	Color      Color
	Resources  Resources
	Conditions Resources
	Scoring    Scoring
	Sanctuary  bool
	Night      bool
	FaceDown   bool
}

// New creates a regular card definition
func New(index int, color Color, resources, conditions Resources, scoring Scoring, sanctuary bool) Card {
	return Card{
		Index:      index,
		Color:      color,
		Resources:  resources,
		Conditions: conditions,
		Scoring:    scoring,
		Sanctuary:  sanctuary,
		Night:      IsNightIndex(index),
		FaceDown:   true,
	}
}

// NewSanctuary creates a sanctuary definition. Sanctuaries have no index,
// no conditions, carry an explicit night flag and are always face up.
func NewSanctuary(color Color, resources Resources, scoring Scoring, sanctuary, night bool) Card {
	return Card{
		Index:     SanctuaryIndex,
		Color:     color,
		Resources: resources,
		Scoring:   scoring,
		Sanctuary: sanctuary,
		Night:     night,
	}
}

// IsSanctuaryCard reports whether the card is a sanctuary rather than a regular card
func (c Card) IsSanctuaryCard() bool {
	return c.Index == SanctuaryIndex
}

// Instance returns a copy of the definition carrying the given instance id
func (c Card) Instance(id int) *Card {
	inst := c
	inst.ID = id
	inst.Resources = c.Resources.Clone()
	inst.Conditions = c.Conditions.Clone()
	inst.Scoring.Colors = append([]Color(nil), c.Scoring.Colors...)
	return &inst
}

// Points evaluates the card's scoring strategy over the given cards
func (c Card) Points(cards []Card) int {
	return c.Scoring.Evaluate(cards)
}

// ConditionsMet reports whether the resources on cards cover this card's
// conditions. Conditions are informational and never enforced as a cost.
func (c Card) ConditionsMet(cards []Card) bool {
	return TotalResources(cards).Covers(c.Conditions)
}

// String returns the compact representation of a card (e.g., "44Y")
func (c Card) String() string {
	if c.IsSanctuaryCard() {
		return "S" + c.Color.Short()
	}
	return fmt.Sprintf("%d%s", c.Index, c.Color.Short())
}

// TotalResources sums the resource bundles of the given cards
func TotalResources(cards []Card) Resources {
	total := Resources{}
	for _, c := range cards {
		for kind, n := range c.Resources {
			total[kind] += n
		}
	}
	return total
}
