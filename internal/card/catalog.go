package card

// Catalog returns the distinct regular card definitions. A deck is built by
// replicating the catalog, so the same definition may appear many times.
func Catalog() []Card {
	return []Card{
		New(44, Yellow, nil, Resources{Blues: 1, Ananas: 1}, ColorPoints(2, Yellow, Blue), false),
		New(49, Blue, nil, Resources{Blues: 2, Ananas: 1}, StaticPoints(12), true),
		New(14, Red, Resources{Ananas: 1}, nil, NightPoints(2), false),
		New(45, Green, Resources{Blues: 1}, Resources{Bull: 3}, StaticPoints(13), false),
		New(3, Blue, Resources{Bull: 1}, nil, NoPoints(), true),
		New(7, Green, Resources{Blues: 1}, nil, ResourcePoints(1, Blues), false),
		New(11, Yellow, nil, nil, SanctuaryPoints(3), false),
		New(19, Red, Resources{Bull: 1}, nil, ColorPoints(1, Red), false),
		New(23, Green, Resources{Ananas: 1}, Resources{Ananas: 2}, ResourcePoints(2, Ananas), false),
		New(31, Yellow, Resources{Bull: 1, Blues: 1}, nil, NoPoints(), false),
		New(38, Red, nil, Resources{Bull: 1}, StaticPoints(5), true),
		New(52, Blue, Resources{Ananas: 1}, nil, NightPoints(1), false),
		New(60, Green, nil, Resources{Blues: 1, Bull: 1}, ColorPoints(3, Green), false),
		New(67, Yellow, Resources{Blues: 1}, Resources{Ananas: 1}, StaticPoints(8), false),
		New(75, Red, nil, Resources{Bull: 2, Ananas: 1}, ResourcePoints(3, Bull), false),
	}
}

// Sanctuaries returns the sanctuary definitions
func Sanctuaries() []Card {
	return []Card{
		NewSanctuary(None, Resources{Ananas: 1}, NoPoints(), true, false),
		NewSanctuary(None, Resources{Ananas: 1}, NoPoints(), false, true),
		NewSanctuary(None, nil, ColorPoints(1, Red, Blue), false, false),
		NewSanctuary(Red, nil, ColorPoints(1, Red), false, false),
	}
}

// Replicate builds copies instances of every definition in defs, in order,
// numbering instance ids from 1.
func Replicate(defs []Card, copies int) []*Card {
	cards := make([]*Card, 0, len(defs)*copies)
	id := 1
	for i := 0; i < copies; i++ {
		for _, def := range defs {
			cards = append(cards, def.Instance(id))
			id++
		}
	}
	return cards
}
