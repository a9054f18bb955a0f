package game

import "math/rand"

// ZoneKind names the five per-player zones.
type ZoneKind int

const (
	Library ZoneKind = iota
	Hand
	Battlefield
	Graveyard
	Exile
)

func (k ZoneKind) String() string {
	switch k {
	case Library:
		return "library"
	case Hand:
		return "hand"
	case Battlefield:
		return "battlefield"
	case Graveyard:
		return "graveyard"
	case Exile:
		return "exile"
	}
	return "unknown"
}

// Position selects where a moved card lands in its destination zone.
type Position int

const (
	// Top is index zero, the draw end of a library.
	Top Position = iota
	// Bottom appends, which is also arrival order for graveyards.
	Bottom
)

// Zone is an ordered container of card instances. A card instance
// belongs to exactly one zone at a time; Move transfers ownership.
type Zone struct {
	Kind  ZoneKind
	cards []*CardInstance
}

func NewZone(kind ZoneKind) *Zone {
	return &Zone{Kind: kind}
}

func (z *Zone) Size() int { return len(z.cards) }

// At resolves a zone-relative index against the current contents.
func (z *Zone) At(i int) (*CardInstance, error) {
	if i < 0 || i >= len(z.cards) {
		return nil, ErrIndexOutOfRange
	}
	return z.cards[i], nil
}

// Cards returns a copy of the zone's contents in order.
func (z *Zone) Cards() []*CardInstance {
	out := make([]*CardInstance, len(z.cards))
	copy(out, z.cards)
	return out
}

func (z *Zone) indexOf(card *CardInstance) int {
	for i, c := range z.cards {
		if c == card {
			return i
		}
	}
	return -1
}

func (z *Zone) removeAt(i int) *CardInstance {
	card := z.cards[i]
	z.cards = append(z.cards[:i], z.cards[i+1:]...)
	return card
}

func (z *Zone) insert(card *CardInstance, pos Position) {
	if pos == Top {
		z.cards = append([]*CardInstance{card}, z.cards...)
		return
	}
	z.cards = append(z.cards, card)
}

func (z *Zone) clear() {
	z.cards = nil
}

// Move removes card from one zone and inserts it into another. It fails
// with ErrNotFound, changing nothing, when the card is not in from.
func Move(card *CardInstance, from, to *Zone, pos Position) error {
	i := from.indexOf(card)
	if i < 0 {
		return ErrNotFound
	}
	from.removeAt(i)
	to.insert(card, pos)
	return nil
}

// Shuffle randomly permutes the zone's contents. rand.Shuffle is a
// Fisher-Yates, so every permutation is equally likely.
func Shuffle(z *Zone) {
	rand.Shuffle(len(z.cards), func(i, j int) {
		z.cards[i], z.cards[j] = z.cards[j], z.cards[i]
	})
}

// Draw moves the top n cards of library to hand in order. It refuses a
// partial draw: fewer than n cards remaining is ErrEmptyLibrary and
// neither zone changes.
func Draw(library, hand *Zone, n int) error {
	if n > len(library.cards) {
		return ErrEmptyLibrary
	}
	for i := 0; i < n; i++ {
		hand.insert(library.removeAt(0), Bottom)
	}
	return nil
}
