package model

// ZoneKind identifies a zone.
type ZoneKind int

const (
	ZoneInvalid ZoneKind = iota
	ZoneDeck
	ZoneHand
	ZonePlay
	ZoneGraveyard
	ZoneSecret
	ZoneSetAside
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneDeck:
		return "DECK"
	case ZoneHand:
		return "HAND"
	case ZonePlay:
		return "PLAY"
	case ZoneGraveyard:
		return "GRAVEYARD"
	case ZoneSecret:
		return "SECRET"
	case ZoneSetAside:
		return "SETASIDE"
	default:
		return "INVALID"
	}
}

// Zone is an ordered collection of playables owned by a controller.
type Zone interface {
	Kind() ZoneKind
	Count() int
}

// Deck is the controller's deck zone. Index 0 is the top of the deck.
type Deck struct {
	cards []Playable
}

// NewDeck creates a deck whose first element is the top card.
func NewDeck(cards ...Playable) *Deck {
	d := &Deck{cards: make([]Playable, len(cards))}
	copy(d.cards, cards)
	return d
}

func (d *Deck) Kind() ZoneKind { return ZoneDeck }
func (d *Deck) Count() int     { return len(d.cards) }

// Top returns the top card, or nil when the deck is empty.
func (d *Deck) Top() Playable {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[0]
}

// Cards returns a copy of the deck contents, top first.
func (d *Deck) Cards() []Playable {
	out := make([]Playable, len(d.cards))
	copy(out, d.cards)
	return out
}

// At returns the card at index i.
func (d *Deck) At(i int) Playable {
	return d.cards[i]
}

// Add puts p at the bottom of the deck.
func (d *Deck) Add(p Playable) {
	d.cards = append(d.cards, p)
}

// Remove takes p out of the deck. It reports whether p was present.
func (d *Deck) Remove(p Playable) bool {
	for i, c := range d.cards {
		if c == p {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Controller is a player with a deck.
type Controller struct {
	ID   int
	Name string
	Deck *Deck
}

// NewController creates a controller with an empty deck.
func NewController(id int, name string) *Controller {
	return &Controller{ID: id, Name: name, Deck: NewDeck()}
}

// EntityID makes a controller usable as an acting entity reference.
func (c *Controller) EntityID() int {
	if c == nil {
		return 0
	}
	return c.ID
}

// Card returns nil; controllers carry no card.
func (c *Controller) Card() *Card { return nil }
