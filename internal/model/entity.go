package model

import "fmt"

// EntityType names the role of an entity relative to an effect, as used by
// target selection and adapt choices.
type EntityType int

const (
	EntityInvalid EntityType = iota
	EntitySource
	EntityTarget
	EntityHero
	EntityOpHero
	EntityMinions
	EntityOpMinions
	EntityAll
	EntityEnemies
	EntityFriends
	EntityHand
	EntityDeck
)

var entityTypeNames = [...]string{
	EntityInvalid:   "INVALID",
	EntitySource:    "SOURCE",
	EntityTarget:    "TARGET",
	EntityHero:      "HERO",
	EntityOpHero:    "ENEMY_HERO",
	EntityMinions:   "MINIONS",
	EntityOpMinions: "ENEMY_MINIONS",
	EntityAll:       "ALL",
	EntityEnemies:   "ENEMIES",
	EntityFriends:   "FRIENDS",
	EntityHand:      "HAND",
	EntityDeck:      "DECK",
}

func (t EntityType) String() string {
	if t < 0 || int(t) >= len(entityTypeNames) {
		return fmt.Sprintf("EntityType(%d)", int(t))
	}
	return entityTypeNames[t]
}

// DiscoverType names the pool a discover effect draws its three options from.
type DiscoverType int

const (
	DiscoverInvalid DiscoverType = iota
	DiscoverBasicHeroPower
	DiscoverDeathrattle
	DiscoverSpell
	DiscoverMinion
	DiscoverClassCard
	DiscoverTaunt
	DiscoverSecret
	DiscoverWeapon
	DiscoverOwnDeck
)

var discoverTypeNames = [...]string{
	DiscoverInvalid:        "INVALID",
	DiscoverBasicHeroPower: "BASIC_HERO_POWER",
	DiscoverDeathrattle:    "DEATHRATTLE",
	DiscoverSpell:          "SPELL",
	DiscoverMinion:         "MINION",
	DiscoverClassCard:      "CLASS_CARD",
	DiscoverTaunt:          "TAUNT",
	DiscoverSecret:         "SECRET",
	DiscoverWeapon:         "WEAPON",
	DiscoverOwnDeck:        "OWN_DECK",
}

func (t DiscoverType) String() string {
	if t < 0 || int(t) >= len(discoverTypeNames) {
		return fmt.Sprintf("DiscoverType(%d)", int(t))
	}
	return discoverTypeNames[t]
}

// Entity is anything on the board or in a zone that carries a card.
type Entity interface {
	EntityID() int
	Card() *Card
}

// Playable is an entity that can be drawn, played or summoned.
type Playable interface {
	Entity
	Controller() *Controller
}

// TaskRef identifies the authored effect that requested a decision.
type TaskRef interface {
	TaskName() string
}

// EntityIDOf returns the id of e, or 0 when e is nil.
func EntityIDOf(e Entity) int {
	if e == nil {
		return 0
	}
	return e.EntityID()
}

// NameOf returns the card name of e, or "" when e is nil.
func NameOf(e Entity) string {
	if e == nil || e.Card() == nil {
		return ""
	}
	return e.Card().String()
}

// PlayableNames returns the card names of entities in order.
func PlayableNames(entities []Playable) []string {
	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = NameOf(e)
	}
	return names
}

// Minion is a concrete playable minion.
type Minion struct {
	ID     int
	Def    *Card
	Owner  *Controller
	Attack int
	Health int
}

// NewMinion creates a minion for card owned by c.
func NewMinion(id int, card *Card, c *Controller) *Minion {
	return &Minion{ID: id, Def: card, Owner: c}
}

// EntityID returns 0 for a nil Minion.
func (m *Minion) EntityID() int {
	if m == nil {
		return 0
	}
	return m.ID
}

// Card returns nil for a nil Minion.
func (m *Minion) Card() *Card {
	if m == nil {
		return nil
	}
	return m.Def
}

func (m *Minion) Controller() *Controller {
	if m == nil {
		return nil
	}
	return m.Owner
}

// CardEntity is a playable that is not a minion, such as a spell in a deck.
type CardEntity struct {
	ID    int
	Def   *Card
	Owner *Controller
}

// EntityID returns 0 for a nil CardEntity.
func (e *CardEntity) EntityID() int {
	if e == nil {
		return 0
	}
	return e.ID
}

// Card returns nil for a nil CardEntity.
func (e *CardEntity) Card() *Card {
	if e == nil {
		return nil
	}
	return e.Def
}

func (e *CardEntity) Controller() *Controller {
	if e == nil {
		return nil
	}
	return e.Owner
}
