// Package model holds the narrow view of the rules engine that the decision
// layer needs: cards, entities, zones and the controller's deck.
package model

import (
	"fmt"
	"strings"
)

// CardType classifies a card definition.
type CardType int

const (
	CardTypeInvalid CardType = iota
	CardTypeMinion
	CardTypeSpell
	CardTypeWeapon
	CardTypeHero
	CardTypeHeroPower
	CardTypeEnchantment
)

// CardClass is the hero class a card belongs to.
type CardClass int

const (
	ClassInvalid CardClass = iota
	ClassDeathKnight
	ClassDruid
	ClassHunter
	ClassMage
	ClassPaladin
	ClassPriest
	ClassRogue
	ClassShaman
	ClassWarlock
	ClassWarrior
	ClassDreamCard
	ClassNeutral
)

var classNames = map[CardClass]string{
	ClassInvalid:     "INVALID",
	ClassDeathKnight: "DEATHKNIGHT",
	ClassDruid:       "DRUID",
	ClassHunter:      "HUNTER",
	ClassMage:        "MAGE",
	ClassPaladin:     "PALADIN",
	ClassPriest:      "PRIEST",
	ClassRogue:       "ROGUE",
	ClassShaman:      "SHAMAN",
	ClassWarlock:     "WARLOCK",
	ClassWarrior:     "WARRIOR",
	ClassDreamCard:   "DREAM",
	ClassNeutral:     "NEUTRAL",
}

func (c CardClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CardClass(%d)", int(c))
}

// ParseCardClass is the inverse of CardClass.String. Matching is case-insensitive.
func ParseCardClass(s string) (CardClass, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for class, name := range classNames {
		if name == upper {
			return class, nil
		}
	}
	return ClassInvalid, fmt.Errorf("model: unknown card class %q", s)
}

// Card is an immutable card definition.
type Card struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Cost  int       `json:"cost"`
	Type  CardType  `json:"type"`
	Class CardClass `json:"class"`
}

// String returns the card name, or the id for unnamed cards.
func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// CardNames returns the names of cards in order.
func CardNames(cards []*Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return names
}
