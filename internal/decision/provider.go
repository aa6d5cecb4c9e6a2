// Package decision is the single seam through which the rules engine makes
// every non-deterministic choice: card picks, targets, coin flips, bounded
// numbers and summon ordering.
//
// Exactly one Provider is bound to a simulation for its whole life. Swapping
// the provider is how the same rules code is driven by true randomness, by a
// seed pair, by a scripted test, or by a recorded transcript.
//
// Every operation either returns a concrete answer or fails. Failures are
// programming or configuration errors (see errors.go) and are never retried.
package decision

import (
	"github.com/MJE43/cardsim/internal/model"
)

// Op names a decision kind. Op values appear in errors, logs and transcripts.
type Op string

const (
	OpPickAdaptChoice     Op = "PickAdaptChoice"
	OpPickBasicTotem      Op = "PickBasicTotem"
	OpPickRandomCard      Op = "PickRandomCard"
	OpPickDiscoverChoice  Op = "PickDiscoverChoice"
	OpPickDraw            Op = "PickDraw"
	OpPickEntourage       Op = "PickEntourage"
	OpPickHeroClass       Op = "PickHeroClass"
	OpPickJoust           Op = "PickJoust"
	OpPickMinion          Op = "PickMinion"
	OpPickMinionByCost    Op = "PickMinionByCost"
	OpPickPotionSpell     Op = "PickPotionSpell"
	OpPickRecruit         Op = "PickRecruit"
	OpPickReplace         Op = "PickReplace"
	OpPickSpell           Op = "PickSpell"
	OpPickTarget          Op = "PickTarget"
	OpPickTransformMinion Op = "PickTransformMinion"
	OpPickCardName        Op = "PickCardName"
	OpPickNamedCard       Op = "PickNamedCard"
	OpCoinFlip            Op = "CoinFlip"
	OpRandomDamage        Op = "RandomDamage"
	OpNumber              Op = "Number"
	OpSortSummonCopy      Op = "SortSummonCopy"
)

// Ops lists every operation of Provider in declaration order.
var Ops = []Op{
	OpPickAdaptChoice,
	OpPickBasicTotem,
	OpPickRandomCard,
	OpPickDiscoverChoice,
	OpPickDraw,
	OpPickEntourage,
	OpPickHeroClass,
	OpPickJoust,
	OpPickMinion,
	OpPickMinionByCost,
	OpPickPotionSpell,
	OpPickRecruit,
	OpPickReplace,
	OpPickSpell,
	OpPickTarget,
	OpPickTransformMinion,
	OpPickCardName,
	OpPickNamedCard,
	OpCoinFlip,
	OpRandomDamage,
	OpNumber,
	OpSortSummonCopy,
}

// Numeric reports whether op answers with a number rather than a pick.
func (op Op) Numeric() bool {
	return op == OpCoinFlip || op == OpRandomDamage || op == OpNumber
}

// Provider resolves every non-deterministic decision of a simulation.
//
// The source and target entities identify who is acting and on what. They
// are for logging and hooks only and never change the candidate pool.
// Selection operations must be given a non-empty pool.
type Provider interface {
	// Selection from a typed pool.
	PickAdaptChoice(kind model.EntityType, source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickBasicTotem(totems []string) (string, error)
	PickRandomCard(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickDiscoverChoice(kind model.DiscoverType, source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickEntourage(source, target model.Entity, cards []string) (string, error)
	PickHeroClass(source, target model.Entity, classes []model.CardClass) (model.CardClass, error)
	PickMinion(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickMinionByCost(cost int, source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickPotionSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickRecruit(source, target model.Entity, minions []*model.Minion) (*model.Minion, error)
	PickReplace(zone model.Zone, source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error)
	PickTransformMinion(source, target model.Entity, cards []*model.Card) (*model.Card, error)

	// Selection from game state.
	PickDraw(c *model.Controller) (model.Playable, error)
	PickJoust(c *model.Controller) (model.Playable, error)
	PickTarget(kind model.EntityType, source, target model.Entity, entities []model.Playable) (model.Playable, error)

	// Used outside the main game loop.
	PickCardName(names []string) (string, error)
	PickNamedCard(context string, cards []*model.Card) (*model.Card, error)

	// Numeric outcomes.
	CoinFlip(source, target model.Entity) (int, error)
	RandomDamage(amount int, source, target model.Entity) (int, error)
	Number(lo, hi int, source, target model.Entity) (int, error)

	// Ordering.
	SortSummonCopy(source, target model.Entity, entities []model.Playable) ([]model.Playable, error)
}
