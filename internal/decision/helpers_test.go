package decision

import (
	"github.com/MJE43/cardsim/internal/model"
)

type taskRef string

func (t taskRef) TaskName() string { return string(t) }

func cards(names ...string) []*model.Card {
	out := make([]*model.Card, len(names))
	for i, n := range names {
		out[i] = &model.Card{ID: n, Name: n}
	}
	return out
}

func controllerWithDeck(names ...string) *model.Controller {
	c := model.NewController(1, "Player1")
	for i, card := range cards(names...) {
		c.Deck.Add(&model.CardEntity{ID: 100 + i, Def: card, Owner: c})
	}
	return c
}

func playables(c *model.Controller, names ...string) []model.Playable {
	out := make([]model.Playable, len(names))
	for i, card := range cards(names...) {
		out[i] = model.NewMinion(200+i, card, c)
	}
	return out
}

// callEveryOp invokes each operation of p once with a valid, non-empty
// request and returns the resulting errors keyed by operation.
func callEveryOp(p Provider) map[Op]error {
	c := controllerWithDeck("Wisp", "Boar")
	pool := cards("Wisp", "Boar")
	minions := []*model.Minion{model.NewMinion(1, pool[0], c)}
	entities := playables(c, "Wisp", "Boar")
	src := model.NewMinion(9, &model.Card{Name: "Source"}, c)

	errs := make(map[Op]error)
	_, errs[OpPickAdaptChoice] = p.PickAdaptChoice(model.EntityMinions, src, nil, pool)
	_, errs[OpPickBasicTotem] = p.PickBasicTotem([]string{"Healing Totem"})
	_, errs[OpPickRandomCard] = p.PickRandomCard(taskRef("RandomCardTask"), src, nil, pool)
	_, errs[OpPickDiscoverChoice] = p.PickDiscoverChoice(model.DiscoverSpell, src, nil, pool)
	_, errs[OpPickDraw] = p.PickDraw(c)
	_, errs[OpPickEntourage] = p.PickEntourage(src, nil, []string{"Wisp"})
	_, errs[OpPickHeroClass] = p.PickHeroClass(src, nil, []model.CardClass{model.ClassMage})
	_, errs[OpPickJoust] = p.PickJoust(c)
	_, errs[OpPickMinion] = p.PickMinion(taskRef("RandomMinionTask"), src, nil, pool)
	_, errs[OpPickMinionByCost] = p.PickMinionByCost(1, src, nil, pool)
	_, errs[OpPickPotionSpell] = p.PickPotionSpell(src, nil, pool)
	_, errs[OpPickRecruit] = p.PickRecruit(src, nil, minions)
	_, errs[OpPickReplace] = p.PickReplace(c.Deck, src, nil, pool)
	_, errs[OpPickSpell] = p.PickSpell(src, nil, pool)
	_, errs[OpPickTarget] = p.PickTarget(model.EntityEnemies, src, nil, entities)
	_, errs[OpPickTransformMinion] = p.PickTransformMinion(src, nil, pool)
	_, errs[OpPickCardName] = p.PickCardName([]string{"Wisp"})
	_, errs[OpPickNamedCard] = p.PickNamedCard("test", pool)
	_, errs[OpCoinFlip] = p.CoinFlip(src, nil)
	_, errs[OpRandomDamage] = p.RandomDamage(3, src, nil)
	_, errs[OpNumber] = p.Number(1, 3, src, nil)
	_, errs[OpSortSummonCopy] = p.SortSummonCopy(src, nil, entities)
	return errs
}
