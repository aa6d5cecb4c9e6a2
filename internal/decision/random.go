package decision

import (
	"fmt"

	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/model"
)

// Random is the default provider: uniform over every candidate pool, with
// two exceptions. Draws take the top of the deck, because draw order must
// follow deck order unless something shuffled it. Jousts peek uniformly,
// because they do not consume the card.
//
// Random is reproducible exactly when its Source is (see engine.SeededSource).
type Random struct {
	src engine.Source
}

var _ Provider = (*Random)(nil)

// NewRandom creates a provider over src. A nil src uses crypto/rand.
func NewRandom(src engine.Source) *Random {
	if src == nil {
		src = engine.NewEntropySource()
	}
	return &Random{src: src}
}

// Source returns the underlying randomness source.
func (r *Random) Source() engine.Source {
	return r.src
}

func choose[T any](src engine.Source, op Op, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, emptyPool(op)
	}
	return items[src.Intn(len(items))], nil
}

func (r *Random) PickAdaptChoice(_ model.EntityType, _, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickAdaptChoice, cards)
}

func (r *Random) PickBasicTotem(totems []string) (string, error) {
	return choose(r.src, OpPickBasicTotem, totems)
}

func (r *Random) PickRandomCard(_ model.TaskRef, _, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickRandomCard, cards)
}

func (r *Random) PickDiscoverChoice(_ model.DiscoverType, _, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickDiscoverChoice, cards)
}

func (r *Random) PickEntourage(_, _ model.Entity, cards []string) (string, error) {
	return choose(r.src, OpPickEntourage, cards)
}

func (r *Random) PickHeroClass(_, _ model.Entity, classes []model.CardClass) (model.CardClass, error) {
	return choose(r.src, OpPickHeroClass, classes)
}

func (r *Random) PickMinion(_ model.TaskRef, _, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickMinion, cards)
}

func (r *Random) PickMinionByCost(_ int, _, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickMinionByCost, cards)
}

func (r *Random) PickPotionSpell(_, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickPotionSpell, cards)
}

func (r *Random) PickRecruit(_, _ model.Entity, minions []*model.Minion) (*model.Minion, error) {
	return choose(r.src, OpPickRecruit, minions)
}

func (r *Random) PickReplace(_ model.Zone, _, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickReplace, cards)
}

func (r *Random) PickSpell(_, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickSpell, cards)
}

func (r *Random) PickTransformMinion(_, _ model.Entity, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickTransformMinion, cards)
}

func (r *Random) PickDraw(c *model.Controller) (model.Playable, error) {
	if c == nil || c.Deck == nil || c.Deck.Count() == 0 {
		return nil, emptyPool(OpPickDraw)
	}
	return c.Deck.Top(), nil
}

func (r *Random) PickJoust(c *model.Controller) (model.Playable, error) {
	if c == nil || c.Deck == nil || c.Deck.Count() == 0 {
		return nil, emptyPool(OpPickJoust)
	}
	return c.Deck.At(r.src.Intn(c.Deck.Count())), nil
}

func (r *Random) PickTarget(_ model.EntityType, _, _ model.Entity, entities []model.Playable) (model.Playable, error) {
	return choose(r.src, OpPickTarget, entities)
}

func (r *Random) PickCardName(names []string) (string, error) {
	return choose(r.src, OpPickCardName, names)
}

func (r *Random) PickNamedCard(_ string, cards []*model.Card) (*model.Card, error) {
	return choose(r.src, OpPickNamedCard, cards)
}

func (r *Random) CoinFlip(_, _ model.Entity) (int, error) {
	return r.src.Intn(2), nil
}

func (r *Random) RandomDamage(amount int, _, _ model.Entity) (int, error) {
	if amount < 0 {
		return 0, &CandidateError{Op: OpRandomDamage, Reason: fmt.Sprintf("negative maximum %d", amount)}
	}
	return r.src.Intn(amount + 1), nil
}

func (r *Random) Number(lo, hi int, _, _ model.Entity) (int, error) {
	if hi < lo {
		return 0, invertedBounds(lo, hi)
	}
	return lo + r.src.Intn(hi-lo+1), nil
}

// SortSummonCopy returns a shuffled copy; entities is left untouched.
func (r *Random) SortSummonCopy(_, _ model.Entity, entities []model.Playable) ([]model.Playable, error) {
	out := make([]model.Playable, len(entities))
	copy(out, entities)
	for i := len(out) - 1; i > 0; i-- {
		j := r.src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
