package decision

import (
	"github.com/MJE43/cardsim/internal/model"
)

// Fail answers nothing: every operation returns *UnimplementedError naming
// itself. Embed it in a test provider and override only the operations a
// scenario exercises, so an unexpected decision point fails loudly instead
// of falling back to randomness.
//
//	type drawOnly struct{ decision.Fail }
//
//	func (drawOnly) PickDraw(c *model.Controller) (model.Playable, error) { ... }
type Fail struct{}

var _ Provider = Fail{}

func unimplemented(op Op) error {
	return &UnimplementedError{Op: op}
}

func (Fail) PickAdaptChoice(model.EntityType, model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickAdaptChoice)
}

func (Fail) PickBasicTotem([]string) (string, error) {
	return "", unimplemented(OpPickBasicTotem)
}

func (Fail) PickRandomCard(model.TaskRef, model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickRandomCard)
}

func (Fail) PickDiscoverChoice(model.DiscoverType, model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickDiscoverChoice)
}

func (Fail) PickEntourage(model.Entity, model.Entity, []string) (string, error) {
	return "", unimplemented(OpPickEntourage)
}

func (Fail) PickHeroClass(model.Entity, model.Entity, []model.CardClass) (model.CardClass, error) {
	return model.ClassInvalid, unimplemented(OpPickHeroClass)
}

func (Fail) PickMinion(model.TaskRef, model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickMinion)
}

func (Fail) PickMinionByCost(int, model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickMinionByCost)
}

func (Fail) PickPotionSpell(model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickPotionSpell)
}

func (Fail) PickRecruit(model.Entity, model.Entity, []*model.Minion) (*model.Minion, error) {
	return nil, unimplemented(OpPickRecruit)
}

func (Fail) PickReplace(model.Zone, model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickReplace)
}

func (Fail) PickSpell(model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickSpell)
}

func (Fail) PickTransformMinion(model.Entity, model.Entity, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickTransformMinion)
}

func (Fail) PickDraw(*model.Controller) (model.Playable, error) {
	return nil, unimplemented(OpPickDraw)
}

func (Fail) PickJoust(*model.Controller) (model.Playable, error) {
	return nil, unimplemented(OpPickJoust)
}

func (Fail) PickTarget(model.EntityType, model.Entity, model.Entity, []model.Playable) (model.Playable, error) {
	return nil, unimplemented(OpPickTarget)
}

func (Fail) PickCardName([]string) (string, error) {
	return "", unimplemented(OpPickCardName)
}

func (Fail) PickNamedCard(string, []*model.Card) (*model.Card, error) {
	return nil, unimplemented(OpPickNamedCard)
}

func (Fail) CoinFlip(model.Entity, model.Entity) (int, error) {
	return 0, unimplemented(OpCoinFlip)
}

func (Fail) RandomDamage(int, model.Entity, model.Entity) (int, error) {
	return 0, unimplemented(OpRandomDamage)
}

func (Fail) Number(int, int, model.Entity, model.Entity) (int, error) {
	return 0, unimplemented(OpNumber)
}

func (Fail) SortSummonCopy(model.Entity, model.Entity, []model.Playable) ([]model.Playable, error) {
	return nil, unimplemented(OpSortSummonCopy)
}
