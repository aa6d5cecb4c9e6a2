package decision

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/MJE43/cardsim/internal/model"
)

// answer is one queued scripted answer. Picks are matched by card name,
// hero classes by CardClass.String, orders by the names in sequence.
// Answers rebuilt from a transcript also carry the offered position, which
// takes precedence over the name.
type answer struct {
	name    string
	index   int
	indexed bool
	number  int
	order   []string
	perm    []int
}

type queue struct {
	answers []answer
	next    int
}

func (q *queue) remaining() int {
	return len(q.answers) - q.next
}

// Script assembles a Scripted provider. Only the operations given answers
// are scripted; everything else goes to the fallback, which is Fail unless
// replaced.
//
//	p := decision.NewScript().
//		Draws("Leeroy Jenkins", "Backstab").
//		RandomCards("Innervate").
//		CoinFlips(0).
//		Build()
type Script struct {
	queues   *orderedmap.OrderedMap[Op, *queue]
	fallback Provider
}

// NewScript creates an empty script with a fail-fast fallback.
func NewScript() *Script {
	return &Script{
		queues:   orderedmap.NewOrderedMap[Op, *queue](),
		fallback: Fail{},
	}
}

func (s *Script) add(op Op, answers ...answer) *Script {
	q, ok := s.queues.Get(op)
	if !ok {
		q = &queue{}
		s.queues.Set(op, q)
	}
	q.answers = append(q.answers, answers...)
	return s
}

// Names queues picks by name for any selection op.
func (s *Script) Names(op Op, names ...string) *Script {
	answers := make([]answer, len(names))
	for i, n := range names {
		answers[i] = answer{name: n}
	}
	return s.add(op, answers...)
}

// Values queues answers for a numeric op.
func (s *Script) Values(op Op, values ...int) *Script {
	answers := make([]answer, len(values))
	for i, v := range values {
		answers[i] = answer{number: v}
	}
	return s.add(op, answers...)
}

func (s *Script) AdaptChoices(names ...string) *Script {
	return s.Names(OpPickAdaptChoice, names...)
}

func (s *Script) BasicTotems(names ...string) *Script {
	return s.Names(OpPickBasicTotem, names...)
}

func (s *Script) RandomCards(names ...string) *Script {
	return s.Names(OpPickRandomCard, names...)
}

func (s *Script) Discovers(names ...string) *Script {
	return s.Names(OpPickDiscoverChoice, names...)
}

func (s *Script) Draws(names ...string) *Script {
	return s.Names(OpPickDraw, names...)
}

func (s *Script) Entourages(names ...string) *Script {
	return s.Names(OpPickEntourage, names...)
}

func (s *Script) Jousts(names ...string) *Script {
	return s.Names(OpPickJoust, names...)
}

func (s *Script) Minions(names ...string) *Script {
	return s.Names(OpPickMinion, names...)
}

func (s *Script) MinionsByCost(names ...string) *Script {
	return s.Names(OpPickMinionByCost, names...)
}

func (s *Script) PotionSpells(names ...string) *Script {
	return s.Names(OpPickPotionSpell, names...)
}

func (s *Script) Recruits(names ...string) *Script {
	return s.Names(OpPickRecruit, names...)
}

func (s *Script) Replaces(names ...string) *Script {
	return s.Names(OpPickReplace, names...)
}

func (s *Script) Spells(names ...string) *Script {
	return s.Names(OpPickSpell, names...)
}

func (s *Script) Targets(names ...string) *Script {
	return s.Names(OpPickTarget, names...)
}

func (s *Script) TransformMinions(names ...string) *Script {
	return s.Names(OpPickTransformMinion, names...)
}

func (s *Script) CardNames(names ...string) *Script {
	return s.Names(OpPickCardName, names...)
}

func (s *Script) NamedCards(names ...string) *Script {
	return s.Names(OpPickNamedCard, names...)
}

// HeroClasses queues hero class answers.
func (s *Script) HeroClasses(classes ...model.CardClass) *Script {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}
	return s.Names(OpPickHeroClass, names...)
}

// CoinFlips queues coin flip outcomes. Values are returned verbatim, so a
// test may force any outcome, not just 0 and 1.
func (s *Script) CoinFlips(values ...int) *Script {
	return s.Values(OpCoinFlip, values...)
}

// Damages queues RandomDamage outcomes. Each must lie in [0, amount].
func (s *Script) Damages(values ...int) *Script {
	return s.Values(OpRandomDamage, values...)
}

// Numbers queues Number outcomes. Each must lie in the requested bounds.
func (s *Script) Numbers(values ...int) *Script {
	return s.Values(OpNumber, values...)
}

// SummonOrders queues summon orderings, each given as card names.
func (s *Script) SummonOrders(orders ...[]string) *Script {
	answers := make([]answer, len(orders))
	for i, o := range orders {
		answers[i] = answer{order: append([]string(nil), o...)}
	}
	return s.add(OpSortSummonCopy, answers...)
}

// Fallback sets the provider for unscripted operations.
func (s *Script) Fallback(p Provider) *Script {
	s.fallback = p
	return s
}

// Build returns a provider that owns a copy of the queued answers.
func (s *Script) Build() *Scripted {
	queues := orderedmap.NewOrderedMap[Op, *queue]()
	for el := s.queues.Front(); el != nil; el = el.Next() {
		queues.Set(el.Key, &queue{answers: append([]answer(nil), el.Value.answers...)})
	}
	fallback := s.fallback
	if fallback == nil {
		fallback = Fail{}
	}
	return &Scripted{queues: queues, fallback: fallback}
}

// Scripted replays queued answers in order, one queue per operation.
// It holds mutable position state and belongs to a single simulation.
type Scripted struct {
	queues   *orderedmap.OrderedMap[Op, *queue]
	fallback Provider
}

var _ Provider = (*Scripted)(nil)

// Remaining is the number of unconsumed answers for op.
func (s *Scripted) Remaining(op Op) int {
	q, ok := s.queues.Get(op)
	if !ok {
		return 0
	}
	return q.remaining()
}

// Pending lists operations with unconsumed answers, in the order they were
// first scripted. A finished scenario should have none.
func (s *Scripted) Pending() []Op {
	var ops []Op
	for el := s.queues.Front(); el != nil; el = el.Next() {
		if el.Value.remaining() > 0 {
			ops = append(ops, el.Key)
		}
	}
	return ops
}

// pop takes the next answer for op. scripted is false when op has no queue.
func (s *Scripted) pop(op Op) (a answer, scripted bool, err error) {
	q, ok := s.queues.Get(op)
	if !ok {
		return answer{}, false, nil
	}
	if q.remaining() == 0 {
		return answer{}, true, &ExhaustedError{Op: op, Consumed: len(q.answers)}
	}
	a = q.answers[q.next]
	q.next++
	return a, true, nil
}

// match returns the item the scripted answer names: the one at its
// recorded position when it has one, else the first with that name.
func match[T any](op Op, a answer, items []T, name func(T) string) (T, error) {
	var zero T
	if a.indexed {
		if a.index < len(items) && name(items[a.index]) == a.name {
			return items[a.index], nil
		}
		return zero, &MismatchError{Op: op, Want: fmt.Sprintf("%s at %d", a.name, a.index), Offered: namesOf(items, name)}
	}
	for _, it := range items {
		if name(it) == a.name {
			return it, nil
		}
	}
	return zero, &MismatchError{Op: op, Want: a.name, Offered: namesOf(items, name)}
}

func namesOf[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

func cardName(c *model.Card) string {
	return c.String()
}

func playableName(p model.Playable) string {
	return model.NameOf(p)
}

func minionName(m *model.Minion) string {
	return model.NameOf(m)
}

func identity(s string) string {
	return s
}

func className(c model.CardClass) string {
	return c.String()
}

// pickNamed pops an answer for op and resolves it against items. When op is
// not scripted, fallback answers instead.
func pickNamed[T any](s *Scripted, op Op, items []T, name func(T) string, fallback func() (T, error)) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, emptyPool(op)
	}
	a, scripted, err := s.pop(op)
	if err != nil {
		return zero, err
	}
	if !scripted {
		return fallback()
	}
	return match(op, a, items, name)
}

func (s *Scripted) PickAdaptChoice(kind model.EntityType, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickAdaptChoice, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickAdaptChoice(kind, source, target, cards)
	})
}

func (s *Scripted) PickBasicTotem(totems []string) (string, error) {
	return pickNamed(s, OpPickBasicTotem, totems, identity, func() (string, error) {
		return s.fallback.PickBasicTotem(totems)
	})
}

func (s *Scripted) PickRandomCard(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickRandomCard, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickRandomCard(task, source, target, cards)
	})
}

func (s *Scripted) PickDiscoverChoice(kind model.DiscoverType, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickDiscoverChoice, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickDiscoverChoice(kind, source, target, cards)
	})
}

func (s *Scripted) PickEntourage(source, target model.Entity, cards []string) (string, error) {
	return pickNamed(s, OpPickEntourage, cards, identity, func() (string, error) {
		return s.fallback.PickEntourage(source, target, cards)
	})
}

func (s *Scripted) PickHeroClass(source, target model.Entity, classes []model.CardClass) (model.CardClass, error) {
	return pickNamed(s, OpPickHeroClass, classes, className, func() (model.CardClass, error) {
		return s.fallback.PickHeroClass(source, target, classes)
	})
}

func (s *Scripted) PickMinion(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickMinion, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickMinion(task, source, target, cards)
	})
}

func (s *Scripted) PickMinionByCost(cost int, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickMinionByCost, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickMinionByCost(cost, source, target, cards)
	})
}

func (s *Scripted) PickPotionSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickPotionSpell, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickPotionSpell(source, target, cards)
	})
}

func (s *Scripted) PickRecruit(source, target model.Entity, minions []*model.Minion) (*model.Minion, error) {
	return pickNamed(s, OpPickRecruit, minions, minionName, func() (*model.Minion, error) {
		return s.fallback.PickRecruit(source, target, minions)
	})
}

func (s *Scripted) PickReplace(zone model.Zone, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickReplace, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickReplace(zone, source, target, cards)
	})
}

func (s *Scripted) PickSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickSpell, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickSpell(source, target, cards)
	})
}

func (s *Scripted) PickTransformMinion(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickTransformMinion, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickTransformMinion(source, target, cards)
	})
}

func (s *Scripted) PickDraw(c *model.Controller) (model.Playable, error) {
	return pickNamed(s, OpPickDraw, deckOf(c), playableName, func() (model.Playable, error) {
		return s.fallback.PickDraw(c)
	})
}

func (s *Scripted) PickJoust(c *model.Controller) (model.Playable, error) {
	return pickNamed(s, OpPickJoust, deckOf(c), playableName, func() (model.Playable, error) {
		return s.fallback.PickJoust(c)
	})
}

func deckOf(c *model.Controller) []model.Playable {
	if c == nil || c.Deck == nil {
		return nil
	}
	return c.Deck.Cards()
}

func (s *Scripted) PickTarget(kind model.EntityType, source, target model.Entity, entities []model.Playable) (model.Playable, error) {
	return pickNamed(s, OpPickTarget, entities, playableName, func() (model.Playable, error) {
		return s.fallback.PickTarget(kind, source, target, entities)
	})
}

func (s *Scripted) PickCardName(names []string) (string, error) {
	return pickNamed(s, OpPickCardName, names, identity, func() (string, error) {
		return s.fallback.PickCardName(names)
	})
}

func (s *Scripted) PickNamedCard(context string, cards []*model.Card) (*model.Card, error) {
	return pickNamed(s, OpPickNamedCard, cards, cardName, func() (*model.Card, error) {
		return s.fallback.PickNamedCard(context, cards)
	})
}

func (s *Scripted) CoinFlip(source, target model.Entity) (int, error) {
	a, scripted, err := s.pop(OpCoinFlip)
	if err != nil {
		return 0, err
	}
	if !scripted {
		return s.fallback.CoinFlip(source, target)
	}
	return a.number, nil
}

func (s *Scripted) RandomDamage(amount int, source, target model.Entity) (int, error) {
	if amount < 0 {
		return 0, &CandidateError{Op: OpRandomDamage, Reason: fmt.Sprintf("negative maximum %d", amount)}
	}
	a, scripted, err := s.pop(OpRandomDamage)
	if err != nil {
		return 0, err
	}
	if !scripted {
		return s.fallback.RandomDamage(amount, source, target)
	}
	return bounded(OpRandomDamage, a.number, 0, amount)
}

func (s *Scripted) Number(lo, hi int, source, target model.Entity) (int, error) {
	if hi < lo {
		return 0, invertedBounds(lo, hi)
	}
	a, scripted, err := s.pop(OpNumber)
	if err != nil {
		return 0, err
	}
	if !scripted {
		return s.fallback.Number(lo, hi, source, target)
	}
	return bounded(OpNumber, a.number, lo, hi)
}

func bounded(op Op, v, lo, hi int) (int, error) {
	if v < lo || v > hi {
		return 0, &MismatchError{Op: op, Want: fmt.Sprint(v), Offered: []string{fmt.Sprintf("[%d, %d]", lo, hi)}}
	}
	return v, nil
}

// SortSummonCopy arranges entities in the scripted name order. Each name
// consumes the first unused entity carrying it, unless the answer carries
// recorded positions.
func (s *Scripted) SortSummonCopy(source, target model.Entity, entities []model.Playable) ([]model.Playable, error) {
	a, scripted, err := s.pop(OpSortSummonCopy)
	if err != nil {
		return nil, err
	}
	if !scripted {
		return s.fallback.SortSummonCopy(source, target, entities)
	}

	offered := model.PlayableNames(entities)
	if len(a.order) != len(entities) {
		return nil, &MismatchError{Op: OpSortSummonCopy, Want: fmt.Sprint(a.order), Offered: offered}
	}
	if a.perm != nil {
		return orderByPosition(a, entities, offered)
	}
	used := make([]bool, len(entities))
	out := make([]model.Playable, 0, len(entities))
	for _, want := range a.order {
		found := false
		for i, e := range entities {
			if !used[i] && offered[i] == want {
				used[i] = true
				out = append(out, e)
				found = true
				break
			}
		}
		if !found {
			return nil, &MismatchError{Op: OpSortSummonCopy, Want: want, Offered: offered}
		}
	}
	return out, nil
}

// orderByPosition applies a recorded permutation, checking that each
// position still holds the recorded name.
func orderByPosition(a answer, entities []model.Playable, offered []string) ([]model.Playable, error) {
	mismatch := &MismatchError{Op: OpSortSummonCopy, Want: fmt.Sprintf("%v at %v", a.order, a.perm), Offered: offered}
	if len(a.perm) != len(entities) {
		return nil, mismatch
	}
	used := make([]bool, len(entities))
	out := make([]model.Playable, 0, len(entities))
	for k, i := range a.perm {
		if i < 0 || i >= len(entities) || used[i] || offered[i] != a.order[k] {
			return nil, mismatch
		}
		used[i] = true
		out = append(out, entities[i])
	}
	return out, nil
}
