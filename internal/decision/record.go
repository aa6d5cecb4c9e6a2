package decision

import (
	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/model"
)

// Decision is one answered decision, in the form a replay needs.
// Picks are stored by name and by Index, their position in the offered
// pool (-1 when the answer was not among the candidates). Numeric answers
// go in Number. Summon orders go in Order, with Perm holding the offered
// position of each entry so same-named entities stay apart.
type Decision struct {
	Seq    int      `json:"seq"`
	Op     Op       `json:"op"`
	Source int      `json:"source,omitempty"`
	Target int      `json:"target,omitempty"`
	Choice string   `json:"choice,omitempty"`
	Index  int      `json:"index,omitempty"`
	Number int      `json:"number"`
	Order  []string `json:"order,omitempty"`
	Perm   []int    `json:"perm,omitempty"`
}

// Transcript is the ordered list of decisions made during one simulation.
type Transcript []Decision

// Script returns a script that answers every decision in t, in order.
// Picks resolve by recorded position and must still carry the recorded
// name there. Unrecorded operations fall through to Fail, so a replay that
// diverges from the recording fails at the first new decision point.
func (t Transcript) Script() *Script {
	s := NewScript()
	for _, d := range t {
		switch {
		case d.Op == OpSortSummonCopy:
			s.add(d.Op, answer{
				order: append([]string(nil), d.Order...),
				perm:  append([]int(nil), d.Perm...),
			})
		case d.Op.Numeric():
			s.Values(d.Op, d.Number)
		default:
			s.add(d.Op, answer{name: d.Choice, index: d.Index, indexed: d.Index >= 0})
		}
	}
	return s
}

// Replay is shorthand for t.Script().Build().
func (t Transcript) Replay() *Scripted {
	return t.Script().Build()
}

// Hook observes every answered decision. Hooks run synchronously on the
// simulation goroutine and must not block.
type Hook func(Decision)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger logs each decision at debug level.
func WithLogger(l *zap.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// WithHook adds a hook called after each answered decision.
func WithHook(h Hook) RecorderOption {
	return func(r *Recorder) {
		r.hooks = append(r.hooks, h)
	}
}

// Recorder wraps a provider and keeps a transcript of its answers.
// Failed decisions are logged but not recorded.
type Recorder struct {
	inner      Provider
	log        *zap.Logger
	hooks      []Hook
	seq        int
	transcript Transcript
}

var _ Provider = (*Recorder)(nil)

// NewRecorder wraps inner.
func NewRecorder(inner Provider, opts ...RecorderOption) *Recorder {
	r := &Recorder{inner: inner, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Transcript returns a copy of the decisions recorded so far.
func (r *Recorder) Transcript() Transcript {
	out := make(Transcript, len(r.transcript))
	copy(out, r.transcript)
	return out
}

// Len is the number of recorded decisions.
func (r *Recorder) Len() int {
	return len(r.transcript)
}

func (r *Recorder) record(d Decision, source, target model.Entity) {
	r.seq++
	d.Seq = r.seq
	d.Source = model.EntityIDOf(source)
	d.Target = model.EntityIDOf(target)
	r.transcript = append(r.transcript, d)

	if ce := r.log.Check(zap.DebugLevel, "decision"); ce != nil {
		fields := []zap.Field{
			zap.Int("seq", d.Seq),
			zap.String("op", string(d.Op)),
			zap.Int("source", d.Source),
			zap.Int("target", d.Target),
		}
		switch {
		case d.Op == OpSortSummonCopy:
			fields = append(fields, zap.Strings("order", d.Order))
		case d.Op.Numeric():
			fields = append(fields, zap.Int("number", d.Number))
		default:
			fields = append(fields, zap.String("choice", d.Choice))
		}
		ce.Write(fields...)
	}

	for _, h := range r.hooks {
		h(d)
	}
}

func (r *Recorder) failed(op Op, err error) {
	r.log.Warn("decision failed", zap.String("op", string(op)), zap.Int("seq", r.seq+1), zap.Error(err))
}

func (r *Recorder) pick(op Op, choice string, index int, source, target model.Entity) {
	r.record(Decision{Op: op, Choice: choice, Index: index}, source, target)
}

// position returns the index of v in pool, or -1.
func position[T comparable](pool []T, v T) int {
	for i, p := range pool {
		if p == v {
			return i
		}
	}
	return -1
}

// permutation maps each entity of out to its position in in. It returns nil
// when out is not a rearrangement of in.
func permutation(in, out []model.Playable) []int {
	if len(in) != len(out) {
		return nil
	}
	used := make([]bool, len(in))
	var perm []int
	for _, o := range out {
		i := -1
		for j, e := range in {
			if !used[j] && e == o {
				i = j
				break
			}
		}
		if i < 0 {
			return nil
		}
		used[i] = true
		perm = append(perm, i)
	}
	return perm
}

func (r *Recorder) PickAdaptChoice(kind model.EntityType, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickAdaptChoice(kind, source, target, cards)
	if err != nil {
		r.failed(OpPickAdaptChoice, err)
		return nil, err
	}
	r.pick(OpPickAdaptChoice, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickBasicTotem(totems []string) (string, error) {
	t, err := r.inner.PickBasicTotem(totems)
	if err != nil {
		r.failed(OpPickBasicTotem, err)
		return "", err
	}
	r.pick(OpPickBasicTotem, t, position(totems, t), nil, nil)
	return t, nil
}

func (r *Recorder) PickRandomCard(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickRandomCard(task, source, target, cards)
	if err != nil {
		r.failed(OpPickRandomCard, err)
		return nil, err
	}
	r.pick(OpPickRandomCard, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickDiscoverChoice(kind model.DiscoverType, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickDiscoverChoice(kind, source, target, cards)
	if err != nil {
		r.failed(OpPickDiscoverChoice, err)
		return nil, err
	}
	r.pick(OpPickDiscoverChoice, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickEntourage(source, target model.Entity, cards []string) (string, error) {
	c, err := r.inner.PickEntourage(source, target, cards)
	if err != nil {
		r.failed(OpPickEntourage, err)
		return "", err
	}
	r.pick(OpPickEntourage, c, position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickHeroClass(source, target model.Entity, classes []model.CardClass) (model.CardClass, error) {
	c, err := r.inner.PickHeroClass(source, target, classes)
	if err != nil {
		r.failed(OpPickHeroClass, err)
		return model.ClassInvalid, err
	}
	r.pick(OpPickHeroClass, c.String(), position(classes, c), source, target)
	return c, nil
}

func (r *Recorder) PickMinion(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickMinion(task, source, target, cards)
	if err != nil {
		r.failed(OpPickMinion, err)
		return nil, err
	}
	r.pick(OpPickMinion, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickMinionByCost(cost int, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickMinionByCost(cost, source, target, cards)
	if err != nil {
		r.failed(OpPickMinionByCost, err)
		return nil, err
	}
	r.pick(OpPickMinionByCost, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickPotionSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickPotionSpell(source, target, cards)
	if err != nil {
		r.failed(OpPickPotionSpell, err)
		return nil, err
	}
	r.pick(OpPickPotionSpell, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickRecruit(source, target model.Entity, minions []*model.Minion) (*model.Minion, error) {
	m, err := r.inner.PickRecruit(source, target, minions)
	if err != nil {
		r.failed(OpPickRecruit, err)
		return nil, err
	}
	r.pick(OpPickRecruit, model.NameOf(m), position(minions, m), source, target)
	return m, nil
}

func (r *Recorder) PickReplace(zone model.Zone, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickReplace(zone, source, target, cards)
	if err != nil {
		r.failed(OpPickReplace, err)
		return nil, err
	}
	r.pick(OpPickReplace, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickSpell(source, target, cards)
	if err != nil {
		r.failed(OpPickSpell, err)
		return nil, err
	}
	r.pick(OpPickSpell, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickTransformMinion(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickTransformMinion(source, target, cards)
	if err != nil {
		r.failed(OpPickTransformMinion, err)
		return nil, err
	}
	r.pick(OpPickTransformMinion, c.String(), position(cards, c), source, target)
	return c, nil
}

func (r *Recorder) PickDraw(c *model.Controller) (model.Playable, error) {
	pool := deckOf(c)
	p, err := r.inner.PickDraw(c)
	if err != nil {
		r.failed(OpPickDraw, err)
		return nil, err
	}
	r.pick(OpPickDraw, model.NameOf(p), position(pool, p), controllerRef(c), nil)
	return p, nil
}

func (r *Recorder) PickJoust(c *model.Controller) (model.Playable, error) {
	pool := deckOf(c)
	p, err := r.inner.PickJoust(c)
	if err != nil {
		r.failed(OpPickJoust, err)
		return nil, err
	}
	r.pick(OpPickJoust, model.NameOf(p), position(pool, p), controllerRef(c), nil)
	return p, nil
}

// controllerRef avoids storing a typed nil *Controller in an Entity.
func controllerRef(c *model.Controller) model.Entity {
	if c == nil {
		return nil
	}
	return c
}

func (r *Recorder) PickTarget(kind model.EntityType, source, target model.Entity, entities []model.Playable) (model.Playable, error) {
	p, err := r.inner.PickTarget(kind, source, target, entities)
	if err != nil {
		r.failed(OpPickTarget, err)
		return nil, err
	}
	r.pick(OpPickTarget, model.NameOf(p), position(entities, p), source, target)
	return p, nil
}

func (r *Recorder) PickCardName(names []string) (string, error) {
	n, err := r.inner.PickCardName(names)
	if err != nil {
		r.failed(OpPickCardName, err)
		return "", err
	}
	r.pick(OpPickCardName, n, position(names, n), nil, nil)
	return n, nil
}

func (r *Recorder) PickNamedCard(context string, cards []*model.Card) (*model.Card, error) {
	c, err := r.inner.PickNamedCard(context, cards)
	if err != nil {
		r.failed(OpPickNamedCard, err)
		return nil, err
	}
	r.pick(OpPickNamedCard, c.String(), position(cards, c), nil, nil)
	return c, nil
}

func (r *Recorder) CoinFlip(source, target model.Entity) (int, error) {
	v, err := r.inner.CoinFlip(source, target)
	if err != nil {
		r.failed(OpCoinFlip, err)
		return 0, err
	}
	r.record(Decision{Op: OpCoinFlip, Number: v}, source, target)
	return v, nil
}

func (r *Recorder) RandomDamage(amount int, source, target model.Entity) (int, error) {
	v, err := r.inner.RandomDamage(amount, source, target)
	if err != nil {
		r.failed(OpRandomDamage, err)
		return 0, err
	}
	r.record(Decision{Op: OpRandomDamage, Number: v}, source, target)
	return v, nil
}

func (r *Recorder) Number(lo, hi int, source, target model.Entity) (int, error) {
	v, err := r.inner.Number(lo, hi, source, target)
	if err != nil {
		r.failed(OpNumber, err)
		return 0, err
	}
	r.record(Decision{Op: OpNumber, Number: v}, source, target)
	return v, nil
}

func (r *Recorder) SortSummonCopy(source, target model.Entity, entities []model.Playable) ([]model.Playable, error) {
	out, err := r.inner.SortSummonCopy(source, target, entities)
	if err != nil {
		r.failed(OpSortSummonCopy, err)
		return nil, err
	}
	r.record(Decision{
		Op:    OpSortSummonCopy,
		Order: model.PlayableNames(out),
		Perm:  permutation(entities, out),
	}, source, target)
	return out, nil
}
