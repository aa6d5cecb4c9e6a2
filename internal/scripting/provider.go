// Package scripting lets a JavaScript program answer decisions. Each
// decision kind maps to a global function named after the operation in
// lowerCamelCase:
//
//	function pickDiscoverChoice(names, info) { return names.indexOf("Fireball") }
//	function coinFlip(info) { return 0 }
//	function number(lo, hi, info) { return hi }
//	function sortSummonCopy(names, info) { return [2, 0, 1] }
//
// Selection functions receive the candidate names and return an index.
// randomDamage(amount, info) and number(lo, hi, info) return a value in
// range. Operations the script does not define go to the fallback provider.
package scripting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/model"
)

// Info describes the decision to the script.
type Info struct {
	Op     string `json:"op"`
	Source int    `json:"source"`
	Target int    `json:"target"`
	Detail string `json:"detail,omitempty"`
}

// Option configures a Provider.
type Option func(*Provider)

// WithFallback sets the provider for operations the script does not define.
func WithFallback(p decision.Provider) Option {
	return func(sp *Provider) {
		if p != nil {
			sp.fallback = p
		}
	}
}

// WithTimeout bounds each script call.
func WithTimeout(d time.Duration) Option {
	return func(sp *Provider) {
		sp.timeout = d
	}
}

// WithLogger forwards script log() output at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(sp *Provider) {
		if l != nil {
			sp.log = l
		}
	}
}

// Provider answers decisions by calling script functions.
type Provider struct {
	vm       *VM
	fallback decision.Provider
	timeout  time.Duration
	log      *zap.Logger
}

var _ decision.Provider = (*Provider)(nil)

// New runs source in a fresh sandbox and returns a provider over it.
func New(source string, opts ...Option) (*Provider, error) {
	p := &Provider{fallback: decision.Fail{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	p.vm = NewVM(p.timeout)
	log := p.log.Named("script")
	p.vm.onLog = func(msg string) { log.Debug(msg) }

	if err := p.vm.Execute(source); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) Name() string { return "script" }

// Logs returns what the script has logged so far.
func (p *Provider) Logs() []LogEntry {
	return p.vm.Logs()
}

// Defines reports whether the script answers op itself.
func (p *Provider) Defines(op decision.Op) bool {
	return p.vm.HasFunc(funcName(op))
}

func funcName(op decision.Op) string {
	s := string(op)
	return strings.ToLower(s[:1]) + s[1:]
}

func info(op decision.Op, source, target model.Entity, detail string) Info {
	return Info{
		Op:     string(op),
		Source: model.EntityIDOf(source),
		Target: model.EntityIDOf(target),
		Detail: detail,
	}
}

func invalid(op decision.Op, format string, args ...any) error {
	return &decision.CandidateError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// toInt converts an exported script value to an integer.
func toInt(op decision.Op, v any) (int, error) {
	switch x := v.(type) {
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, invalid(op, "script returned non-integer %v", x)
		}
		return int(x), nil
	default:
		return 0, invalid(op, "script returned %T, want a number", v)
	}
}

// choose asks the script for an index into items. ok is false when the
// script does not define op.
func choose[T any](p *Provider, op decision.Op, items []T, name func(T) string, in Info) (T, bool, error) {
	var zero T
	if len(items) == 0 {
		return zero, true, invalid(op, "empty candidate set")
	}
	fn := funcName(op)
	if !p.vm.HasFunc(fn) {
		return zero, false, nil
	}
	names := make([]any, len(items))
	for i, it := range items {
		names[i] = name(it)
	}
	out, err := p.vm.Call(fn, names, in)
	if err != nil {
		return zero, true, err
	}
	idx, err := toInt(op, out)
	if err != nil {
		return zero, true, err
	}
	if idx < 0 || idx >= len(items) {
		return zero, true, invalid(op, "script index %d out of range [0, %d)", idx, len(items))
	}
	return items[idx], true, nil
}

func cardName(c *model.Card) string {
	return c.String()
}

func playableName(e model.Playable) string {
	return model.NameOf(e)
}

func minionName(m *model.Minion) string {
	return model.NameOf(m)
}

func className(c model.CardClass) string {
	return c.String()
}

func identity(s string) string {
	return s
}

func deckOf(c *model.Controller) []model.Playable {
	if c == nil || c.Deck == nil {
		return nil
	}
	return c.Deck.Cards()
}

func (p *Provider) PickAdaptChoice(kind model.EntityType, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickAdaptChoice, cards, cardName, info(decision.OpPickAdaptChoice, source, target, ""))
	if !ok {
		return p.fallback.PickAdaptChoice(kind, source, target, cards)
	}
	return c, err
}

func (p *Provider) PickBasicTotem(totems []string) (string, error) {
	t, ok, err := choose(p, decision.OpPickBasicTotem, totems, identity, info(decision.OpPickBasicTotem, nil, nil, ""))
	if !ok {
		return p.fallback.PickBasicTotem(totems)
	}
	return t, err
}

func (p *Provider) PickRandomCard(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	detail := ""
	if task != nil {
		detail = task.TaskName()
	}
	c, ok, err := choose(p, decision.OpPickRandomCard, cards, cardName, info(decision.OpPickRandomCard, source, target, detail))
	if !ok {
		return p.fallback.PickRandomCard(task, source, target, cards)
	}
	return c, err
}

func (p *Provider) PickDiscoverChoice(kind model.DiscoverType, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickDiscoverChoice, cards, cardName, info(decision.OpPickDiscoverChoice, source, target, kind.String()))
	if !ok {
		return p.fallback.PickDiscoverChoice(kind, source, target, cards)
	}
	return c, err
}

func (p *Provider) PickDraw(c *model.Controller) (model.Playable, error) {
	e, ok, err := choose(p, decision.OpPickDraw, deckOf(c), playableName, info(decision.OpPickDraw, controllerRef(c), nil, ""))
	if !ok {
		return p.fallback.PickDraw(c)
	}
	return e, err
}

func (p *Provider) PickEntourage(source, target model.Entity, cards []string) (string, error) {
	s, ok, err := choose(p, decision.OpPickEntourage, cards, identity, info(decision.OpPickEntourage, source, target, ""))
	if !ok {
		return p.fallback.PickEntourage(source, target, cards)
	}
	return s, err
}

func (p *Provider) PickHeroClass(source, target model.Entity, classes []model.CardClass) (model.CardClass, error) {
	c, ok, err := choose(p, decision.OpPickHeroClass, classes, className, info(decision.OpPickHeroClass, source, target, ""))
	if !ok {
		return p.fallback.PickHeroClass(source, target, classes)
	}
	return c, err
}

func (p *Provider) PickJoust(c *model.Controller) (model.Playable, error) {
	e, ok, err := choose(p, decision.OpPickJoust, deckOf(c), playableName, info(decision.OpPickJoust, controllerRef(c), nil, ""))
	if !ok {
		return p.fallback.PickJoust(c)
	}
	return e, err
}

func (p *Provider) PickMinion(task model.TaskRef, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	detail := ""
	if task != nil {
		detail = task.TaskName()
	}
	c, ok, err := choose(p, decision.OpPickMinion, cards, cardName, info(decision.OpPickMinion, source, target, detail))
	if !ok {
		return p.fallback.PickMinion(task, source, target, cards)
	}
	return c, err
}

func (p *Provider) PickMinionByCost(cost int, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickMinionByCost, cards, cardName, info(decision.OpPickMinionByCost, source, target, fmt.Sprint(cost)))
	if !ok {
		return p.fallback.PickMinionByCost(cost, source, target, cards)
	}
	return c, err
}

func (p *Provider) PickPotionSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickPotionSpell, cards, cardName, info(decision.OpPickPotionSpell, source, target, ""))
	if !ok {
		return p.fallback.PickPotionSpell(source, target, cards)
	}
	return c, err
}

func (p *Provider) PickRecruit(source, target model.Entity, minions []*model.Minion) (*model.Minion, error) {
	m, ok, err := choose(p, decision.OpPickRecruit, minions, minionName, info(decision.OpPickRecruit, source, target, ""))
	if !ok {
		return p.fallback.PickRecruit(source, target, minions)
	}
	return m, err
}

func (p *Provider) PickReplace(zone model.Zone, source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	detail := ""
	if zone != nil {
		detail = zone.Kind().String()
	}
	c, ok, err := choose(p, decision.OpPickReplace, cards, cardName, info(decision.OpPickReplace, source, target, detail))
	if !ok {
		return p.fallback.PickReplace(zone, source, target, cards)
	}
	return c, err
}

func (p *Provider) PickSpell(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickSpell, cards, cardName, info(decision.OpPickSpell, source, target, ""))
	if !ok {
		return p.fallback.PickSpell(source, target, cards)
	}
	return c, err
}

func (p *Provider) PickTarget(kind model.EntityType, source, target model.Entity, entities []model.Playable) (model.Playable, error) {
	e, ok, err := choose(p, decision.OpPickTarget, entities, playableName, info(decision.OpPickTarget, source, target, kind.String()))
	if !ok {
		return p.fallback.PickTarget(kind, source, target, entities)
	}
	return e, err
}

func (p *Provider) PickTransformMinion(source, target model.Entity, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickTransformMinion, cards, cardName, info(decision.OpPickTransformMinion, source, target, ""))
	if !ok {
		return p.fallback.PickTransformMinion(source, target, cards)
	}
	return c, err
}

func (p *Provider) PickCardName(names []string) (string, error) {
	n, ok, err := choose(p, decision.OpPickCardName, names, identity, info(decision.OpPickCardName, nil, nil, ""))
	if !ok {
		return p.fallback.PickCardName(names)
	}
	return n, err
}

func (p *Provider) PickNamedCard(context string, cards []*model.Card) (*model.Card, error) {
	c, ok, err := choose(p, decision.OpPickNamedCard, cards, cardName, info(decision.OpPickNamedCard, nil, nil, context))
	if !ok {
		return p.fallback.PickNamedCard(context, cards)
	}
	return c, err
}

// value calls a numeric script function. ok is false when it is not defined.
func (p *Provider) value(op decision.Op, args ...any) (int, bool, error) {
	fn := funcName(op)
	if !p.vm.HasFunc(fn) {
		return 0, false, nil
	}
	out, err := p.vm.Call(fn, args...)
	if err != nil {
		return 0, true, err
	}
	v, err := toInt(op, out)
	return v, true, err
}

// CoinFlip returns the script's answer verbatim.
func (p *Provider) CoinFlip(source, target model.Entity) (int, error) {
	v, ok, err := p.value(decision.OpCoinFlip, info(decision.OpCoinFlip, source, target, ""))
	if !ok {
		return p.fallback.CoinFlip(source, target)
	}
	return v, err
}

func (p *Provider) RandomDamage(amount int, source, target model.Entity) (int, error) {
	if amount < 0 {
		return 0, invalid(decision.OpRandomDamage, "negative maximum %d", amount)
	}
	v, ok, err := p.value(decision.OpRandomDamage, amount, info(decision.OpRandomDamage, source, target, ""))
	if !ok {
		return p.fallback.RandomDamage(amount, source, target)
	}
	if err != nil {
		return 0, err
	}
	if v < 0 || v > amount {
		return 0, invalid(decision.OpRandomDamage, "script damage %d out of range [0, %d]", v, amount)
	}
	return v, nil
}

func (p *Provider) Number(lo, hi int, source, target model.Entity) (int, error) {
	if hi < lo {
		return 0, invalid(decision.OpNumber, "inverted bounds [%d, %d]", lo, hi)
	}
	v, ok, err := p.value(decision.OpNumber, lo, hi, info(decision.OpNumber, source, target, ""))
	if !ok {
		return p.fallback.Number(lo, hi, source, target)
	}
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, invalid(decision.OpNumber, "script number %d out of range [%d, %d]", v, lo, hi)
	}
	return v, nil
}

// SortSummonCopy expects the script to return a permutation of indices.
func (p *Provider) SortSummonCopy(source, target model.Entity, entities []model.Playable) ([]model.Playable, error) {
	op := decision.OpSortSummonCopy
	fn := funcName(op)
	if !p.vm.HasFunc(fn) {
		return p.fallback.SortSummonCopy(source, target, entities)
	}
	names := make([]any, len(entities))
	for i, e := range entities {
		names[i] = model.NameOf(e)
	}
	out, err := p.vm.Call(fn, names, info(op, source, target, ""))
	if err != nil {
		return nil, err
	}
	raw, ok := out.([]any)
	if !ok {
		return nil, invalid(op, "script returned %T, want an array of indices", out)
	}
	if len(raw) != len(entities) {
		return nil, invalid(op, "script returned %d indices for %d entities", len(raw), len(entities))
	}
	seen := make([]bool, len(entities))
	sorted := make([]model.Playable, len(entities))
	for i, r := range raw {
		idx, err := toInt(op, r)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(entities) || seen[idx] {
			return nil, invalid(op, "script order is not a permutation at position %d", i)
		}
		seen[idx] = true
		sorted[i] = entities[idx]
	}
	return sorted, nil
}

func controllerRef(c *model.Controller) model.Entity {
	if c == nil {
		return nil
	}
	return c
}
