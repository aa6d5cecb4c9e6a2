// Package sim drives a single simulation: it owns the decision provider
// for the lifetime of one game and routes every rules-engine decision
// through it.
package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/model"
	"github.com/MJE43/cardsim/internal/task"
)

var (
	// ErrStarted is returned when the provider is replaced after the first decision.
	ErrStarted = errors.New("sim: simulation already started")
	// ErrNotInDeck is returned when a provider picks a draw the deck does not hold.
	ErrNotInDeck = errors.New("sim: picked card is not in the deck")
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithProvider sets the decision provider.
func WithProvider(p decision.Provider) Option {
	return func(s *Simulation) {
		s.provider = p
	}
}

// WithSeeds makes the simulation reproducible: decisions come from a
// Random provider over the seeded stream for (seeds, nonce).
func WithSeeds(seeds engine.Seeds, nonce uint64) Option {
	return func(s *Simulation) {
		s.seeds = &seeds
		s.nonce = nonce
		s.provider = decision.NewRandom(engine.NewSeededSource(seeds, nonce))
	}
}

// WithLogger sets the logger. Decisions are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHook observes every decision the simulation makes.
func WithHook(h decision.Hook) Option {
	return func(s *Simulation) {
		s.hooks = append(s.hooks, h)
	}
}

// Simulation is one game. It is not safe for concurrent use.
type Simulation struct {
	id       uuid.UUID
	provider decision.Provider
	recorder *decision.Recorder
	seeds    *engine.Seeds
	nonce    uint64
	hooks    []decision.Hook
	log      *zap.Logger
}

// New creates a simulation. Without WithProvider or WithSeeds, decisions
// are uniformly random over crypto/rand.
func New(opts ...Option) *Simulation {
	s := &Simulation{id: uuid.New(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider == nil {
		s.provider = decision.NewRandom(nil)
	}
	s.log = s.log.With(zap.String("simulation", s.id.String()))
	return s
}

func (s *Simulation) ID() uuid.UUID { return s.id }

// Seeds returns the seeds and nonce given with WithSeeds.
func (s *Simulation) Seeds() (engine.Seeds, uint64, bool) {
	if s.seeds == nil {
		return engine.Seeds{}, 0, false
	}
	return *s.seeds, s.nonce, true
}

// Started reports whether the simulation has made or been asked for a decision.
func (s *Simulation) Started() bool {
	return s.recorder != nil
}

// SetProvider replaces the provider. It fails once the simulation started,
// since a game must be decided by one provider from start to end.
func (s *Simulation) SetProvider(p decision.Provider) error {
	if s.Started() {
		return ErrStarted
	}
	if p == nil {
		return fmt.Errorf("sim: nil provider")
	}
	s.provider = p
	s.seeds = nil
	return nil
}

// Start fixes the provider. It is implied by the first decision.
func (s *Simulation) Start() {
	if s.Started() {
		return
	}
	opts := []decision.RecorderOption{decision.WithLogger(s.log)}
	for _, h := range s.hooks {
		opts = append(opts, decision.WithHook(h))
	}
	s.recorder = decision.NewRecorder(s.provider, opts...)

	fields := []zap.Field{zap.String("provider", ProviderName(s.provider))}
	if s.seeds != nil {
		fields = append(fields,
			zap.String("server_seed_hash", engine.HashSeed(s.seeds.Server)),
			zap.Uint64("nonce", s.nonce))
	}
	s.log.Info("simulation started", fields...)
}

// Provider returns the provider rules code must call. It starts the
// simulation.
func (s *Simulation) Provider() decision.Provider {
	s.Start()
	return s.recorder
}

// Transcript returns the decisions made so far.
func (s *Simulation) Transcript() decision.Transcript {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Transcript()
}

// Draw picks the card c draws next and removes it from the deck.
func (s *Simulation) Draw(c *model.Controller) (model.Playable, error) {
	p, err := s.Provider().PickDraw(c)
	if err != nil {
		return nil, err
	}
	if !c.Deck.Remove(p) {
		return nil, fmt.Errorf("%w: %s", ErrNotInDeck, model.NameOf(p))
	}
	return p, nil
}

// Joust reveals a card from c's deck without removing it.
func (s *Simulation) Joust(c *model.Controller) (model.Playable, error) {
	return s.Provider().PickJoust(c)
}

// Summon returns entities in the order they enter play.
func (s *Simulation) Summon(source, target model.Entity, entities []model.Playable) ([]model.Playable, error) {
	return s.Provider().SortSummonCopy(source, target, entities)
}

// Run activates a clone of t, so prototypes held by authored effects never
// carry resolved state from one activation to the next.
func (s *Simulation) Run(t task.Task, source, target model.Entity) (task.State, *task.Context, error) {
	ctx := &task.Context{Provider: s.Provider(), Source: source, Target: target}
	state, err := t.Clone().Process(ctx)
	return state, ctx, err
}

// ProviderName is a short label for p, used in logs and stored sessions.
func ProviderName(p decision.Provider) string {
	switch v := p.(type) {
	case interface{ Name() string }:
		return v.Name()
	case *decision.Random:
		return "random"
	case *decision.Scripted:
		return "scripted"
	case decision.Fail, *decision.Fail:
		return "fail"
	case *decision.Recorder:
		return "recorder"
	default:
		return fmt.Sprintf("%T", p)
	}
}
