package sim

import (
	"errors"
	"fmt"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/task"
)

var (
	// ErrNotNumeric is returned for a Step whose op does not answer with a number.
	ErrNotNumeric = errors.New("sim: operation is not numeric")
	// ErrBadStep is returned for a Step whose branch-node settings do not fit its op.
	ErrBadStep = errors.New("sim: invalid step")
)

// Step is one numeric decision, detached from any rules code, so seeded
// outcomes can be checked independently.
//
// A Chance step activates a task.Chance branch node, which flips one coin.
// Its outcome is the node state (0 COMPLETE, 1 STOP), or with Record the
// resolved flag (1 true, 0 false).
type Step struct {
	Op     decision.Op `json:"op"`
	Amount int         `json:"amount,omitempty"`
	Lo     int         `json:"lo,omitempty"`
	Hi     int         `json:"hi,omitempty"`
	Chance bool        `json:"chance,omitempty"`
	Record bool        `json:"record,omitempty"`
}

// Validate checks that st names a numeric op.
func (st Step) Validate() error {
	if !st.Op.Numeric() {
		return fmt.Errorf("%w: %q", ErrNotNumeric, st.Op)
	}
	if st.Chance && st.Op != decision.OpCoinFlip {
		return fmt.Errorf("%w: a chance step flips a coin, not %q", ErrBadStep, st.Op)
	}
	if st.Record && !st.Chance {
		return fmt.Errorf("%w: record needs a chance step", ErrBadStep)
	}
	return nil
}

// Task returns the branch node a Chance step activates, or nil.
func (st Step) Task() task.Task {
	if !st.Chance {
		return nil
	}
	return task.NewChance(st.Record)
}

// Apply asks p for the decision st describes.
func (st Step) Apply(p decision.Provider) (int, error) {
	if st.Chance {
		ctx := &task.Context{Provider: p}
		state, err := st.Task().Process(ctx)
		return st.chanceOutcome(state, ctx, err)
	}
	switch st.Op {
	case decision.OpCoinFlip:
		return p.CoinFlip(nil, nil)
	case decision.OpRandomDamage:
		return p.RandomDamage(st.Amount, nil, nil)
	case decision.OpNumber:
		return p.Number(st.Lo, st.Hi, nil, nil)
	}
	return 0, fmt.Errorf("%w: %q", ErrNotNumeric, st.Op)
}

func (st Step) chanceOutcome(state task.State, ctx *task.Context, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	if st.Record {
		if ctx.Flag == task.FlagTrue {
			return 1, nil
		}
		return 0, nil
	}
	if state == task.StateStop {
		return 1, nil
	}
	return 0, nil
}

// Apply runs st inside the simulation. Chance steps are activated with Run.
func (s *Simulation) Apply(st Step) (int, error) {
	if err := st.Validate(); err != nil {
		return 0, err
	}
	if st.Chance {
		state, ctx, err := s.Run(st.Task(), nil, nil)
		return st.chanceOutcome(state, ctx, err)
	}
	return st.Apply(s.Provider())
}

// Bounds is the inclusive range of outcomes a uniform provider gives for st.
func (st Step) Bounds() (lo, hi int) {
	switch st.Op {
	case decision.OpCoinFlip:
		return 0, 1
	case decision.OpRandomDamage:
		return 0, st.Amount
	default:
		return st.Lo, st.Hi
	}
}

// Verification is the result of replaying steps over a seeded stream.
type Verification struct {
	Outcomes   []int
	Transcript decision.Transcript
	// Cursor is the number of stream bytes consumed.
	Cursor uint64
}

// Verify answers steps in order with a Random provider over the seeded
// stream for (seeds, nonce). The same input always gives the same outcomes.
func Verify(seeds engine.Seeds, nonce uint64, steps []Step) (*Verification, error) {
	for i, st := range steps {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("sim: step %d: %w", i, err)
		}
	}

	src := engine.NewSeededSource(seeds, nonce)
	rec := decision.NewRecorder(decision.NewRandom(src))
	out := make([]int, 0, len(steps))
	for i, st := range steps {
		v, err := st.Apply(rec)
		if err != nil {
			return nil, fmt.Errorf("sim: step %d: %w", i, err)
		}
		out = append(out, v)
	}
	return &Verification{Outcomes: out, Transcript: rec.Transcript(), Cursor: src.Cursor()}, nil
}
