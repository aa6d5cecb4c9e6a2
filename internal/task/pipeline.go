package task

import (
	"fmt"

	"go.uber.org/zap"
)

// StepError wraps the error returned by the step at Index.
type StepError struct {
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("task: step %d: %v", e.Index, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Pipeline runs its steps in order until one stops or fails.
type Pipeline struct {
	Steps []Task
	log   *zap.Logger
}

var _ Task = (*Pipeline)(nil)

func NewPipeline(steps ...Task) *Pipeline {
	return &Pipeline{Steps: steps, log: zap.NewNop()}
}

// WithLogger sets the logger used for step tracing and returns p.
func (p *Pipeline) WithLogger(l *zap.Logger) *Pipeline {
	if l != nil {
		p.log = l
	}
	return p
}

// Process runs the steps against ctx. It returns StateStop if a step
// stopped the pipeline and StateComplete if every step completed.
// Errors are never retried.
func (p *Pipeline) Process(ctx *Context) (State, error) {
	for i, step := range p.Steps {
		state, err := step.Process(ctx)
		if err != nil {
			return StateStop, &StepError{Index: i, Err: err}
		}
		if state == StateStop {
			p.log.Debug("pipeline stopped", zap.Int("step", i), zap.Int("steps", len(p.Steps)))
			return StateStop, nil
		}
	}
	return StateComplete, nil
}

// Clone deep-copies the steps, so no resolved state carries over.
func (p *Pipeline) Clone() Task {
	steps := make([]Task, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = s.Clone()
	}
	return &Pipeline{Steps: steps, log: p.log}
}

// IfFlag runs Then only when the pipeline flag resolved to Want. An
// unresolved flag skips Then.
type IfFlag struct {
	Want bool
	Then Task
}

var _ Task = (*IfFlag)(nil)

func (f *IfFlag) Process(ctx *Context) (State, error) {
	if ctx.Flag != FlagOf(f.Want) {
		return StateComplete, nil
	}
	return f.Then.Process(ctx)
}

func (f *IfFlag) Clone() Task {
	return &IfFlag{Want: f.Want, Then: f.Then.Clone()}
}

// Func adapts a function into a stateless Task.
type Func func(ctx *Context) (State, error)

func (fn Func) Process(ctx *Context) (State, error) { return fn(ctx) }

func (fn Func) Clone() Task { return fn }
