// Package task holds the effect pipeline primitives that consume decisions:
// steps that run in order, may halt the pipeline, and may leave a boolean
// outcome for later steps to read.
package task

import (
	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/model"
)

// State is what a step reports back to its pipeline.
type State int

const (
	// StateComplete advances to the next step.
	StateComplete State = iota
	// StateStop ends the pipeline without error.
	StateStop
)

func (s State) String() string {
	switch s {
	case StateComplete:
		return "COMPLETE"
	case StateStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// Flag is a tri-state boolean. The zero value is unresolved.
type Flag int

const (
	FlagUnset Flag = iota
	FlagTrue
	FlagFalse
)

// FlagOf converts b to a resolved flag.
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// Resolved reports whether f holds a value.
func (f Flag) Resolved() bool {
	return f == FlagTrue || f == FlagFalse
}

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unset"
	}
}

// Context is the state shared by the steps of one pipeline activation.
type Context struct {
	Provider decision.Provider
	Source   model.Entity
	Target   model.Entity
	// Flag is written by recording steps and read by later steps.
	Flag Flag
}

// Task is one step of an effect pipeline. Authored effects hold prototype
// tasks and clone them per activation.
type Task interface {
	Process(ctx *Context) (State, error)
	Clone() Task
}
