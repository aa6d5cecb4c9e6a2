package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/model"
)

// flips answers coin flips from a fixed list and counts the calls.
type flips struct {
	decision.Fail
	values []int
	calls  int
}

func (f *flips) CoinFlip(source, target model.Entity) (int, error) {
	f.calls++
	if len(f.values) == 0 {
		return 0, &decision.ExhaustedError{Op: decision.OpCoinFlip, Consumed: f.calls - 1}
	}
	v := f.values[0]
	f.values = f.values[1:]
	return v, nil
}

func TestChanceNonRecording(t *testing.T) {
	tests := []struct {
		name string
		flip int
		want State
	}{
		{"zero continues", 0, StateComplete},
		{"one stops", 1, StateStop},
		{"any nonzero stops", 7, StateStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &flips{values: []int{tt.flip}}
			ctx := &Context{Provider: p}
			c := NewChance(false)

			got, err := c.Process(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, p.calls)
			assert.Equal(t, FlagUnset, c.Outcome)
			assert.Equal(t, FlagUnset, ctx.Flag)
		})
	}
}

func TestChanceRecording(t *testing.T) {
	tests := []struct {
		name string
		flip int
		want Flag
	}{
		{"one records true", 1, FlagTrue},
		{"zero records false", 0, FlagFalse},
		{"nonzero records true", -3, FlagTrue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &flips{values: []int{tt.flip}}
			ctx := &Context{Provider: p}
			c := NewChance(true)

			got, err := c.Process(ctx)
			require.NoError(t, err)
			assert.Equal(t, StateComplete, got)
			assert.Equal(t, tt.want, c.Outcome)
			assert.Equal(t, tt.want, ctx.Flag)
			assert.Equal(t, 1, p.calls)
		})
	}
}

func TestChanceCloneIsUnresolved(t *testing.T) {
	original := NewChance(true)
	_, err := original.Process(&Context{Provider: &flips{values: []int{1}}})
	require.NoError(t, err)
	require.Equal(t, FlagTrue, original.Outcome)

	clone, ok := original.Clone().(*Chance)
	require.True(t, ok)
	assert.True(t, clone.RecordToFlag)
	assert.Equal(t, FlagUnset, clone.Outcome)

	ctx := &Context{Provider: &flips{values: []int{0}}}
	state, err := clone.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateComplete, state)
	assert.Equal(t, FlagFalse, clone.Outcome)
	assert.Equal(t, FlagTrue, original.Outcome)
}

func TestChanceRelaysProviderError(t *testing.T) {
	c := NewChance(true)
	ctx := &Context{Provider: decision.Fail{}}

	_, err := c.Process(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, decision.ErrUnimplemented))
	assert.Equal(t, FlagUnset, c.Outcome)
	assert.Equal(t, FlagUnset, ctx.Flag)
}

func TestChanceWithScriptedProvider(t *testing.T) {
	p := decision.NewScript().CoinFlips(0, 1).Build()
	c := NewChance(false)

	first, err := c.Process(&Context{Provider: p})
	require.NoError(t, err)
	second, err := c.Clone().Process(&Context{Provider: p})
	require.NoError(t, err)

	assert.Equal(t, StateComplete, first)
	assert.Equal(t, StateStop, second)

	_, err = c.Process(&Context{Provider: p})
	assert.True(t, errors.Is(err, decision.ErrExhausted))
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "unset", FlagUnset.String())
	assert.Equal(t, "true", FlagOf(true).String())
	assert.Equal(t, "false", FlagOf(false).String())
	assert.False(t, FlagUnset.Resolved())
	assert.True(t, FlagFalse.Resolved())
	assert.Equal(t, "STOP", StateStop.String())
}
