package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
)

func TestVerifyIsDeterministic(t *testing.T) {
	seeds := engine.Seeds{Server: "verify-server", Client: "verify-client"}
	steps := []Step{
		{Op: decision.OpCoinFlip},
		{Op: decision.OpRandomDamage, Amount: 5},
		{Op: decision.OpNumber, Lo: 10, Hi: 20},
	}

	first, err := Verify(seeds, 1, steps)
	require.NoError(t, err)
	second, err := Verify(seeds, 1, steps)
	require.NoError(t, err)

	assert.Equal(t, first.Outcomes, second.Outcomes)
	assert.Equal(t, first.Cursor, second.Cursor)
	assert.Positive(t, first.Cursor)
	require.Len(t, first.Transcript, 3)

	for i, st := range steps {
		lo, hi := st.Bounds()
		assert.GreaterOrEqual(t, first.Outcomes[i], lo)
		assert.LessOrEqual(t, first.Outcomes[i], hi)
		assert.Equal(t, first.Outcomes[i], first.Transcript[i].Number)
	}

	// The transcript replays without the seeds.
	replay := first.Transcript.Replay()
	for i, st := range steps {
		v, err := st.Apply(replay)
		require.NoError(t, err)
		assert.Equal(t, first.Outcomes[i], v)
	}
}

func TestVerifyRejectsBadSteps(t *testing.T) {
	seeds := engine.Seeds{Server: "s", Client: "c"}

	_, err := Verify(seeds, 0, []Step{{Op: decision.OpPickDraw}})
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = Verify(seeds, 0, []Step{{Op: decision.OpNumber, Lo: 3, Hi: 1}})
	assert.True(t, errors.Is(err, decision.ErrNoCandidates))
}

func TestChanceSteps(t *testing.T) {
	stop := Step{Op: decision.OpCoinFlip, Chance: true}
	flag := Step{Op: decision.OpCoinFlip, Chance: true, Record: true}

	p := decision.NewScript().CoinFlips(0, 1, 1, 0).Build()
	for _, tc := range []struct {
		st   Step
		want int
	}{
		{stop, 0}, // complete
		{stop, 1}, // stop
		{flag, 1}, // true
		{flag, 0}, // false
	} {
		v, err := tc.st.Apply(p)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v)
	}

	_, err := stop.Apply(p)
	assert.True(t, errors.Is(err, decision.ErrExhausted))
}

func TestChanceStepsReplayFromSimulation(t *testing.T) {
	seeds := engine.Seeds{Server: "chance-server", Client: "chance-client"}
	steps := []Step{
		{Op: decision.OpCoinFlip, Chance: true},
		{Op: decision.OpCoinFlip, Chance: true, Record: true},
		{Op: decision.OpNumber, Lo: 1, Hi: 6},
		{Op: decision.OpCoinFlip, Chance: true, Record: true},
	}

	s := New(WithSeeds(seeds, 9))
	var got []int
	for _, st := range steps {
		v, err := s.Apply(st)
		require.NoError(t, err)
		got = append(got, v)
	}

	transcript := s.Transcript()
	require.Len(t, transcript, len(steps))
	for i, st := range steps {
		assert.Equal(t, st.Op, transcript[i].Op)
	}

	// Same seeds through Verify give the same outcomes.
	v, err := Verify(seeds, 9, steps)
	require.NoError(t, err)
	assert.Equal(t, got, v.Outcomes)

	replay := New(WithProvider(transcript.Replay()))
	for i, st := range steps {
		v, err := replay.Apply(st)
		require.NoError(t, err)
		assert.Equal(t, got[i], v)
	}
}

func TestChanceStepValidation(t *testing.T) {
	for _, st := range []Step{
		{Op: decision.OpNumber, Lo: 1, Hi: 2, Chance: true},
		{Op: decision.OpCoinFlip, Record: true},
	} {
		assert.True(t, errors.Is(st.Validate(), ErrBadStep), "%+v", st)

		_, err := New(WithProvider(decision.Fail{})).Apply(st)
		assert.True(t, errors.Is(err, ErrBadStep))
	}
	assert.Nil(t, Step{Op: decision.OpCoinFlip}.Task())
}
