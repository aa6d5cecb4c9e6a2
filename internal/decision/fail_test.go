package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/cardsim/internal/model"
)

func TestFailNamesEveryOp(t *testing.T) {
	errs := callEveryOp(Fail{})
	require.Len(t, errs, len(Ops))

	for _, op := range Ops {
		t.Run(string(op), func(t *testing.T) {
			err := errs[op]
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnimplemented))

			var unimpl *UnimplementedError
			require.ErrorAs(t, err, &unimpl)
			assert.Equal(t, op, unimpl.Op)
			assert.Contains(t, err.Error(), string(op))

			got, ok := OpOf(err)
			assert.True(t, ok)
			assert.Equal(t, op, got)
		})
	}
}

// drawOnly overrides a single decision point, the way a test harness
// scripts just the draws of a scenario.
type drawOnly struct {
	Fail
	draws []string
}

func (d *drawOnly) PickDraw(c *model.Controller) (model.Playable, error) {
	want := d.draws[0]
	d.draws = d.draws[1:]
	for _, p := range c.Deck.Cards() {
		if model.NameOf(p) == want {
			return p, nil
		}
	}
	return nil, errors.New("not in deck")
}

func TestFailEmbeddedOverride(t *testing.T) {
	p := &drawOnly{draws: []string{"Backstab"}}
	c := controllerWithDeck("Shadowstep", "Backstab")

	got, err := p.PickDraw(c)
	require.NoError(t, err)
	assert.Equal(t, "Backstab", model.NameOf(got))

	_, err = p.PickDiscoverChoice(model.DiscoverSpell, nil, nil, cards("Fireball"))
	var unimpl *UnimplementedError
	require.ErrorAs(t, err, &unimpl)
	assert.Equal(t, OpPickDiscoverChoice, unimpl.Op)
}
