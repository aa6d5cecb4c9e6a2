package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/model"
)

func TestScriptedPopOrder(t *testing.T) {
	p := NewScript().NamedCards("A", "B", "C").Build()
	pool := cards("C", "B", "A")

	for _, want := range []string{"A", "B", "C"} {
		got, err := p.PickNamedCard("test", pool)
		require.NoError(t, err)
		assert.Equal(t, want, got.Name)
	}

	_, err := p.PickNamedCard("test", pool)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.False(t, errors.Is(err, ErrUnimplemented))

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, OpPickNamedCard, exhausted.Op)
	assert.Equal(t, 0, exhausted.Remaining)
	assert.Equal(t, 3, exhausted.Consumed)
}

func TestScriptedUnscriptedOpsFailFast(t *testing.T) {
	p := NewScript().Draws("Wisp").Build()

	errs := callEveryOp(p)
	for _, op := range Ops {
		if op == OpPickDraw {
			assert.NoError(t, errs[op])
			continue
		}
		var unimpl *UnimplementedError
		require.ErrorAs(t, errs[op], &unimpl, op)
		assert.Equal(t, op, unimpl.Op)
	}
}

func TestScriptedFallback(t *testing.T) {
	p := NewScript().
		CoinFlips(1).
		Fallback(NewRandom(engine.NewMulberry32Source(3))).
		Build()

	v, err := p.CoinFlip(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Scripted queue exhausted: no silent fallback to randomness.
	_, err = p.CoinFlip(nil, nil)
	assert.True(t, errors.Is(err, ErrExhausted))

	n, err := p.Number(1, 6, nil, nil)
	require.NoError(t, err)
	assert.True(t, n >= 1 && n <= 6)
}

func TestScriptedMatchesByName(t *testing.T) {
	c := controllerWithDeck("Leeroy Jenkins", "Elven Minstrel", "Shadowstep", "Backstab")
	p := NewScript().
		Draws("Backstab", "Leeroy Jenkins").
		Jousts("Shadowstep").
		Targets("Boar").
		Recruits("Wisp").
		HeroClasses(model.ClassRogue).
		Build()

	got, err := p.PickDraw(c)
	require.NoError(t, err)
	assert.Equal(t, "Backstab", model.NameOf(got))

	got, err = p.PickDraw(c)
	require.NoError(t, err)
	assert.Equal(t, "Leeroy Jenkins", model.NameOf(got))

	got, err = p.PickJoust(c)
	require.NoError(t, err)
	assert.Equal(t, "Shadowstep", model.NameOf(got))

	target, err := p.PickTarget(model.EntityEnemies, nil, nil, playables(c, "Wisp", "Boar"))
	require.NoError(t, err)
	assert.Equal(t, "Boar", model.NameOf(target))

	recruit, err := p.PickRecruit(nil, nil, []*model.Minion{model.NewMinion(5, cards("Wisp")[0], c)})
	require.NoError(t, err)
	assert.Equal(t, 5, recruit.ID)

	class, err := p.PickHeroClass(nil, nil, []model.CardClass{model.ClassDruid, model.ClassRogue})
	require.NoError(t, err)
	assert.Equal(t, model.ClassRogue, class)

	assert.Empty(t, p.Pending())
}

func TestScriptedMismatch(t *testing.T) {
	p := NewScript().Discovers("The Lich King").Numbers(9).Damages(2).Build()

	_, err := p.PickDiscoverChoice(model.DiscoverMinion, nil, nil, cards("Frostwolf Grunt", "Goldshire Footman"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMismatch))
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "The Lich King", mismatch.Want)
	assert.Equal(t, []string{"Frostwolf Grunt", "Goldshire Footman"}, mismatch.Offered)

	_, err = p.Number(1, 6, nil, nil)
	assert.True(t, errors.Is(err, ErrMismatch))

	_, err = p.RandomDamage(1, nil, nil)
	assert.True(t, errors.Is(err, ErrMismatch))
}

func TestScriptedEmptyPoolDoesNotConsume(t *testing.T) {
	p := NewScript().Spells("Fireball").Build()

	_, err := p.PickSpell(nil, nil, nil)
	assert.True(t, errors.Is(err, ErrNoCandidates))
	assert.Equal(t, 1, p.Remaining(OpPickSpell))

	got, err := p.PickSpell(nil, nil, cards("Frostbolt", "Fireball"))
	require.NoError(t, err)
	assert.Equal(t, "Fireball", got.Name)
}

func TestScriptedSummonOrder(t *testing.T) {
	c := model.NewController(1, "p")
	in := playables(c, "Imp", "Imp", "Voidwalker")
	p := NewScript().
		SummonOrders([]string{"Voidwalker", "Imp", "Imp"}, []string{"Imp", "Succubus", "Imp"}).
		Build()

	out, err := p.SortSummonCopy(nil, nil, in)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Same(t, in[2], out[0])
	assert.Same(t, in[0], out[1])
	assert.Same(t, in[1], out[2])

	_, err = p.SortSummonCopy(nil, nil, in)
	assert.True(t, errors.Is(err, ErrMismatch))
}

func TestScriptPendingInConfigurationOrder(t *testing.T) {
	s := NewScript().CoinFlips(0, 1).Draws("A").Spells("B").CoinFlips(1)
	p := s.Build()
	assert.Equal(t, []Op{OpCoinFlip, OpPickDraw, OpPickSpell}, p.Pending())
	assert.Equal(t, 3, p.Remaining(OpCoinFlip))

	_, err := p.PickSpell(nil, nil, cards("B"))
	require.NoError(t, err)
	assert.Equal(t, []Op{OpCoinFlip, OpPickDraw}, p.Pending())

	// Each Build owns its queues.
	again := s.Build()
	assert.Equal(t, 1, again.Remaining(OpPickSpell))
}

func TestScriptedRandomCardIsNotDiscover(t *testing.T) {
	// A random-card pick never consumes discover answers, even when the
	// card offered would match.
	p := NewScript().Discovers("Jade Idol").Build()

	_, err := p.PickRandomCard(taskRef("RandomCardTask"), nil, nil, cards("Jade Idol"))
	var unimpl *UnimplementedError
	require.ErrorAs(t, err, &unimpl)
	assert.Equal(t, OpPickRandomCard, unimpl.Op)
	assert.Equal(t, 1, p.Remaining(OpPickDiscoverChoice))
}
