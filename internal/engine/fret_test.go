package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probplan/internal/ec"
	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/obslog"
	"probplan/internal/openlist"
	"probplan/internal/picker"
	"probplan/internal/value"
)

func TestFRETVariantString(t *testing.T) {
	assert.Equal(t, "fret-v", FRETV.String())
	assert.Equal(t, "fret-pi", FRETPi.String())
}

func TestFRETVFindsNoTrapWhenGreedyPolicyAlreadyEscapes(t *testing.T) {
	h := heuristic.Blind[int, ec.QuotientAction[string]]{Regime: value.SSP}
	pick := picker.Arbitrary[ec.QuotientAction[string]]{}

	quot, base, res, err := FRET[int, string](context.Background(), loopMDP{}, h, []mdp.StateID{0}, 1e-9, pick, obslog.Discard(), FRETV, 0, openlist.KindFIFO, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, res.TrapsEliminated, "1's greedy action already escapes the {1,2} component, so it is never a trap")
	assert.Equal(t, 1, res.Rounds)

	root := quot.Rep(0)
	assert.InDelta(t, 4.0, base.LookupValue(root), 1e-6)

	one := quot.Rep(1)
	action, has := base.GetGreedyAction(one)
	assert.True(t, has)
	assert.Equal(t, "escape", action.Underlying())
}

func TestFRETPiMatchesFRETVOnTheSameTask(t *testing.T) {
	h := heuristic.Blind[int, ec.QuotientAction[string]]{Regime: value.SSP}
	pick := picker.Arbitrary[ec.QuotientAction[string]]{}

	quot, base, res, err := FRET[int, string](context.Background(), loopMDP{}, h, []mdp.StateID{0}, 1e-9, pick, obslog.Discard(), FRETPi, 0, openlist.KindFIFO, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, res.TrapsEliminated)
	root := quot.Rep(0)
	assert.InDelta(t, 4.0, base.LookupValue(root), 1e-6)
}

func TestFRETReturnsErrTimeoutWhenContextExpires(t *testing.T) {
	h := heuristic.Blind[int, ec.QuotientAction[string]]{Regime: value.SSP}
	pick := picker.Arbitrary[ec.QuotientAction[string]]{}

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	_, _, _, err := FRET[int, string](ctx, loopMDP{}, h, []mdp.StateID{0}, 1e-9, pick, obslog.Discard(), FRETV, 0, openlist.KindFIFO, 0)

	assert.ErrorIs(t, err, ErrTimeout)
}
