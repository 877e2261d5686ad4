package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/obslog"
	"probplan/internal/picker"
	"probplan/internal/search"
	"probplan/internal/store"
	"probplan/internal/value"
)

func TestTopologicalVISolvesChainInOneSweep(t *testing.T) {
	h := heuristic.Blind[int, string]{Regime: value.SSP}
	base := search.New[int, string](chainMDP{}, h, value.SSP, 1e-6, true, false, picker.Arbitrary[string]{}, obslog.Discard())

	res, err := TopologicalVI(context.Background(), base, []mdp.StateID{0})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Components, "0, 1 and 2 are each their own singleton component")
	assert.Equal(t, 2.0, base.LookupValue(0))
	assert.Equal(t, 1.0, base.LookupValue(1))
}

func TestTopologicalVIConvergesCyclicComponent(t *testing.T) {
	h := heuristic.Blind[int, string]{Regime: value.SSP}
	base := search.New[int, string](loopMDP{}, h, value.SSP, 1e-9, true, false, picker.Arbitrary[string]{}, obslog.Discard())

	res, err := TopologicalVI(context.Background(), base, []mdp.StateID{0})

	require.NoError(t, err)
	assert.Equal(t, 4, res.Components, "{1,2} is one component, 0/3/4 are each singleton")
	assert.InDelta(t, 4.0, base.LookupValue(0), 1e-6)
	assert.InDelta(t, 1.0, base.LookupValue(1), 1e-6)
	assert.InDelta(t, 2.0, base.LookupValue(2), 1e-6)
	assert.Equal(t, store.DeadEnd, base.Store.Get(4).Status)

	action, has := base.GetGreedyAction(1)
	assert.True(t, has, "StorePolicy requests a greedy action even for components that converged without one")
	assert.Equal(t, "escape", action)
}

func TestTopologicalVIReturnsErrTimeoutWhenContextExpires(t *testing.T) {
	h := heuristic.Blind[int, string]{Regime: value.SSP}
	base := search.New[int, string](loopMDP{}, h, value.SSP, 1e-9, true, false, picker.Arbitrary[string]{}, obslog.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	_, err := TopologicalVI(ctx, base, []mdp.StateID{0})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, base.Stats.TimedOut)
}
