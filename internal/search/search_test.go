package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/obslog"
	"probplan/internal/pdf"
	"probplan/internal/picker"
	"probplan/internal/store"
	"probplan/internal/value"
)

// twoStateMDP: 0 --go--> 1 (goal), cost 2.
type twoStateMDP struct{}

func (twoStateMDP) StateID(s int) mdp.StateID { return mdp.StateID(s) }
func (twoStateMDP) State(id mdp.StateID) int  { return int(id) }

func (twoStateMDP) ApplicableActions(id mdp.StateID) []string {
	if id == 0 {
		return []string{"go"}
	}
	return nil
}

func (twoStateMDP) Transition(id mdp.StateID, a string) *pdf.Distribution[mdp.StateID] {
	dist := pdf.New[mdp.StateID]()
	if id == 0 && a == "go" {
		dist.Add(1, 1.0)
	}
	return dist
}

func (m twoStateMDP) AllTransitions(id mdp.StateID) []mdp.Transition[string] {
	var out []mdp.Transition[string]
	for _, a := range m.ApplicableActions(id) {
		out = append(out, mdp.Transition[string]{Action: a, Dist: m.Transition(id, a)})
	}
	return out
}

func (twoStateMDP) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	if id == 1 {
		return mdp.TerminationInfo{IsGoal: true, IsTerminal: true}
	}
	return mdp.TerminationInfo{}
}

func (twoStateMDP) ActionCost(id mdp.StateID, a string) float64 { return 2 }
func (twoStateMDP) OperatorID(a string) mdp.OperatorID           { return 0 }

func newBase() *Base[int, string] {
	h := heuristic.Blind[int, string]{Regime: value.SSP}
	return New[int, string](twoStateMDP{}, h, value.SSP, 1e-9, true, false, picker.Arbitrary[string]{}, obslog.Discard())
}

func TestBellmanUpdateComputesCostAndGreedyAction(t *testing.T) {
	b := newBase()

	r := b.BellmanUpdate(0)
	assert.True(t, r.ValueChanged)
	assert.Equal(t, 2.0, b.LookupValue(0))

	action, has := b.GetGreedyAction(0)
	assert.True(t, has)
	assert.Equal(t, "go", action)
}

func TestBellmanPolicyUpdateRestoresStorePolicySetting(t *testing.T) {
	h := heuristic.Blind[int, string]{Regime: value.SSP}
	b := New[int, string](twoStateMDP{}, h, value.SSP, 1e-9, false, false, picker.Arbitrary[string]{}, obslog.Discard())

	b.BellmanPolicyUpdate(0)
	_, has := b.GetGreedyAction(0)
	assert.True(t, has, "BellmanPolicyUpdate forces policy storage for this call")
	assert.False(t, b.Opt.StorePolicy, "the base's configured StorePolicy is restored afterward")
}

func TestIsTerminalOnlyAfterBackup(t *testing.T) {
	b := newBase()
	assert.False(t, b.IsTerminal(1), "never backed up yet, status is still New")

	b.BellmanUpdate(1)
	assert.True(t, b.IsTerminal(1))
	assert.Equal(t, store.Goal, b.Store.Get(1).Status)
}

func TestWasVisited(t *testing.T) {
	b := newBase()
	assert.False(t, b.WasVisited(0))
	b.BellmanUpdate(0)
	assert.True(t, b.WasVisited(0))
	assert.True(t, b.WasVisited(1), "computeQ touches successor 1's store record too, while seeding it from the heuristic")
	assert.False(t, b.WasVisited(5), "an id nothing has referenced stays untouched")
}

func TestLookupBoundsDegenerateInScalarRegime(t *testing.T) {
	b := newBase()
	b.BellmanUpdate(0)
	bounds := b.LookupBounds(0)
	assert.Equal(t, bounds.Lower, bounds.Upper)
}

func TestStatsAccumulateAcrossBackups(t *testing.T) {
	b := newBase()
	b.BellmanUpdate(0)
	b.BellmanUpdate(1)

	require.Equal(t, 2, b.Stats.Backups)
	assert.Equal(t, 1, b.Stats.BackedUpStates, "1 was already touched as a successor during 0's backup")
	assert.Equal(t, 1, b.Stats.GoalStates)
	assert.Equal(t, 1, b.Stats.TerminalStates)
}

// pureSelfLoopMDP is a single non-terminal state whose only action loops
// back to itself with certainty, so BellmanUpdate must promote it to a
// dead end and count both a prune and a skipped self-loop.
type pureSelfLoopMDP struct{}

func (pureSelfLoopMDP) StateID(s int) mdp.StateID { return mdp.StateID(s) }
func (pureSelfLoopMDP) State(id mdp.StateID) int  { return int(id) }

func (pureSelfLoopMDP) ApplicableActions(id mdp.StateID) []string { return []string{"wait"} }

func (pureSelfLoopMDP) Transition(id mdp.StateID, a string) *pdf.Distribution[mdp.StateID] {
	dist := pdf.New[mdp.StateID]()
	dist.Add(id, 1.0)
	return dist
}

func (m pureSelfLoopMDP) AllTransitions(id mdp.StateID) []mdp.Transition[string] {
	return []mdp.Transition[string]{{Action: "wait", Dist: m.Transition(id, "wait")}}
}

func (pureSelfLoopMDP) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	return mdp.TerminationInfo{}
}

func (pureSelfLoopMDP) ActionCost(id mdp.StateID, a string) float64 { return 1 }
func (pureSelfLoopMDP) OperatorID(a string) mdp.OperatorID          { return 0 }

func TestStatsTrackPrunedAndSelfLoopStates(t *testing.T) {
	h := heuristic.Blind[int, string]{Regime: value.SSP}
	b := New[int, string](pureSelfLoopMDP{}, h, value.SSP, 1e-9, true, false, picker.Arbitrary[string]{}, obslog.Discard())

	b.BellmanUpdate(0)

	assert.Equal(t, 1, b.Stats.Pruned)
	assert.Equal(t, 1, b.Stats.SelfLoopStates)
	assert.Equal(t, 1, b.Stats.TerminalStates)
}

func TestInitializeAndFinalizeEmitReportsRegardlessOfInterval(t *testing.T) {
	b := newBase()
	b.Initialize()
	b.BellmanUpdate(0)
	b.Finalize()
	// ReportInterval is zero by default, so no periodic report fires, but
	// Initialize/Finalize don't depend on it.
	assert.Equal(t, 1, b.Stats.Backups)
}

func TestMaybeReportIsANoOpWhenReportIntervalIsZero(t *testing.T) {
	b := newBase()
	for i := 0; i < 10; i++ {
		b.BellmanUpdate(0)
	}
	assert.Zero(t, b.ReportInterval)
}
