// Package search implements the heuristic-search base every outer
// algorithm drives. It owns the state-info store and the heuristic
// evaluator, and exposes the lookup/update surface those algorithms need.
//
// Grounded on Agent struct (History, Policy in
// assignment2/ex0/mdp/agent.go), generalized from "one rollout's history"
// into the shared driver every outer algorithm calls into.
package search

import (
	"time"

	"probplan/internal/bellman"
	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/obslog"
	"probplan/internal/picker"
	"probplan/internal/store"
	"probplan/internal/value"
)

// Stats accumulates running counters a caller can report after a solve.
type Stats struct {
	Backups        int
	BackedUpStates int
	ValueChanges   int
	PolicyUpdates  int
	Pruned         int
	GoalStates     int
	TerminalStates int
	SelfLoopStates int
	TimedOut       bool
}

// Base owns the store and drives repeated Bellman updates over an implicit
// MDP.
type Base[S any, A comparable] struct {
	MDP   mdp.MDP[S, A]
	H     heuristic.Evaluator[S, A]
	Opt   bellman.Options[A]
	Store *store.Store[A]
	Log   *obslog.Logger
	Stats Stats

	// ReportInterval throttles the periodic progress report BellmanUpdate
	// emits. Zero disables periodic reporting; Initialize/Finalize are
	// unaffected by it.
	ReportInterval time.Duration
	lastReport     time.Time
}

// New constructs a search base with a fresh store.
func New[S any, A comparable](m mdp.MDP[S, A], h heuristic.Evaluator[S, A], regime value.Regime, eps float64, storePolicy, interval bool, pick picker.Picker[A], log *obslog.Logger) *Base[S, A] {
	return &Base[S, A]{
		MDP: m,
		H:   h,
		Opt: bellman.Options[A]{
			Regime:      regime,
			Epsilon:     eps,
			StorePolicy: storePolicy,
			Interval:    interval,
			Picker:      pick,
		},
		Store: store.NewStore[A](),
		Log:   log,
	}
}

// LookupValue returns the state's current scalar bound (Lower).
func (b *Base[S, A]) LookupValue(id mdp.StateID) float64 {
	return b.Store.Get(id).Value()
}

// LookupBounds returns the state's current two-sided interval.
func (b *Base[S, A]) LookupBounds(id mdp.StateID) value.Interval {
	info := b.Store.Get(id)
	return value.Interval{Lower: info.Lower, Upper: info.Upper}
}

// IsTerminal reports whether id has been classified Goal or DeadEnd.
func (b *Base[S, A]) IsTerminal(id mdp.StateID) bool {
	s := b.Store.Get(id).Status
	return s == store.Goal || s == store.DeadEnd
}

// WasVisited reports whether the store has grown to cover id (see
// store.Store.Visited); an untouched id below a touched one also counts.
func (b *Base[S, A]) WasVisited(id mdp.StateID) bool {
	return b.Store.Visited(id)
}

// GetGreedyAction returns the stored greedy action for id, if any.
func (b *Base[S, A]) GetGreedyAction(id mdp.StateID) (A, bool) {
	info := b.Store.Get(id)
	return info.Action, info.HasAction
}

// Initialize logs the starting progress report (zero stats) and arms the
// periodic report clock. Call once before a solve's first backup.
func (b *Base[S, A]) Initialize() {
	b.lastReport = time.Now()
	b.Log.Info("initialize", b.reportFields()...)
}

// Finalize logs the closing progress report, regardless of ReportInterval.
// Call once a solve has finished, whether by convergence or timeout.
func (b *Base[S, A]) Finalize() {
	b.Log.Info("finalize", b.reportFields()...)
}

func (b *Base[S, A]) reportFields() []any {
	return []any{
		"backups", b.Stats.Backups,
		"backed_up_states", b.Stats.BackedUpStates,
		"value_changes", b.Stats.ValueChanges,
		"policy_updates", b.Stats.PolicyUpdates,
		"pruned", b.Stats.Pruned,
		"goal_states", b.Stats.GoalStates,
		"terminal_states", b.Stats.TerminalStates,
		"self_loop_states", b.Stats.SelfLoopStates,
		"timed_out", b.Stats.TimedOut,
	}
}

// maybeReport emits a periodic progress report if ReportInterval has
// elapsed since the last one. A no-op when ReportInterval is zero.
func (b *Base[S, A]) maybeReport() {
	if b.ReportInterval <= 0 {
		return
	}
	if time.Since(b.lastReport) < b.ReportInterval {
		return
	}
	b.lastReport = time.Now()
	b.Log.Info("progress", b.reportFields()...)
}

// BellmanUpdate runs one backup at id and folds the result into Stats.
func (b *Base[S, A]) BellmanUpdate(id mdp.StateID) bellman.Result {
	before := b.Store.Visited(id)
	res := bellman.Update(b.MDP, id, b.Store, b.H, b.Opt)
	b.Stats.Backups++
	if !before {
		b.Stats.BackedUpStates++
	}
	if res.ValueChanged {
		b.Stats.ValueChanges++
	}
	if res.SelfLoop {
		b.Stats.SelfLoopStates++
	}
	if res.Pruned {
		b.Stats.Pruned++
	}
	if res.Terminal {
		b.Stats.TerminalStates++
		if b.Store.Get(id).Status == store.Goal {
			b.Stats.GoalStates++
		}
	}
	b.maybeReport()
	return res
}

// BellmanPolicyUpdate runs a backup with policy storage forced on for this
// call only, restoring the base's configured StorePolicy afterward. Used
// by policy-extraction passes that want a greedy action even when the main
// solve ran without StorePolicy.
func (b *Base[S, A]) BellmanPolicyUpdate(id mdp.StateID) bellman.Result {
	orig := b.Opt.StorePolicy
	b.Opt.StorePolicy = true
	defer func() { b.Opt.StorePolicy = orig }()
	res := b.BellmanUpdate(id)
	if res.PolicyChanged {
		b.Stats.PolicyUpdates++
	}
	return res
}
