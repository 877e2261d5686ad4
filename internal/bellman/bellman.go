// Package bellman implements the single Bellman-update primitive every
// outer algorithm shares.
//
// Grounded on PolicyEvaluation
// (assignment2/ex0/policy_evaluation.go) and ToStateActionEstimator
// (assignment2/ex0/mdp/policy_greedy.go) for the "sum over successors"
// shape, generalized from a fixed discounted reward sum to SSP
// cost-to-goal / MaxProb reach-probability objectives, including self-loop
// division and dead-end promotion.
package bellman

import (
	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/pdf"
	"probplan/internal/picker"
	"probplan/internal/store"
	"probplan/internal/value"
)

// SelfLoopEpsilon bounds how close a self-loop probability may be to 1
// before the action is treated as a pure (non-improving) self-loop and
// skipped rather than divided out. The exact epsilon is a judgment call
// left to the implementation; this module fixes it at 1e-9.
const SelfLoopEpsilon = 1e-9

// Options configures one Update call.
type Options[A comparable] struct {
	Regime      value.Regime
	Epsilon     float64
	StorePolicy bool
	Interval    bool
	Picker      picker.Picker[A]
}

// Result reports what changed during one Update call. Pruned is set when
// this call is what promoted the state to DeadEnd, either because it has no
// usable action or via domination (not when it was already terminal on
// entry); SelfLoop is set when at least one
// applicable action was skipped as a pure self-loop.
type Result struct {
	ValueChanged  bool
	PolicyChanged bool
	HasGreedy     bool
	Terminal      bool
	Pruned        bool
	SelfLoop      bool
}

type qval[A comparable] struct {
	a     A
	opID  mdp.OperatorID
	lower float64
	upper float64
}

// Update runs one Bellman backup at id, mutating st's record in place.
func Update[S any, A comparable](m mdp.MDP[S, A], id mdp.StateID, st *store.Store[A], h heuristic.Evaluator[S, A], opt Options[A]) Result {
	info := st.Get(id)

	if info.Status == store.New {
		initialize(m, id, info, h, opt)
	}

	if info.Status == store.Goal || info.Status == store.DeadEnd {
		return Result{Terminal: true}
	}

	actions := m.ApplicableActions(id)
	qs := make([]qval[A], 0, len(actions))
	selfLoop := false
	for _, a := range actions {
		dist := m.Transition(id, a)
		lower, upper, usable := computeQ(m, id, a, dist, st, h, opt)
		if !usable {
			selfLoop = true
			continue // pure self-loop
		}
		qs = append(qs, qval[A]{a: a, opID: m.OperatorID(a), lower: lower, upper: upper})
	}

	oldLower, oldUpper := info.Lower, info.Upper

	if len(qs) == 0 {
		// No actions, or every action was a pure self-loop: nothing
		// improves on stopping.
		promoteDeadEnd(info)
		changed := value.Changed(oldLower, info.Lower, opt.Epsilon) ||
			(opt.Interval && value.Changed(oldUpper, info.Upper, opt.Epsilon))
		return Result{ValueChanged: changed, Terminal: true, Pruned: true, SelfLoop: selfLoop}
	}

	bestLower, bestLowerIdx := bestOf(opt.Regime, qs, func(q qval[A]) float64 { return q.lower })
	bestUpper := bestLower
	if opt.Interval {
		bestUpper, _ = bestOf(opt.Regime, qs, func(q qval[A]) float64 { return q.upper })
	}

	// Dead-end promotion: no action has a finite Q-value (SSP) or a
	// positive one (MaxProb), so stopping at the termination cost is at
	// least as good. Only applies once the state
	// has already been through at least one update (Initialized), so a
	// freshly-expanded fringe state isn't snap-judged dead on its first
	// backup before successors have values of their own.
	if info.Status == store.Initialized && dominated(opt.Regime, qs, info.TerminationCost, opt.Epsilon) {
		promoteDeadEnd(info)
		changed := value.Changed(oldLower, info.Lower, opt.Epsilon)
		return Result{ValueChanged: changed, Terminal: true, Pruned: true, SelfLoop: selfLoop}
	}

	res := Result{SelfLoop: selfLoop}

	if opt.StorePolicy {
		cands := make([]picker.Candidate[A], 0, len(qs))
		for _, q := range qs {
			if value.ApproxEqual(q.lower, bestLower, opt.Epsilon) {
				cands = append(cands, picker.Candidate[A]{Action: q.a, Q: q.lower, OpID: q.opID, LowerQ: q.lower, UpperQ: q.upper})
			}
		}
		if len(cands) == 0 {
			best := qs[bestLowerIdx]
			cands = append(cands, picker.Candidate[A]{Action: best.a, Q: best.lower, OpID: best.opID, LowerQ: best.lower, UpperQ: best.upper})
		}
		var prev A
		hadPrev := info.HasAction
		if hadPrev {
			prev = info.Action
		}
		chosen := opt.Picker.Pick(cands, prev, hadPrev)
		res.PolicyChanged = !hadPrev || chosen != prev
		info.Action = chosen
		info.HasAction = true
		res.HasGreedy = true
	}

	info.Status = store.Initialized
	if opt.Interval {
		// The monotone-interval invariant: bounds only ever tighten across
		// backups. A fresh Q-estimate that would widen either endpoint is
		// clamped against the bound already on record rather than applied
		// outright.
		tightened := value.Interval{Lower: oldLower, Upper: oldUpper}.Tighten(value.Interval{Lower: bestLower, Upper: bestUpper})
		info.Lower, info.Upper = tightened.Lower, tightened.Upper
	} else {
		info.SetValue(bestLower)
	}

	res.ValueChanged = value.Changed(oldLower, info.Lower, opt.Epsilon) ||
		(opt.Interval && value.Changed(oldUpper, info.Upper, opt.Epsilon))
	return res
}

func initialize[S any, A comparable](m mdp.MDP[S, A], id mdp.StateID, info *store.Info[A], h heuristic.Evaluator[S, A], opt Options[A]) {
	term := m.TerminationInfo(id)
	if term.IsGoal {
		info.Status = store.Goal
		info.SetValue(opt.Regime.GoalValue())
		return
	}
	est := h.Evaluate(m, id)
	if est.IsTerminal || term.IsTerminal {
		info.Status = store.DeadEnd
		cost := est.Value
		if term.IsTerminal && !est.IsTerminal {
			cost = term.NonGoalCost
		}
		info.TerminationCost = cost
		info.SetValue(cost)
		return
	}
	info.TerminationCost = term.NonGoalCost
	info.Status = store.OnFringe
	if !opt.Interval {
		info.SetValue(est.Value)
		return
	}
	// The two-sided regime needs a genuinely admissible bound on each side,
	// not the same scalar estimate mirrored onto both: the heuristic's
	// Value is the admissible bound for the regime's own direction (a lower
	// bound for SSP, an upper bound for MaxProb), and the far side starts at
	// the least informative bound a backup can only tighten from.
	switch opt.Regime {
	case value.MaxProb:
		info.Lower = 0
		info.Upper = est.Value
	default: // SSP
		info.Lower = est.Value
		info.Upper = value.Inf
	}
}

func promoteDeadEnd[A comparable](info *store.Info[A]) {
	info.Status = store.DeadEnd
	info.SetValue(info.TerminationCost)
	info.HasAction = false
}

func dominated[A comparable](regime value.Regime, qs []qval[A], terminationCost, eps float64) bool {
	for _, q := range qs {
		if regime == value.SSP && (q.lower < value.Inf || q.lower < terminationCost-eps) {
			return false
		}
		if regime == value.MaxProb && q.lower > eps {
			return false
		}
	}
	return true
}

func bestOf[A comparable](regime value.Regime, qs []qval[A], key func(qval[A]) float64) (float64, int) {
	best := key(qs[0])
	idx := 0
	for i, q := range qs[1:] {
		v := key(q)
		if (regime == value.MaxProb && v > best) || (regime == value.SSP && v < best) {
			best = v
			idx = i + 1
		}
	}
	return best, idx
}

// computeQ returns the (lower, upper) Q-value of action a at id, handling
// self-loops. usable is false iff a is a pure self-loop
// (p_self >= 1-SelfLoopEpsilon) and should be skipped entirely.
func computeQ[S any, A comparable](m mdp.MDP[S, A], id mdp.StateID, a A, dist *pdf.Distribution[mdp.StateID], st *store.Store[A], h heuristic.Evaluator[S, A], opt Options[A]) (lower, upper float64, usable bool) {
	pSelf := dist.ProbOf(id)
	if pSelf >= 1-SelfLoopEpsilon {
		return 0, 0, false
	}

	cost := 0.0
	if opt.Regime == value.SSP {
		cost = m.ActionCost(id, a)
	}

	var sumLower, sumUpper float64
	for _, e := range dist.Entries() {
		if e.Value == id {
			continue // handled via the (1-pSelf) division below
		}
		succ := st.Get(e.Value)
		if succ.Status == store.New {
			// A successor touched for the first time as part of this
			// backup is seeded with the heuristic on first contact, set
			// OnFringe with value equal to the heuristic estimate, so the
			// parent's Q uses an admissible bound rather than a garbage zero.
			initialize(m, e.Value, succ, h, opt)
		}
		sumLower += e.Prob * succ.Lower
		sumUpper += e.Prob * succ.Upper
	}

	denom := 1 - pSelf
	lower = (cost + sumLower) / denom
	upper = (cost + sumUpper) / denom
	return lower, upper, true
}

