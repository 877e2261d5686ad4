// FRET, Find-Revise-Eliminate-Traps. Wraps a base
// solver (topological VI for FRET-V, LAO*-style heuristic search for
// FRET-π) and repeatedly looks for "traps" — end-components reachable
// under the current greedy policy that aren't already a solved goal
// end-component — collapsing each into the quotient and re-solving,
// until a round finds none.
//
// Grounded on composing the heuristic-search and topological-VI engines with
// end-component collapsing: no new update primitive is needed, only the
// find/collapse loop around the engines already built.
package engine

import (
	"context"
	"time"

	"probplan/internal/ec"
	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/obslog"
	"probplan/internal/openlist"
	"probplan/internal/picker"
	"probplan/internal/search"
	"probplan/internal/store"
	"probplan/internal/value"
)

// FRETVariant selects which base engine re-solves after each collapse.
type FRETVariant int

const (
	FRETV  FRETVariant = iota // re-solve with topological value iteration
	FRETPi                    // re-solve with LAO*-style heuristic search
)

func (v FRETVariant) String() string {
	if v == FRETPi {
		return "fret-pi"
	}
	return "fret-v"
}

// FRETResult reports how many rounds ran and how many traps were
// eliminated in total.
type FRETResult struct {
	Rounds          int
	TrapsEliminated int
}

// FRET solves m from roots, eliminating traps until none remain, maxRounds
// rounds have run (maxRounds <= 0 means unbounded), or ctx's deadline
// elapses. Returns ErrTimeout in the last case; the quotient/base/result
// still reflect whatever rounds had completed.
func FRET[S any, A comparable](
	ctx context.Context,
	m mdp.MDP[S, A],
	h heuristic.Evaluator[S, ec.QuotientAction[A]],
	roots []mdp.StateID,
	eps float64,
	pick picker.Picker[ec.QuotientAction[A]],
	log *obslog.Logger,
	variant FRETVariant,
	maxRounds int,
	olKind openlist.Kind,
	reportInterval time.Duration,
) (*ec.Quotient[S, A], *search.Base[S, ec.QuotientAction[A]], FRETResult, error) {
	quot := ec.NewQuotient[S, A](m)
	var res FRETResult
	var base *search.Base[S, ec.QuotientAction[A]]

	for maxRounds <= 0 || res.Rounds < maxRounds {
		if expired(ctx) {
			if base != nil {
				base.Stats.TimedOut = true
				base.Finalize()
			}
			return quot, base, res, ErrTimeout
		}
		base = search.New[S, ec.QuotientAction[A]](quot, h, value.SSP, eps, true, false, pick, log)
		base.ReportInterval = reportInterval
		base.Initialize()
		qRoots := make([]mdp.StateID, len(roots))
		for i, r := range roots {
			qRoots[i] = quot.Rep(r)
		}

		if err := runFRETRound(ctx, base, qRoots, variant, olKind); err != nil {
			base.Finalize()
			return quot, base, res, err
		}
		res.Rounds++

		traps, timedOut := findTraps(ctx, quot, base, qRoots, olKind)
		if timedOut {
			base.Stats.TimedOut = true
			base.Finalize()
			return quot, base, res, ErrTimeout
		}
		if len(traps) == 0 {
			break
		}
		for _, trap := range traps {
			quot.Collapse(trap)
			res.TrapsEliminated++
		}
	}

	base.Finalize()
	return quot, base, res, nil
}

func runFRETRound[S any, A comparable](ctx context.Context, base *search.Base[S, A], roots []mdp.StateID, variant FRETVariant, olKind openlist.Kind) error {
	if variant == FRETV {
		_, err := TopologicalVI(ctx, base, roots)
		return err
	}
	for _, r := range roots {
		if _, err := LAOStar(ctx, base, r, 0, olKind); err != nil {
			return err
		}
	}
	return nil
}

// findTraps collects every end-component touching the greedy policy graph
// from roots that isn't already a solved goal end-component. timedOut
// reports whether ctx expired before the walk finished, in which case
// the returned traps only reflect what had been discovered so far.
func findTraps[S any, A comparable](ctx context.Context, quot *ec.Quotient[S, A], base *search.Base[S, ec.QuotientAction[A]], roots []mdp.StateID, olKind openlist.Kind) ([][]mdp.StateID, bool) {
	seen := make(map[mdp.StateID]bool)
	var reach []mdp.StateID
	ol := openlist.New(olKind)
	for _, r := range roots {
		visited, _, _, timedOut := greedyReachable(ctx, base, r, ol)
		if timedOut {
			return nil, true
		}
		for _, id := range visited {
			if !seen[id] {
				seen[id] = true
				reach = append(reach, id)
			}
		}
	}

	mecs := ec.FindMECs[S, ec.QuotientAction[A]](quot, reach)
	var traps [][]mdp.StateID
	for _, comp := range mecs {
		if containsGoal(base, comp.States) {
			continue
		}
		traps = append(traps, comp.States)
	}
	return traps, false
}

func containsGoal[S any, A comparable](base *search.Base[S, A], ids []mdp.StateID) bool {
	for _, id := range ids {
		if base.Store.Get(id).Status == store.Goal {
			return true
		}
	}
	return false
}
