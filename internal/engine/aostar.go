// Exhaustive AO*: every tip of
// the current greedy policy graph is expanded in one pass, then the whole
// graph is backed up to convergence before the next pass looks for new
// tips. Simpler and more thorough per iteration than LAO*, at the cost of
// revisiting already-converged ancestors on every pass.
package engine

import (
	"context"

	"probplan/internal/mdp"
	"probplan/internal/openlist"
	"probplan/internal/search"
)

// AOStarResult reports how much work one run did. Solved/Dead are AO*-family
// bookkeeping: Solved counts states the run's solved-propagation classified
// as converged, and Dead is how many of those had no live successor.
type AOStarResult struct {
	Expansions int
	Backups    int
	Iterations int
	Solved     int
	Dead       int
}

// ExhaustiveAOStar runs to convergence, or until maxIterations passes have
// run if maxIterations > 0, or until ctx's deadline elapses, whichever
// comes first. olKind selects the frontier used to walk the greedy policy
// graph each pass. Returns ErrTimeout if ctx expired before convergence;
// the result still reports whatever work had completed.
func ExhaustiveAOStar[S any, A comparable](ctx context.Context, base *search.Base[S, A], root mdp.StateID, maxIterations int, olKind openlist.Kind) (AOStarResult, error) {
	var res AOStarResult
	base.BellmanPolicyUpdate(root)
	res.Expansions++

	ol := openlist.New(olKind)
	for maxIterations <= 0 || res.Iterations < maxIterations {
		visited, tips, parents, timedOut := greedyReachable(ctx, base, root, ol)
		if timedOut {
			base.Stats.TimedOut = true
			return res, ErrTimeout
		}
		for _, t := range tips {
			base.BellmanPolicyUpdate(t)
			res.Expansions++
		}
		changed, timedOut := backupSweep(ctx, base, visited, func() { res.Backups++ })
		if timedOut {
			base.Stats.TimedOut = true
			return res, ErrTimeout
		}
		for i := len(visited) - 1; i >= 0; i-- {
			solved, dead := markSolved(base, visited[i], root, parents)
			res.Solved += solved
			res.Dead += dead
		}
		res.Iterations++
		if len(tips) == 0 && !changed {
			break
		}
	}
	return res, nil
}
