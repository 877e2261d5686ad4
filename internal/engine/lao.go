// LAO*: expand one tip at a time and back up
// only along that tip's ancestor chain, instead of re-sweeping the whole
// graph on every pass. Cheaper per iteration than exhaustive AO*; needs more
// iterations to notice a change has propagated past its immediate ancestors,
// which the outer convergence check (a full backup sweep once no tips
// remain) catches.
package engine

import (
	"context"

	"probplan/internal/mdp"
	"probplan/internal/openlist"
	"probplan/internal/search"
)

// LAOStar runs to convergence, or until maxExpansions tip expansions have
// happened if maxExpansions > 0, or until ctx's deadline elapses. olKind
// selects the frontier used to walk the greedy policy graph each pass.
// Returns ErrTimeout if ctx expired before convergence; the result still
// reports whatever work had completed.
func LAOStar[S any, A comparable](ctx context.Context, base *search.Base[S, A], root mdp.StateID, maxExpansions int, olKind openlist.Kind) (AOStarResult, error) {
	var res AOStarResult
	base.BellmanPolicyUpdate(root)
	res.Expansions++

	ol := openlist.New(olKind)
	for {
		visited, tips, parents, timedOut := greedyReachable(ctx, base, root, ol)
		if timedOut {
			base.Stats.TimedOut = true
			return res, ErrTimeout
		}
		if len(tips) == 0 {
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
			if !changed {
				break
			}
			res.Iterations++
			continue
		}
		if maxExpansions > 0 && res.Expansions >= maxExpansions {
			break
		}
		tip := tips[0]
		base.BellmanPolicyUpdate(tip)
		res.Expansions++

		chain := ancestorChain(tip, parents, root)
		_, timedOut = backupSweep(ctx, base, chain, func() { res.Backups++ })
		if timedOut {
			base.Stats.TimedOut = true
			return res, ErrTimeout
		}
		solved, dead := markSolved(base, tip, root, parents)
		res.Solved += solved
		res.Dead += dead
		res.Iterations++
	}
	return res, nil
}
