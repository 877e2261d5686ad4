// Topological value iteration.
//
// Grounded on other_examples/wyfcoding-pkg__tarjan_scc.go via
// internal/graph: decompose the reachable fragment into strongly connected
// components, then sweep components in the order Tarjan already produces
// them (successors' components close before their predecessors', so that
// order is exactly "solve what you depend on first"). A singleton component
// with no self-loop needs one backup; anything else iterates backups over
// its members until none of them change.
package engine

import (
	"context"

	"probplan/internal/graph"
	"probplan/internal/mdp"
	"probplan/internal/search"
)

// TVIResult reports how much work one topological sweep did.
type TVIResult struct {
	Components int
	Backups    int
}

// TopologicalVI runs one full topological value iteration sweep over every
// state reachable from roots, using base's configured regime/epsilon/picker.
// On return, every reachable state's value (and, if base.Opt.StorePolicy,
// greedy action) is converged to base.Opt.Epsilon within its component,
// unless ctx expires first, in which case ErrTimeout is returned and
// whatever components had already converged are left in place.
func TopologicalVI[S any, A comparable](ctx context.Context, base *search.Base[S, A], roots []mdp.StateID) (TVIResult, error) {
	reachable, adj := graph.Reachable(base.MDP, roots)
	sccs := graph.SCC(reachable, adj)

	var res TVIResult
	res.Components = len(sccs)

	for _, scc := range sccs {
		if expired(ctx) {
			base.Stats.TimedOut = true
			return res, ErrTimeout
		}
		if len(scc) == 1 && !hasSelfLoop(scc[0], adj) {
			base.BellmanUpdate(scc[0])
			res.Backups++
			continue
		}
		for {
			anyChanged := false
			for _, id := range scc {
				if expired(ctx) {
					base.Stats.TimedOut = true
					return res, ErrTimeout
				}
				r := base.BellmanUpdate(id)
				res.Backups++
				if r.ValueChanged {
					anyChanged = true
				}
			}
			if !anyChanged {
				break
			}
		}
	}

	if base.Opt.StorePolicy {
		for _, id := range reachable {
			if expired(ctx) {
				base.Stats.TimedOut = true
				return res, ErrTimeout
			}
			base.BellmanPolicyUpdate(id)
		}
	}

	return res, nil
}

func hasSelfLoop(id mdp.StateID, adj graph.Neighbors) bool {
	for _, n := range adj(id) {
		if n == id {
			return true
		}
	}
	return false
}
