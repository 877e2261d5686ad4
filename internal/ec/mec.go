// Maximal end-component decomposition.
//
// Grounded on the same Tarjan SCC shape topological VI uses
// (other_examples/wyfcoding-pkg__tarjan_scc.go), applied iteratively: build
// the graph of every action's successor support, find SCCs, strip actions
// that escape their SCC, drop states left with no inner action, and repeat
// on the residue until stable.
package ec

import (
	"probplan/internal/graph"
	"probplan/internal/mdp"
)

// actionSupport is one action's successor set, distinct and positive-prob
// only.
type actionSupport[A comparable] struct {
	action A
	supp   []mdp.StateID
}

// MEC is one maximal end-component: its member states and, per member, the
// inner actions whose support stays entirely inside the component. Outer
// (escaping) actions are not listed here — the quotient recovers
// them directly from the base MDP.
type MEC[A comparable] struct {
	States []mdp.StateID
	Inner  map[mdp.StateID][]A
}

// FindMECs decomposes the reachable fragment of m into its maximal
// end-components.
func FindMECs[S any, A comparable](m mdp.MDP[S, A], reachable []mdp.StateID) []MEC[A] {
	candidates := make(map[mdp.StateID]bool)
	remaining := make(map[mdp.StateID][]actionSupport[A])

	for _, id := range reachable {
		term := m.TerminationInfo(id)
		if term.IsTerminal {
			continue
		}
		var sets []actionSupport[A]
		for _, a := range m.ApplicableActions(id) {
			dist := m.Transition(id, a)
			seen := make(map[mdp.StateID]bool)
			var supp []mdp.StateID
			for _, e := range dist.Entries() {
				if e.Prob > 0 && !seen[e.Value] {
					seen[e.Value] = true
					supp = append(supp, e.Value)
				}
			}
			sets = append(sets, actionSupport[A]{action: a, supp: supp})
		}
		if len(sets) == 0 {
			continue
		}
		candidates[id] = true
		remaining[id] = sets
	}

	var lastSCCs [][]mdp.StateID

	for {
		ids := make([]mdp.StateID, 0, len(candidates))
		for id := range candidates {
			ids = append(ids, id)
		}
		adj := func(id mdp.StateID) []mdp.StateID {
			var out []mdp.StateID
			for _, as := range remaining[id] {
				for _, s := range as.supp {
					if candidates[s] {
						out = append(out, s)
					}
				}
			}
			return out
		}
		sccs := graph.SCC(ids, graph.Neighbors(adj))
		lastSCCs = sccs

		changed := false
		for _, scc := range sccs {
			sccSet := make(map[mdp.StateID]bool, len(scc))
			for _, id := range scc {
				sccSet[id] = true
			}
			for _, id := range scc {
				var kept []actionSupport[A]
				for _, as := range remaining[id] {
					if subsetOf(as.supp, sccSet) {
						kept = append(kept, as)
					}
				}
				if len(kept) != len(remaining[id]) {
					remaining[id] = kept
					changed = true
				}
				if len(kept) == 0 {
					delete(candidates, id)
					delete(remaining, id)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	var mecs []MEC[A]
	for _, scc := range lastSCCs {
		var states []mdp.StateID
		inner := make(map[mdp.StateID][]A)
		for _, id := range scc {
			if !candidates[id] {
				continue
			}
			states = append(states, id)
			for _, as := range remaining[id] {
				inner[id] = append(inner[id], as.action)
			}
		}
		if len(states) > 0 {
			mecs = append(mecs, MEC[A]{States: states, Inner: inner})
		}
	}
	return mecs
}

func subsetOf(ids []mdp.StateID, set map[mdp.StateID]bool) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}
