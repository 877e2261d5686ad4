package graph

import "probplan/internal/mdp"

// Reachable does a breadth-first walk of the MDP from roots, registering
// every state it touches (via Transition's StateID side effect) and
// returning the full reachable set plus an adjacency function suitable for
// SCC. Every action m.ApplicableActions reports at a state is followed.
func Reachable[S any, A comparable](m mdp.MDP[S, A], roots []mdp.StateID) (all []mdp.StateID, adj Neighbors) {
	seen := make(map[mdp.StateID]bool)
	succs := make(map[mdp.StateID][]mdp.StateID)
	queue := append([]mdp.StateID{}, roots...)
	for _, r := range roots {
		seen[r] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		all = append(all, id)

		term := m.TerminationInfo(id)
		if term.IsTerminal {
			continue
		}
		var out []mdp.StateID
		for _, a := range m.ApplicableActions(id) {
			dist := m.Transition(id, a)
			for _, e := range dist.Entries() {
				out = append(out, e.Value)
				if !seen[e.Value] {
					seen[e.Value] = true
					queue = append(queue, e.Value)
				}
			}
		}
		succs[id] = out
	}
	adj = func(id mdp.StateID) []mdp.StateID { return succs[id] }
	return all, adj
}
