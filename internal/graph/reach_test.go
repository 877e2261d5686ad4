package graph

import (
	"probplan/internal/mdp"
	"probplan/internal/pdf"
)

// reachMDP is a minimal mdp.MDP[int, string] double for exercising
// Reachable without a full gridworld.
type reachMDP struct {
	edges    map[int][]int
	terminal map[int]bool
}

func (r *reachMDP) StateID(s int) mdp.StateID { return mdp.StateID(s) }
func (r *reachMDP) State(id mdp.StateID) int  { return int(id) }

func (r *reachMDP) ApplicableActions(id mdp.StateID) []string {
	if len(r.edges[int(id)]) == 0 {
		return nil
	}
	return []string{"go"}
}

func (r *reachMDP) Transition(id mdp.StateID, a string) *pdf.Distribution[mdp.StateID] {
	dist := pdf.New[mdp.StateID]()
	for _, succ := range r.edges[int(id)] {
		dist.Add(mdp.StateID(succ), 1.0/float64(len(r.edges[int(id)])))
	}
	return dist
}

func (r *reachMDP) AllTransitions(id mdp.StateID) []mdp.Transition[string] {
	var out []mdp.Transition[string]
	for _, a := range r.ApplicableActions(id) {
		out = append(out, mdp.Transition[string]{Action: a, Dist: r.Transition(id, a)})
	}
	return out
}

func (r *reachMDP) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	return mdp.TerminationInfo{IsTerminal: r.terminal[int(id)]}
}

func (r *reachMDP) ActionCost(id mdp.StateID, a string) float64 { return 1 }
func (r *reachMDP) OperatorID(a string) mdp.OperatorID           { return 0 }
