package engine

import (
	"probplan/internal/mdp"
	"probplan/internal/pdf"
)

// chainMDP is a two-step deterministic chain 0 --a--> 1 --b--> 2 (goal),
// unit action cost throughout.
type chainMDP struct{}

func (chainMDP) StateID(s int) mdp.StateID { return mdp.StateID(s) }
func (chainMDP) State(id mdp.StateID) int  { return int(id) }

func (chainMDP) ApplicableActions(id mdp.StateID) []string {
	switch id {
	case 0:
		return []string{"a"}
	case 1:
		return []string{"b"}
	default:
		return nil
	}
}

func (chainMDP) Transition(id mdp.StateID, a string) *pdf.Distribution[mdp.StateID] {
	dist := pdf.New[mdp.StateID]()
	switch {
	case id == 0 && a == "a":
		dist.Add(1, 1.0)
	case id == 1 && a == "b":
		dist.Add(2, 1.0)
	}
	return dist
}

func (c chainMDP) AllTransitions(id mdp.StateID) []mdp.Transition[string] {
	var out []mdp.Transition[string]
	for _, a := range c.ApplicableActions(id) {
		out = append(out, mdp.Transition[string]{Action: a, Dist: c.Transition(id, a)})
	}
	return out
}

func (chainMDP) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	if id == 2 {
		return mdp.TerminationInfo{IsGoal: true, IsTerminal: true}
	}
	return mdp.TerminationInfo{}
}

func (chainMDP) ActionCost(id mdp.StateID, a string) float64 { return 1 }
func (chainMDP) OperatorID(a string) mdp.OperatorID           { return 0 }

// loopMDP is the same shape as internal/ec's cycleMDP fixture, reused here
// to exercise engines against a genuine end-component and dead-end:
//
//	0 --go--> {1: 0.5, 4: 0.5}
//	1 --cycle--> 2, 1 --escape--> 3 (goal)
//	2 --cycle--> 1
//	3: goal
//	4: terminal, non-goal, cost 5
//
// Unit action cost gives an exact optimal SSP solution: V(3)=0, V(1)=1 (the
// escape action dominates looping), V(2)=2, V(4)=5, V(0)=4.
type loopMDP struct{}

func (loopMDP) StateID(s int) mdp.StateID { return mdp.StateID(s) }
func (loopMDP) State(id mdp.StateID) int  { return int(id) }

func (loopMDP) ApplicableActions(id mdp.StateID) []string {
	switch id {
	case 0:
		return []string{"go"}
	case 1:
		return []string{"cycle", "escape"}
	case 2:
		return []string{"cycle"}
	default:
		return nil
	}
}

func (loopMDP) Transition(id mdp.StateID, a string) *pdf.Distribution[mdp.StateID] {
	dist := pdf.New[mdp.StateID]()
	switch {
	case id == 0 && a == "go":
		dist.Add(1, 0.5)
		dist.Add(4, 0.5)
	case id == 1 && a == "cycle":
		dist.Add(2, 1.0)
	case id == 1 && a == "escape":
		dist.Add(3, 1.0)
	case id == 2 && a == "cycle":
		dist.Add(1, 1.0)
	}
	return dist
}

func (l loopMDP) AllTransitions(id mdp.StateID) []mdp.Transition[string] {
	var out []mdp.Transition[string]
	for _, a := range l.ApplicableActions(id) {
		out = append(out, mdp.Transition[string]{Action: a, Dist: l.Transition(id, a)})
	}
	return out
}

func (loopMDP) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	switch id {
	case 3:
		return mdp.TerminationInfo{IsGoal: true, IsTerminal: true}
	case 4:
		return mdp.TerminationInfo{IsTerminal: true, NonGoalCost: 5}
	default:
		return mdp.TerminationInfo{}
	}
}

func (loopMDP) ActionCost(id mdp.StateID, a string) float64 { return 1 }
func (loopMDP) OperatorID(a string) mdp.OperatorID           { return 0 }
