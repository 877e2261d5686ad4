package ec

import (
	"probplan/internal/mdp"
	"probplan/internal/pdf"
)

// cycleMDP is a small mdp.MDP[int, string] double shared by this package's
// tests: state 0 can reach either a two-state cycle {1,2} that escapes to
// the goal (3) or a dead-end (4).
//
//	0 --go--> {1: 0.5, 4: 0.5}
//	1 --cycle--> 2, 1 --escape--> 3 (goal)
//	2 --cycle--> 1
//	3: goal
//	4: terminal, non-goal
type cycleMDP struct{}

func (cycleMDP) StateID(s int) mdp.StateID { return mdp.StateID(s) }
func (cycleMDP) State(id mdp.StateID) int  { return int(id) }

func (cycleMDP) ApplicableActions(id mdp.StateID) []string {
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

func (cycleMDP) Transition(id mdp.StateID, a string) *pdf.Distribution[mdp.StateID] {
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

func (c cycleMDP) AllTransitions(id mdp.StateID) []mdp.Transition[string] {
	var out []mdp.Transition[string]
	for _, a := range c.ApplicableActions(id) {
		out = append(out, mdp.Transition[string]{Action: a, Dist: c.Transition(id, a)})
	}
	return out
}

func (cycleMDP) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	switch id {
	case 3:
		return mdp.TerminationInfo{IsGoal: true, IsTerminal: true}
	case 4:
		return mdp.TerminationInfo{IsTerminal: true, NonGoalCost: 5}
	default:
		return mdp.TerminationInfo{}
	}
}

func (cycleMDP) ActionCost(id mdp.StateID, a string) float64 { return 1 }
func (cycleMDP) OperatorID(a string) mdp.OperatorID           { return 0 }
