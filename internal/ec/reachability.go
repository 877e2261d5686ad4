// Package ec implements end-component decomposition, the quotient MDP, and
// qualitative reachability classification.
package ec

import (
	"probplan/internal/graph"
	"probplan/internal/mdp"
)

// Classification is a state's qualitative-reachability class.
type Classification int

const (
	Dead Classification = iota
	One
	Maybe
)

func (c Classification) String() string {
	switch c {
	case Dead:
		return "dead"
	case One:
		return "one"
	default:
		return "maybe"
	}
}

// actionSupports collects, for every reachable non-terminal state, the
// successor set of each of its applicable actions.
func actionSupports[S any, A comparable](m mdp.MDP[S, A], reachable []mdp.StateID) (goals, deadTerminals map[mdp.StateID]bool, supports map[mdp.StateID][][]mdp.StateID) {
	goals = make(map[mdp.StateID]bool)
	deadTerminals = make(map[mdp.StateID]bool)
	supports = make(map[mdp.StateID][][]mdp.StateID)

	for _, id := range reachable {
		term := m.TerminationInfo(id)
		if term.IsGoal {
			goals[id] = true
			continue
		}
		if term.IsTerminal {
			deadTerminals[id] = true
			continue
		}
		var sets [][]mdp.StateID
		for _, a := range m.ApplicableActions(id) {
			dist := m.Transition(id, a)
			var supp []mdp.StateID
			for _, e := range dist.Entries() {
				if e.Prob > 0 {
					supp = append(supp, e.Value)
				}
			}
			sets = append(sets, supp)
		}
		if len(sets) == 0 {
			deadTerminals[id] = true
			continue
		}
		supports[id] = sets
	}
	return
}

// Reachability classifies every state reachable from roots as Dead, One, or
// Maybe, via a dual fixed-point algorithm: "one" grows from goals
// via actions whose entire support already lies in "one"; positive-reach
// grows from goals via any action with some successor already
// positive-reaching; dead is whatever never joins positive-reach.
func Reachability[S any, A comparable](m mdp.MDP[S, A], roots []mdp.StateID) map[mdp.StateID]Classification {
	reachable, _ := graph.Reachable(m, roots)
	goals, deadTerminals, supports := actionSupports(m, reachable)

	one := make(map[mdp.StateID]bool)
	posReach := make(map[mdp.StateID]bool)
	for id := range goals {
		one[id] = true
		posReach[id] = true
	}

	for changed := true; changed; {
		changed = false
		for id, sets := range supports {
			if !posReach[id] {
				for _, supp := range sets {
					if anyIn(supp, posReach) {
						posReach[id] = true
						changed = true
						break
					}
				}
			}
			if !one[id] {
				for _, supp := range sets {
					if allIn(supp, one) && len(supp) > 0 {
						one[id] = true
						changed = true
						break
					}
				}
			}
		}
	}

	result := make(map[mdp.StateID]Classification, len(reachable))
	for _, id := range reachable {
		switch {
		case goals[id] || one[id]:
			result[id] = One
		case deadTerminals[id]:
			result[id] = Dead
		case posReach[id]:
			result[id] = Maybe
		default:
			result[id] = Dead
		}
	}
	return result
}

func anyIn(ids []mdp.StateID, set map[mdp.StateID]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}

func allIn(ids []mdp.StateID, set map[mdp.StateID]bool) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}
