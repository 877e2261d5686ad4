// Package picker implements tie-breaking among greedy actions.
//
// Grounded on PolicyGreedy/PolicyEpsilonGreedy
// (assignment2/ex0/mdp/policy_greedy.go, PolicyEpsilonGreedy.go) as the
// selection pattern, extended to four named variants.
package picker

import "probplan/internal/mdp"

// Candidate is one action attaining (within tolerance) the Bellman optimum,
// carrying enough information for every picker variant to choose among
// candidates without calling back into the MDP.
type Candidate[A comparable] struct {
	Action A
	Q      float64
	OpID   mdp.OperatorID
	LowerQ float64 // for ValueGap, the lower-bound Q of this action
	UpperQ float64 // for ValueGap, the upper-bound Q of this action
}

// Picker breaks ties among the greedy candidates of one Bellman update,
// optionally informed by the previously stored action.
type Picker[A comparable] interface {
	Pick(candidates []Candidate[A], previous A, hadPrevious bool) A
	Name() string
}

// Arbitrary always returns the first enumerated candidate.
type Arbitrary[A comparable] struct{}

func (Arbitrary[A]) Name() string { return "arbitrary" }

func (Arbitrary[A]) Pick(candidates []Candidate[A], previous A, hadPrevious bool) A {
	return candidates[0].Action
}

// Stable retains the previous greedy action if it is still among the
// candidates, otherwise falls back to Arbitrary's first-enumerated action:
// retain previous if still greedy, else arbitrary first.
type Stable[A comparable] struct{}

func (Stable[A]) Name() string { return "stable" }

func (Stable[A]) Pick(candidates []Candidate[A], previous A, hadPrevious bool) A {
	if hadPrevious {
		for _, c := range candidates {
			if c.Action == previous {
				return c.Action
			}
		}
	}
	return candidates[0].Action
}

// OperatorID picks the candidate with the lowest underlying operator id.
type OperatorID[A comparable] struct{}

func (OperatorID[A]) Name() string { return "operator-id" }

func (OperatorID[A]) Pick(candidates []Candidate[A], previous A, hadPrevious bool) A {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.OpID < best.OpID {
			best = c
		}
	}
	return best.Action
}

// ValueGap picks the candidate whose successor distribution has the
// largest weighted gap between lower and upper value bounds — only
// meaningful in the interval regime.
type ValueGap[A comparable] struct {
	// Widest, if true, picks the largest gap (explore); if false, the
	// smallest (converge).
	Widest bool
}

func (ValueGap[A]) Name() string { return "value-gap" }

func (v ValueGap[A]) Pick(candidates []Candidate[A], previous A, hadPrevious bool) A {
	best := candidates[0]
	bestGap := best.UpperQ - best.LowerQ
	for _, c := range candidates[1:] {
		gap := c.UpperQ - c.LowerQ
		if (v.Widest && gap > bestGap) || (!v.Widest && gap < bestGap) {
			best = c
			bestGap = gap
		}
	}
	return best.Action
}

// Kind names the picker variants for config/registry lookup.
type Kind string

const (
	KindArbitrary  Kind = "arbitrary"
	KindStable     Kind = "stable"
	KindOperatorID Kind = "operator-id"
	KindValueGap   Kind = "value-gap"
)

// Registry hands out shared Picker instances by Kind: callers receive
// shared instances rather than constructing their own.
func Registry[A comparable](kind Kind) Picker[A] {
	switch kind {
	case KindStable:
		return Stable[A]{}
	case KindOperatorID:
		return OperatorID[A]{}
	case KindValueGap:
		return ValueGap[A]{Widest: false}
	default:
		return Arbitrary[A]{}
	}
}
