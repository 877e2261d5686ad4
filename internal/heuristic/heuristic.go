// Package heuristic implements the initial value estimate supplied to
// a state the first time the search base touches it.
//
// Grounded on the StateValueEstimator interface
// (assignment2/ex0/mdp/agent.go, "Estimate(State) float64").
package heuristic

import (
	"probplan/internal/mdp"
	"probplan/internal/value"
)

// Estimate is the result of evaluating a state: an admissible initial bound
// and whether the state is terminal (in which case Value is the true
// termination value and the caller should mark the state DeadEnd/Goal
// immediately rather than OnFringe).
type Estimate struct {
	IsTerminal bool
	Value      float64
}

// Evaluator maps a state to an initial value estimate, per regime. SSP
// requires an admissible (<= optimal) lower bound; MaxProb requires an
// admissible (>= optimal) upper bound.
type Evaluator[S any, A comparable] interface {
	Evaluate(m mdp.MDP[S, A], id mdp.StateID) Estimate
}

// Blind returns 0 (SSP) or 1 (MaxProb) for every non-terminal state — always
// admissible, the simplest possible evaluator.
type Blind[S any, A comparable] struct {
	Regime value.Regime
}

func (b Blind[S, A]) Evaluate(m mdp.MDP[S, A], id mdp.StateID) Estimate {
	v := 0.0
	if b.Regime == value.MaxProb {
		v = 1.0
	}
	return Estimate{IsTerminal: false, Value: v}
}

// ClassicalHeuristic is the contract a deterministic-planning heuristic must
// satisfy to back DeadEndPruning: an admissible cost estimate, and a
// declaration of unsolvability.
type ClassicalHeuristic[S any, A comparable] interface {
	Estimate(m mdp.MDP[S, A], id mdp.StateID) float64
	IsDeadEnd(m mdp.MDP[S, A], id mdp.StateID) bool
}

// DeadEndPruning wraps a classical deterministic heuristic: it declares a
// state terminal (dead) iff the wrapped heuristic says the state is a
// dead-end, and otherwise passes the classical estimate through as the SSP
// lower bound.
type DeadEndPruning[S any, A comparable] struct {
	Inner           ClassicalHeuristic[S, A]
	TerminationCost float64
}

func (d DeadEndPruning[S, A]) Evaluate(m mdp.MDP[S, A], id mdp.StateID) Estimate {
	if d.Inner.IsDeadEnd(m, id) {
		return Estimate{IsTerminal: true, Value: d.TerminationCost}
	}
	return Estimate{IsTerminal: false, Value: d.Inner.Estimate(m, id)}
}
