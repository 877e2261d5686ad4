// A transparent quotient MDP presenting collapsed end-components as
// single states to every solver component.
//
// Grounded on the delegation style of StochasticWindyGridWorld
// implements TransitionFunction/RewardFunction by delegating to its own
// fields (assignment2/ex0/gridworld.go) — generalized here so Quotient
// implements mdp.MDP[S, QuotientAction[A]] exactly like a base MDP
// implements mdp.MDP[S, A], so the Bellman backup and every outer search
// algorithm never need to know they are looking at a collapsed graph.
package ec

import (
	"probplan/internal/mdp"
	"probplan/internal/pdf"
)

// QuotientAction wraps a base action with the member state it is actually
// applicable from — necessary because a class's action set is the union of
// several members' outer actions, and the same base action value could in
// principle be reused by more than one member.
type QuotientAction[A comparable] struct {
	Member mdp.StateID
	Action A
}

// Underlying returns the wrapped base action, for callers that must unwrap a
// quotient action before presenting or costing it against the base MDP.
func (qa QuotientAction[A]) Underlying() A { return qa.Action }

// Quotient wraps a base MDP and an evolving partition into equivalence
// classes. Representative ids are the underlying base StateID of one
// chosen member per class; non-collapsed states pass through unchanged.
type Quotient[S any, A comparable] struct {
	Base    mdp.MDP[S, A]
	repOf   map[mdp.StateID]mdp.StateID
	members map[mdp.StateID][]mdp.StateID
}

// NewQuotient wraps base with an initially-empty partition (every state is
// its own trivial class).
func NewQuotient[S any, A comparable](base mdp.MDP[S, A]) *Quotient[S, A] {
	return &Quotient[S, A]{
		Base:    base,
		repOf:   make(map[mdp.StateID]mdp.StateID),
		members: make(map[mdp.StateID][]mdp.StateID),
	}
}

// Collapse merges newMembers into one class, choosing newMembers[0] as the
// representative. If any of newMembers is already the representative of an
// existing class, that class's members are folded in too — the incremental
// growth FRET's repeated collapsing needs.
func (q *Quotient[S, A]) Collapse(newMembers []mdp.StateID) mdp.StateID {
	if len(newMembers) == 0 {
		return mdp.Undefined
	}
	rep := newMembers[0]
	flat := make(map[mdp.StateID]bool)
	for _, m := range newMembers {
		flat[m] = true
		if sub, ok := q.members[m]; ok {
			for _, s := range sub {
				flat[s] = true
			}
			delete(q.members, m)
		}
	}
	members := make([]mdp.StateID, 0, len(flat))
	for m := range flat {
		members = append(members, m)
		q.repOf[m] = rep
	}
	q.members[rep] = members
	return rep
}

// Rep resolves id to its class representative (itself, if not collapsed).
func (q *Quotient[S, A]) Rep(id mdp.StateID) mdp.StateID {
	if r, ok := q.repOf[id]; ok {
		return r
	}
	return id
}

// IsCollapsed reports whether id is the representative of a non-trivial
// class.
func (q *Quotient[S, A]) IsCollapsed(id mdp.StateID) bool {
	_, ok := q.members[id]
	return ok
}

// Members returns the underlying member states of id's class, or nil if id
// is a trivial (non-collapsed) state.
func (q *Quotient[S, A]) Members(id mdp.StateID) []mdp.StateID {
	return q.members[id]
}

func (q *Quotient[S, A]) StateID(state S) mdp.StateID {
	return q.Rep(q.Base.StateID(state))
}

func (q *Quotient[S, A]) State(id mdp.StateID) S {
	return q.Base.State(id)
}

func (q *Quotient[S, A]) ApplicableActions(id mdp.StateID) []QuotientAction[A] {
	members, ok := q.members[id]
	if !ok {
		var out []QuotientAction[A]
		for _, a := range q.Base.ApplicableActions(id) {
			out = append(out, QuotientAction[A]{Member: id, Action: a})
		}
		return out
	}
	memberSet := make(map[mdp.StateID]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	var out []QuotientAction[A]
	for _, m := range members {
		for _, a := range q.Base.ApplicableActions(m) {
			dist := q.Base.Transition(m, a)
			staysInside := true
			for _, e := range dist.Entries() {
				if e.Prob > 0 && !memberSet[e.Value] {
					staysInside = false
					break
				}
			}
			if !staysInside {
				out = append(out, QuotientAction[A]{Member: m, Action: a})
			}
		}
	}
	return out
}

func (q *Quotient[S, A]) Transition(id mdp.StateID, a QuotientAction[A]) *pdf.Distribution[mdp.StateID] {
	base := q.Base.Transition(a.Member, a.Action)
	mapped := pdf.New[mdp.StateID]()
	for _, e := range base.Entries() {
		mapped.Add(q.Rep(e.Value), e.Prob)
	}
	return mapped
}

func (q *Quotient[S, A]) AllTransitions(id mdp.StateID) []mdp.Transition[QuotientAction[A]] {
	actions := q.ApplicableActions(id)
	out := make([]mdp.Transition[QuotientAction[A]], 0, len(actions))
	for _, a := range actions {
		out = append(out, mdp.Transition[QuotientAction[A]]{Action: a, Dist: q.Transition(id, a)})
	}
	return out
}

func (q *Quotient[S, A]) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	return q.Base.TerminationInfo(id)
}

func (q *Quotient[S, A]) ActionCost(id mdp.StateID, a QuotientAction[A]) float64 {
	return q.Base.ActionCost(a.Member, a.Action)
}

func (q *Quotient[S, A]) OperatorID(a QuotientAction[A]) mdp.OperatorID {
	return q.Base.OperatorID(a.Action)
}
