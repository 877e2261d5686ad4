// HDP: Hansen & Zilberstein's depth-first
// dynamic-programming search. A single depth-first walk of the greedy
// policy graph from root expands each tip the moment it is first reached,
// and uses the same index/lowlink/on-stack bookkeeping as internal/graph's
// Tarjan SCC (other_examples/wyfcoding-pkg__tarjan_scc.go) to find, on the
// way back out of the recursion, exactly the strongly connected fragment a
// newly-expanded state belongs to. That fragment is backed up to
// convergence and marked solved before the walk continues past it, so a
// solved state is never re-expanded or re-backed-up by a later part of the
// same walk.
package engine

import (
	"context"

	"probplan/internal/mdp"
	"probplan/internal/search"
)

// HDPResult reports how much work one run did.
type HDPResult struct {
	Expansions int
	Backups    int
}

// HDP runs a single depth-first pass from root, solving components as they
// close, and returns once root itself is solved (or the walk completes
// without a cycle back to it). Returns ErrTimeout if ctx expires mid-walk;
// the result still reports whatever work had completed.
func HDP[S any, A comparable](ctx context.Context, base *search.Base[S, A], root mdp.StateID) (HDPResult, error) {
	run := &hdpRun[S, A]{
		base:    base,
		solved:  make(map[mdp.StateID]bool),
		index:   make(map[mdp.StateID]int),
		lowlink: make(map[mdp.StateID]int),
		onStack: make(map[mdp.StateID]bool),
	}
	run.walk(ctx, root)
	if run.timedOut {
		base.Stats.TimedOut = true
		return run.res, ErrTimeout
	}
	return run.res, nil
}

type hdpFrame struct {
	v        mdp.StateID
	children []mdp.StateID
	pos      int
}

type hdpRun[S any, A comparable] struct {
	base     *search.Base[S, A]
	solved   map[mdp.StateID]bool
	index    map[mdp.StateID]int
	lowlink  map[mdp.StateID]int
	onStack  map[mdp.StateID]bool
	onTrail  []mdp.StateID
	next     int
	res      HDPResult
	timedOut bool
}

func (h *hdpRun[S, A]) walk(ctx context.Context, start mdp.StateID) {
	var stack []*hdpFrame
	push := func(v mdp.StateID) {
		h.expand(v)
		h.index[v] = h.next
		h.lowlink[v] = h.next
		h.next++
		h.onTrail = append(h.onTrail, v)
		h.onStack[v] = true
		stack = append(stack, &hdpFrame{v: v, children: h.children(v)})
	}
	push(start)

	for len(stack) > 0 {
		if expired(ctx) {
			h.timedOut = true
			return
		}
		f := stack[len(stack)-1]
		advanced := false
		for f.pos < len(f.children) {
			w := f.children[f.pos]
			f.pos++
			if h.solved[w] {
				continue
			}
			if _, seen := h.index[w]; !seen {
				push(w)
				advanced = true
				break
			} else if h.onStack[w] {
				if h.index[w] < h.lowlink[f.v] {
					h.lowlink[f.v] = h.index[w]
				}
			}
		}
		if advanced {
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if h.lowlink[f.v] < h.lowlink[parent.v] {
				h.lowlink[parent.v] = h.lowlink[f.v]
			}
		}
		if h.lowlink[f.v] == h.index[f.v] {
			var comp []mdp.StateID
			for {
				w := h.onTrail[len(h.onTrail)-1]
				h.onTrail = h.onTrail[:len(h.onTrail)-1]
				h.onStack[w] = false
				comp = append(comp, w)
				if w == f.v {
					break
				}
			}
			if h.converge(ctx, comp) {
				h.timedOut = true
				return
			}
		}
	}
}

// expand forces id through a Bellman backup if it hasn't been given a
// greedy action yet, the on-the-fly expansion HDP performs during its
// depth-first walk rather than in a separate phase.
func (h *hdpRun[S, A]) expand(id mdp.StateID) {
	if _, has := h.base.GetGreedyAction(id); has || h.base.IsTerminal(id) {
		return
	}
	h.base.BellmanPolicyUpdate(id)
	h.res.Expansions++
}

func (h *hdpRun[S, A]) children(id mdp.StateID) []mdp.StateID {
	if h.base.IsTerminal(id) {
		return nil
	}
	action, has := h.base.GetGreedyAction(id)
	if !has {
		return nil
	}
	dist := h.base.MDP.Transition(id, action)
	seen := make(map[mdp.StateID]bool)
	var out []mdp.StateID
	for _, e := range dist.Entries() {
		if e.Prob > 0 && !seen[e.Value] {
			seen[e.Value] = true
			out = append(out, e.Value)
		}
	}
	return out
}

// converge backs comp up to a fixed point and marks every member solved.
// Cyclic fragments need this in-place iteration because a single backup
// per state isn't enough when successors inside the same component haven't
// settled yet. Returns true if ctx expired before reaching a fixed point.
func (h *hdpRun[S, A]) converge(ctx context.Context, comp []mdp.StateID) bool {
	for {
		if expired(ctx) {
			return true
		}
		changed := false
		for _, id := range comp {
			if expired(ctx) {
				return true
			}
			r := h.base.BellmanPolicyUpdate(id)
			h.res.Backups++
			if r.ValueChanged || r.PolicyChanged {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	for _, id := range comp {
		h.solved[id] = true
	}
	return false
}
