// Package engine implements the outer search algorithms that drive
// internal/search.Base over an implicitly-generated state space: the
// exhaustive/LAO*/HDP family of AO*-style heuristic search, topological and
// interval value iteration, and the FRET wrapper.
//
// Grounded on GenerateEpisode/Loop pairing
// (assignment2/ex0/mdp/agent.go): GenerateEpisode walked one rollout
// applying the current greedy policy and returned the states it touched;
// Loop repeated that until a stopping criterion. The helpers here
// generalize "one rollout of the greedy policy" into "the full greedy
// policy graph from a root," shared by every AO*-family engine.
package engine

import (
	"context"
	"errors"

	"probplan/internal/mdp"
	"probplan/internal/openlist"
	"probplan/internal/search"
	"probplan/internal/store"
)

// ErrTimeout is returned by an engine entry point when ctx's deadline
// elapses before a fixed point is reached. Whatever bounds and statistics
// had accumulated up to that point are left in place — the caller gets a
// partial, unsound result rather than nothing.
var ErrTimeout = errors.New("engine: time limit exceeded")

// expired reports whether ctx has already been cancelled or its deadline
// has passed, without blocking.
func expired(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// greedyReachable walks the greedy policy graph from root using ol as the
// frontier: states with a stored greedy action are followed through
// their action's support; non-terminal states without one (never
// expanded) are reported as tips, in the order ol produced them, while
// goal and dead-end states are visited but never reported as tips. parents
// records one predecessor per state, for tracing an ancestor chain back to
// root. ol is cleared before use and left empty on return. timedOut reports
// whether ctx expired before the walk exhausted the frontier, in which case
// visited/tips/parents hold only what had been discovered so far.
//
// Successor dedup for this one expansion pass is the mark/unmark bit on
// StateInfo, not a local set: every id marked during the walk is unmarked
// again before returning, so the bit is scratch space shared across passes.
// A state's solved bit is separate and persistent; a pop that finds it
// already solved discards the state outright rather than revisiting it.
// Each newly discovered id is stamped with its discovery order and pushed
// at that priority, so a Priority open list walks states in the order AO*
// update_order prescribes; FIFO/LIFO ignore the priority argument.
func greedyReachable[S any, A comparable](ctx context.Context, base *search.Base[S, A], root mdp.StateID, ol openlist.OpenList) (visited []mdp.StateID, tips []mdp.StateID, parents map[mdp.StateID]mdp.StateID, timedOut bool) {
	ol.Clear()
	order := 0
	discover := func(id mdp.StateID) {
		info := base.Store.Get(id)
		info.Mark()
		info.SetUpdateOrder(order)
		order++
		ol.Push(id, float64(info.UpdateOrder()))
	}

	marked := []mdp.StateID{root}
	discover(root)
	defer func() {
		for _, id := range marked {
			base.Store.Get(id).Unmark()
		}
	}()

	parents = make(map[mdp.StateID]mdp.StateID)
	for {
		if expired(ctx) {
			timedOut = true
			return
		}
		id, ok := ol.Pop()
		if !ok {
			break
		}
		if base.Store.Get(id).Solved() {
			continue
		}
		visited = append(visited, id)
		if base.IsTerminal(id) {
			continue
		}
		action, has := base.GetGreedyAction(id)
		if !has {
			tips = append(tips, id)
			continue
		}
		dist := base.MDP.Transition(id, action)
		for _, e := range dist.Entries() {
			if e.Prob <= 0 {
				continue
			}
			succ := base.Store.Get(e.Value)
			if succ.Marked() {
				continue
			}
			parents[e.Value] = id
			marked = append(marked, e.Value)
			discover(e.Value)
		}
	}
	return
}

// markSolved classifies start solved once it is terminal, or every
// successor of its current greedy action is itself solved, then propagates
// the same check up start's ancestor chain via parents, stopping at the
// first ancestor that does not yet qualify — the AO*-family solved
// propagation, run after a tip's backup has settled. Returns how many
// states were newly solved and, of those, how many had no live successor.
func markSolved[S any, A comparable](base *search.Base[S, A], start, root mdp.StateID, parents map[mdp.StateID]mdp.StateID) (newlySolved, newlyDead int) {
	id := start
	for {
		info := base.Store.Get(id)
		if info.Solved() {
			break
		}
		if base.IsTerminal(id) {
			info.SetUnsolved(0)
			info.SetAlive(base.Store.Get(id).Status == store.Goal)
		} else {
			action, has := base.GetGreedyAction(id)
			if !has {
				break
			}
			unsolved, liveSucc := 0, false
			for _, e := range base.MDP.Transition(id, action).Entries() {
				if e.Prob <= 0 {
					continue
				}
				succ := base.Store.Get(e.Value)
				if !succ.Solved() {
					unsolved++
					continue
				}
				if succ.Alive() {
					liveSucc = true
				}
			}
			info.SetUnsolved(unsolved)
			if unsolved > 0 {
				break
			}
			info.SetAlive(liveSucc)
		}
		info.SetSolved(true)
		newlySolved++
		if !info.Alive() {
			newlyDead++
		}
		if id == root {
			break
		}
		parent, ok := parents[id]
		if !ok {
			break
		}
		id = parent
	}
	return
}

// ancestorChain traces parents from tip back to root, inclusive of both
// ends.
func ancestorChain(tip mdp.StateID, parents map[mdp.StateID]mdp.StateID, root mdp.StateID) []mdp.StateID {
	var chain []mdp.StateID
	cur := tip
	for {
		chain = append(chain, cur)
		if cur == root {
			break
		}
		p, ok := parents[cur]
		if !ok {
			break
		}
		cur = p
	}
	return chain
}

// backupSweep runs repeated Bellman backups over ids (in reverse order,
// approximating a backward sweep from tips toward root) until none of them
// change, folding stats into res's Backups field via countBackup. timedOut
// reports whether ctx expired mid-sweep, in which case anyChanged reflects
// only the backups that ran before the deadline.
func backupSweep[S any, A comparable](ctx context.Context, base *search.Base[S, A], ids []mdp.StateID, countBackup func()) (anyChanged, timedOut bool) {
	for {
		if expired(ctx) {
			return anyChanged, true
		}
		changedThis := false
		for i := len(ids) - 1; i >= 0; i-- {
			if expired(ctx) {
				return anyChanged, true
			}
			r := base.BellmanPolicyUpdate(ids[i])
			countBackup()
			if r.ValueChanged || r.PolicyChanged {
				changedThis = true
				anyChanged = true
			}
		}
		if !changedThis {
			break
		}
	}
	return anyChanged, false
}
