// Package graph implements Tarjan's strongly-connected-components
// algorithm over a lazily-expanded directed graph of mdp.StateID nodes,
// shared by topological value iteration and end-component decomposition.
//
// Grounded directly on other_examples/wyfcoding-pkg__tarjan_scc.go's
// index/lowlink/on-stack bookkeeping, adapted from a precomputed
// int-indexed adjacency list to a Neighbors callback over mdp.StateID, and
// from a recursive strongConnect to an explicit stack to avoid overflowing
// the Go call stack on the deep reachable fragments a grounded planning
// task can produce.
package graph

import "probplan/internal/mdp"

// Neighbors returns the out-edges of id in the graph being decomposed
// (e.g. every successor reachable via any applicable action).
type Neighbors func(id mdp.StateID) []mdp.StateID

// SCC computes the strongly connected components reachable from roots,
// in reverse topological order (the order Tarjan naturally produces: a
// component is only closed once every node it reaches has already been
// closed, so earlier-finished components are "later" in the DAG of SCCs
// and index 0 of the result holds a sink component, the one a
// reverse-topological consumer like topological VI visits first).
func SCC(roots []mdp.StateID, neighbors Neighbors) [][]mdp.StateID {
	t := &tarjan{
		neighbors: neighbors,
		index:     make(map[mdp.StateID]int),
		lowlink:   make(map[mdp.StateID]int),
		onStack:   make(map[mdp.StateID]bool),
		nextIndex: 0,
	}
	for _, r := range roots {
		if _, seen := t.index[r]; !seen {
			t.strongConnect(r)
		}
	}
	return t.sccs
}

type tarjan struct {
	neighbors Neighbors
	index     map[mdp.StateID]int
	lowlink   map[mdp.StateID]int
	onStack   map[mdp.StateID]bool
	stack     []mdp.StateID
	nextIndex int
	sccs      [][]mdp.StateID
}

// frame is one level of the explicit DFS stack, tracking how far through
// v's neighbor list the outer loop has progressed so the iterative version
// can resume exactly where a recursive strongConnect(w) call would have
// returned to.
type frame struct {
	v        mdp.StateID
	children []mdp.StateID
	pos      int
}

func (t *tarjan) strongConnect(start mdp.StateID) {
	var stack []*frame
	push := func(v mdp.StateID) {
		t.index[v] = t.nextIndex
		t.lowlink[v] = t.nextIndex
		t.nextIndex++
		t.stack = append(t.stack, v)
		t.onStack[v] = true
		stack = append(stack, &frame{v: v, children: t.neighbors(v)})
	}
	push(start)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		advanced := false
		for f.pos < len(f.children) {
			w := f.children[f.pos]
			f.pos++
			if _, seen := t.index[w]; !seen {
				push(w)
				advanced = true
				break
			} else if t.onStack[w] {
				if t.index[w] < t.lowlink[f.v] {
					t.lowlink[f.v] = t.index[w]
				}
			}
		}
		if advanced {
			continue
		}

		// All of f.v's children are processed; close it out.
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if t.lowlink[f.v] < t.lowlink[parent.v] {
				t.lowlink[parent.v] = t.lowlink[f.v]
			}
		}
		if t.lowlink[f.v] == t.index[f.v] {
			var scc []mdp.StateID
			for {
				w := t.stack[len(t.stack)-1]
				t.stack = t.stack[:len(t.stack)-1]
				t.onStack[w] = false
				scc = append(scc, w)
				if w == f.v {
					break
				}
			}
			t.sccs = append(t.sccs, scc)
		}
	}
}
