// Package openlist implements the frontier the AO*-family engines draw
// expansion candidates from.
//
// Grounded on Loop/GenerateEpisode sequencing
// (assignment2/ex0/mdp/loop.go), generalized into an explicit worklist: the
// original gridworld agent always walked a single sampled trajectory, but
// the AO*-family engines need an explicit frontier of pending states.
package openlist

import (
	"container/heap"

	"probplan/internal/mdp"
)

// OpenList is a FIFO/LIFO/priority queue over state ids.
type OpenList interface {
	Push(id mdp.StateID, priority float64)
	Pop() (mdp.StateID, bool)
	Size() int
	Empty() bool
	Clear()
}

// FIFO pushes to the back and pops from the front.
type FIFO struct {
	items []mdp.StateID
}

func NewFIFO() *FIFO { return &FIFO{} }

func (f *FIFO) Push(id mdp.StateID, _ float64) { f.items = append(f.items, id) }

func (f *FIFO) Pop() (mdp.StateID, bool) {
	if len(f.items) == 0 {
		return mdp.Undefined, false
	}
	id := f.items[0]
	f.items = f.items[1:]
	return id, true
}

func (f *FIFO) Size() int    { return len(f.items) }
func (f *FIFO) Empty() bool  { return len(f.items) == 0 }
func (f *FIFO) Clear()       { f.items = nil }

// LIFO pushes and pops from the same end (a stack), matching a depth-first
// expansion order.
type LIFO struct {
	items []mdp.StateID
}

func NewLIFO() *LIFO { return &LIFO{} }

func (l *LIFO) Push(id mdp.StateID, _ float64) { l.items = append(l.items, id) }

func (l *LIFO) Pop() (mdp.StateID, bool) {
	n := len(l.items)
	if n == 0 {
		return mdp.Undefined, false
	}
	id := l.items[n-1]
	l.items = l.items[:n-1]
	return id, true
}

func (l *LIFO) Size() int   { return len(l.items) }
func (l *LIFO) Empty() bool { return len(l.items) == 0 }
func (l *LIFO) Clear()      { l.items = nil }

type pqItem struct {
	id       mdp.StateID
	priority float64
}

type pqHeap []pqItem

func (h pqHeap) Len() int            { return len(h) }
func (h pqHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h pqHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pqHeap) Push(x interface{}) { *h = append(*h, x.(pqItem)) }
func (h *pqHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Priority is a binary-heap open list keyed by a caller-supplied scalar:
// AO* uses update order, PUCS-style flaw finding uses path probability.
type Priority struct {
	h pqHeap
}

func NewPriority() *Priority {
	return &Priority{}
}

func (p *Priority) Push(id mdp.StateID, priority float64) {
	heap.Push(&p.h, pqItem{id: id, priority: priority})
}

func (p *Priority) Pop() (mdp.StateID, bool) {
	if p.h.Len() == 0 {
		return mdp.Undefined, false
	}
	item := heap.Pop(&p.h).(pqItem)
	return item.id, true
}

func (p *Priority) Size() int   { return p.h.Len() }
func (p *Priority) Empty() bool { return p.h.Len() == 0 }
func (p *Priority) Clear()      { p.h = nil }

// Kind names the open-list variants for config/registry lookup.
type Kind string

const (
	KindFIFO     Kind = "fifo"
	KindLIFO     Kind = "lifo"
	KindPriority Kind = "priority"
)

// New constructs an empty OpenList of the given kind.
func New(kind Kind) OpenList {
	switch kind {
	case KindLIFO:
		return NewLIFO()
	case KindPriority:
		return NewPriority()
	default:
		return NewFIFO()
	}
}
