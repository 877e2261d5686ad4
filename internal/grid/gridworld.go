// Package grid is a demonstration MDP implementing internal/mdp.MDP, used
// by cmd/probplan's solve and explain commands; the engine tests use their
// own small MDP doubles instead.
//
// Grounded on StochasticWindyGridWorld
// (assignment2/ex0/gridworld.go): same stochastic-wind-drift transition
// shape (a deterministic move shifted by one of three possible wind gusts),
// same aurora-colored state/value printing idiom (carried into
// internal/report). Extended from a fixed-reward, discounted-return episode
// task into an undiscounted cost-to-goal/reach-probability task: a single
// designated goal cell, a set of hazard cells that are dead ends, and a
// per-step action cost instead of a constant -1 reward.
package grid

import (
	"fmt"

	"probplan/internal/mdp"
	"probplan/internal/pdf"
)

// Cell is a grid coordinate; the underlying state type S of this package's
// MDP.
type Cell struct {
	Row, Col int
}

// Action is one compass move.
type Action string

const (
	Up    Action = "up"
	Down  Action = "down"
	Left  Action = "left"
	Right Action = "right"
)

var allActions = []Action{Up, Down, Left, Right}

// World is a stochastic windy gridworld: moving shifts a cell deterministically,
// then wind drifts it further up by the column's base wind plus 0, 1, or 2
// rows (a BaseWind/StochasticWind0-2 triple), clipped to the board.
type World struct {
	Rows, Cols int
	Wind       []int // per-column base wind strength, len == Cols
	GustProbs  [3]float64

	Goal    Cell
	Hazards map[Cell]bool

	StepCost   float64
	HazardCost float64 // SSP non-goal termination cost at a hazard

	reg *mdp.Registry[Cell]
}

// New builds a World with its own state registry. rows/cols must be
// positive; wind must have length cols.
func New(rows, cols int, wind []int, gustProbs [3]float64, goal Cell, hazards []Cell, stepCost, hazardCost float64) *World {
	hz := make(map[Cell]bool, len(hazards))
	for _, h := range hazards {
		hz[h] = true
	}
	return &World{
		Rows: rows, Cols: cols, Wind: wind, GustProbs: gustProbs,
		Goal: goal, Hazards: hz,
		StepCost: stepCost, HazardCost: hazardCost,
		reg: mdp.NewRegistry[Cell](),
	}
}

func (w *World) StateID(c Cell) mdp.StateID { return w.reg.StateID(c) }
func (w *World) State(id mdp.StateID) Cell  { return w.reg.State(id) }

func (w *World) ApplicableActions(id mdp.StateID) []Action {
	c := w.reg.State(id)
	if c == w.Goal || w.Hazards[c] {
		return nil
	}
	return allActions
}

func (w *World) Transition(id mdp.StateID, a Action) *pdf.Distribution[mdp.StateID] {
	c := w.reg.State(id)
	shifted := w.shift(c, a)

	dist := pdf.New[mdp.StateID]()
	for gust := 0; gust < 3; gust++ {
		p := w.GustProbs[gust]
		if p <= 0 {
			continue
		}
		drifted := Cell{
			Row: w.clipRow(shifted.Row - (w.Wind[shifted.Col] + gust)),
			Col: shifted.Col,
		}
		dist.Add(w.reg.StateID(drifted), p)
	}
	// GustProbs is configured by the caller and clipping can merge distinct
	// gusts onto the same cell, so the built distribution is normalized
	// rather than trusted to already sum to 1.
	dist.Normalize()
	return dist
}

func (w *World) AllTransitions(id mdp.StateID) []mdp.Transition[Action] {
	actions := w.ApplicableActions(id)
	out := make([]mdp.Transition[Action], 0, len(actions))
	for _, a := range actions {
		out = append(out, mdp.Transition[Action]{Action: a, Dist: w.Transition(id, a)})
	}
	return out
}

func (w *World) TerminationInfo(id mdp.StateID) mdp.TerminationInfo {
	c := w.reg.State(id)
	switch {
	case c == w.Goal:
		return mdp.TerminationInfo{IsGoal: true, IsTerminal: true}
	case w.Hazards[c]:
		return mdp.TerminationInfo{IsTerminal: true, NonGoalCost: w.HazardCost}
	default:
		return mdp.TerminationInfo{}
	}
}

func (w *World) ActionCost(id mdp.StateID, a Action) float64 { return w.StepCost }

// OperatorID numbers actions by their position in the fixed allActions order
// (up, down, left, right),
// independent of state — every cell shares the same four ground operators.
func (w *World) OperatorID(a Action) mdp.OperatorID {
	for i, c := range allActions {
		if c == a {
			return mdp.OperatorID(i)
		}
	}
	return mdp.OperatorID(-1)
}

func (w *World) shift(c Cell, a Action) Cell {
	r, col := c.Row, c.Col
	switch a {
	case Up:
		r--
	case Down:
		r++
	case Left:
		col--
	case Right:
		col++
	}
	return Cell{Row: w.clipRow(r), Col: w.clipCol(col)}
}

func (w *World) clipRow(r int) int {
	if r < 0 {
		return 0
	}
	if r > w.Rows-1 {
		return w.Rows - 1
	}
	return r
}

func (w *World) clipCol(c int) int {
	if c < 0 {
		return 0
	}
	if c > w.Cols-1 {
		return w.Cols - 1
	}
	return c
}

// Pretty formats c the way a report/policy printer wants it, e.g. "(2,3)".
func (c Cell) Pretty() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }
