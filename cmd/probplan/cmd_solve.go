// The solve subcommand: drive one engine over one task and report the
// result.
//
// Grounded on main.go task setup (assignment2/ex0/main.go:
// construct a StochasticWindyGridWorld, run an agent loop, print the
// result) generalized to dispatch across every engine kind cmd/probplan
// supports, instead of hardcoding one algorithm.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"probplan/internal/chart"
	"probplan/internal/config"
	"probplan/internal/ec"
	"probplan/internal/engine"
	"probplan/internal/graph"
	"probplan/internal/grid"
	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/openlist"
	"probplan/internal/picker"
	"probplan/internal/report"
	"probplan/internal/sampler"
	"probplan/internal/search"
	"probplan/internal/value"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the demonstration gridworld task with the configured engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve()
	},
}

// buildWorld constructs the demonstration task every solve/explain
// invocation shares: a 5x5 stochastic windy gridworld with one goal and
// one hazard, sized to show every engine's behavior without a long solve.
func buildWorld() *grid.World {
	return grid.New(
		5, 5,
		[]int{0, 0, 1, 1, 0},
		[3]float64{0.1, 0.8, 0.1},
		grid.Cell{Row: 0, Col: 4},
		[]grid.Cell{{Row: 2, Col: 2}},
		1.0,
		cfg.NonGoalCost,
	)
}

func startCell() grid.Cell { return grid.Cell{Row: 4, Col: 0} }

func gridPretty(c grid.Cell) string { return c.Pretty() }

func gridActionName(a grid.Action) string { return string(a) }

func quotientActionName(qa ec.QuotientAction[grid.Action]) string { return string(qa.Action) }

// repAll maps each raw root id to its quotient class representative, since
// a root absorbed into a collapsed end-component must be addressed by its
// representative for every subsequent quotient-level lookup.
func repAll[S any, A comparable](quot *ec.Quotient[S, A], ids []mdp.StateID) []mdp.StateID {
	out := make([]mdp.StateID, len(ids))
	for i, id := range ids {
		out[i] = quot.Rep(id)
	}
	return out
}

func runSolve() error {
	w := buildWorld()
	start := w.StateID(startCell())
	roots := []mdp.StateID{start}

	pick := picker.Registry[grid.Action](picker.Kind(cfg.Picker))
	olKind := openlist.Kind(cfg.OpenList)
	regime := cfg.ValueRegime()
	h := heuristic.Blind[grid.Cell, grid.Action]{Regime: regime}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TimeLimit)
	defer cancel()

	switch config.EngineKind(cfg.Engine) {
	case config.EngineExhaustiveAOStar:
		base := search.New[grid.Cell, grid.Action](w, h, regime, cfg.Epsilon, true, false, pick, log)
		base.ReportInterval = cfg.ReportInterval
		base.Initialize()
		before := base.LookupBounds(start)
		res, err := engine.ExhaustiveAOStar(ctx, base, start, cfg.MaxIterations, olKind)
		base.Finalize()
		logSolved("aostar", err, "expansions", res.Expansions, "backups", res.Backups, "iterations", res.Iterations)
		return finish(base, roots, before, base.Stats.Backups, gridPretty, gridActionName)

	case config.EngineLAOStar:
		base := search.New[grid.Cell, grid.Action](w, h, regime, cfg.Epsilon, true, false, pick, log)
		base.ReportInterval = cfg.ReportInterval
		base.Initialize()
		before := base.LookupBounds(start)
		res, err := engine.LAOStar(ctx, base, start, cfg.MaxIterations, olKind)
		base.Finalize()
		logSolved("lao", err, "expansions", res.Expansions, "backups", res.Backups, "iterations", res.Iterations)
		return finish(base, roots, before, base.Stats.Backups, gridPretty, gridActionName)

	case config.EngineHDP:
		base := search.New[grid.Cell, grid.Action](w, h, regime, cfg.Epsilon, true, false, pick, log)
		base.ReportInterval = cfg.ReportInterval
		base.Initialize()
		before := base.LookupBounds(start)
		res, err := engine.HDP(ctx, base, start)
		base.Finalize()
		logSolved("hdp", err, "expansions", res.Expansions, "backups", res.Backups)
		return finish(base, roots, before, base.Stats.Backups, gridPretty, gridActionName)

	case config.EngineTVI:
		base := search.New[grid.Cell, grid.Action](w, h, regime, cfg.Epsilon, true, false, pick, log)
		base.ReportInterval = cfg.ReportInterval
		base.Initialize()
		before := base.LookupBounds(start)
		res, err := engine.TopologicalVI(ctx, base, roots)
		base.Finalize()
		logSolved("tvi", err, "components", res.Components, "backups", res.Backups)
		return finish(base, roots, before, base.Stats.Backups, gridPretty, gridActionName)

	case config.EngineIVI:
		qh := heuristic.Blind[grid.Cell, ec.QuotientAction[grid.Action]]{Regime: regime}
		quot, base, class, res, err := engine.IntervalIteration[grid.Cell, grid.Action](ctx, w, qh, roots, cfg.Epsilon, picker.Registry[ec.QuotientAction[grid.Action]](picker.Kind(cfg.Picker)), log, cfg.ReportInterval)
		qRoots := repAll(quot, roots)
		before := base.LookupBounds(qRoots[0])
		logSolved("ivi", err, "dead", res.Dead, "one", res.One, "maybe", res.Maybe, "collapsed", res.Collapsed, "backups", res.TVI.Backups)
		log.Debug("reachability", "classes", len(class))
		return finish(base, qRoots, before, base.Stats.Backups, gridPretty, quotientActionName)

	case config.EngineFRETV, config.EngineFRETPi:
		qh := heuristic.Blind[grid.Cell, ec.QuotientAction[grid.Action]]{Regime: regime}
		variant := cfg.FRETVariant()
		quot, base, res, err := engine.FRET[grid.Cell, grid.Action](ctx, w, qh, roots, cfg.Epsilon, picker.Registry[ec.QuotientAction[grid.Action]](picker.Kind(cfg.Picker)), log, variant, cfg.MaxIterations, olKind, cfg.ReportInterval)
		qRoots := repAll(quot, roots)
		before := base.LookupBounds(qRoots[0])
		logSolved(variant.String(), err, "rounds", res.Rounds, "traps_eliminated", res.TrapsEliminated, "backups", base.Stats.Backups)
		return finish(base, qRoots, before, base.Stats.Backups, gridPretty, quotientActionName)

	default:
		return fmt.Errorf("solve: unhandled engine %q", cfg.Engine)
	}
}

// logSolved reports a completed (possibly partial) solve. A non-nil err is
// always engine.ErrTimeout here — still logged as "solved" with its partial
// stats, per a timed-out solve surfacing what it has rather than nothing.
func logSolved(engineName string, err error, kv ...any) {
	args := append([]any{"engine", engineName}, kv...)
	if err != nil {
		args = append(args, "timeout", true)
	}
	log.Info("solved", args...)
}

// finish writes the policy file, an optional convergence chart and
// optional sampled trajectories for a completed solve. before is the
// root's bound prior to solving, used as the chart's first point; a full
// per-backup trace would need a hook inside each engine's backup loop,
// which isn't worth the added plumbing for a two-point convergence chart.
func finish[S any, A comparable](base *search.Base[S, A], roots []mdp.StateID, before value.Interval, totalBackups int, pretty func(S) string, actionName func(A) string) error {
	reachable, _ := graph.Reachable(base.MDP, roots)

	f, err := os.Create(cfg.PolicyOutputPath)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	unitCost := cfg.ValueRegime() == value.SSP
	report.WritePolicy(f, base, reachable, pretty, actionName, unitCost)
	if cerr := f.Close(); cerr != nil {
		return fmt.Errorf("solve: %w", cerr)
	}

	if cfg.ChartOutputPath != "" {
		after := base.LookupBounds(roots[0])
		points := []chart.Point{
			{Backups: 0, Lower: before.Lower, Upper: before.Upper},
			{Backups: totalBackups, Lower: after.Lower, Upper: after.Upper},
		}
		if err := chart.WriteConvergence(cfg.ChartOutputPath, points); err != nil {
			return fmt.Errorf("solve: %w", err)
		}
	}

	if cfg.TrajectoryCount > 0 {
		samp := sampler.Registry(sampler.Kind(cfg.Sampler))
		rng := rand.New(rand.NewSource(cfg.Seed))
		trajectories := make([]report.Trajectory, cfg.TrajectoryCount)
		for i := range trajectories {
			trajectories[i] = sampleTrajectory(base, roots[0], cfg.TrajectoryLength, samp, rng, pretty, actionName)
		}
		if err := report.WriteTrajectories("trajectories", trajectories, cfg.TrajectoryLength); err != nil {
			return fmt.Errorf("solve: %w", err)
		}
	}

	log.Info("done", "policy", cfg.PolicyOutputPath, "states", len(reachable))
	return nil
}

// sampleTrajectory walks the greedy policy from root, sampling one
// successor per step with samp, until a terminal state or maxLen steps.
func sampleTrajectory[S any, A comparable](base *search.Base[S, A], root mdp.StateID, maxLen int, samp sampler.Sampler, rng *rand.Rand, pretty func(S) string, actionName func(A) string) report.Trajectory {
	var tr report.Trajectory
	id := root
	vals := func(id mdp.StateID) (float64, float64) {
		b := base.LookupBounds(id)
		return b.Lower, b.Upper
	}
	for step := 0; step < maxLen; step++ {
		tr.States = append(tr.States, pretty(base.MDP.State(id)))
		if base.IsTerminal(id) {
			break
		}
		action, has := base.GetGreedyAction(id)
		if !has {
			break
		}
		tr.Actions = append(tr.Actions, actionName(action))
		dist := base.MDP.Transition(id, action)
		id = samp.Choose(dist, rng, vals)
	}
	return tr
}
