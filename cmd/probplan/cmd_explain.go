// The explain subcommand: solve the demonstration task exactly as `solve`
// does, then print one state's full record instead of writing a policy
// file — a debugging aid for "why did the planner pick this action here".
//
// Grounded on PrintCurrentState (assignment2/ex0/gridworld.go):
// same aurora-colored single-state dump idiom, generalized from "the
// agent's current cell during a rollout" to "any cell the user names on
// the command line".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

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
	"probplan/internal/search"
	"probplan/internal/store"
)

var (
	explainRow        int
	explainCol        int
	explainDumpValues bool
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Solve the demonstration task and print one cell's value, bounds and greedy action",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplain()
	},
}

func init() {
	explainCmd.Flags().IntVar(&explainRow, "row", 4, "row of the cell to explain")
	explainCmd.Flags().IntVar(&explainCol, "col", 0, "column of the cell to explain")
	explainCmd.Flags().BoolVar(&explainDumpValues, "values", false, "print every reachable state's value estimate after explaining the target cell")
}

func runExplain() error {
	w := buildWorld()
	start := w.StateID(startCell())
	roots := []mdp.StateID{start}
	target := grid.Cell{Row: explainRow, Col: explainCol}

	pick := picker.Registry[grid.Action](picker.Kind(cfg.Picker))
	olKind := openlist.Kind(cfg.OpenList)
	regime := cfg.ValueRegime()
	h := heuristic.Blind[grid.Cell, grid.Action]{Regime: regime}
	base := search.New[grid.Cell, grid.Action](w, h, regime, cfg.Epsilon, true, false, pick, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TimeLimit)
	defer cancel()

	switch config.EngineKind(cfg.Engine) {
	case config.EngineExhaustiveAOStar:
		engine.ExhaustiveAOStar(ctx, base, start, cfg.MaxIterations, olKind)
	case config.EngineHDP:
		engine.HDP(ctx, base, start)
	case config.EngineTVI:
		engine.TopologicalVI(ctx, base, roots)
	case config.EngineIVI, config.EngineFRETV, config.EngineFRETPi:
		return explainQuotient(ctx, w, roots, target)
	default: // EngineLAOStar and anything unrecognized fall back to LAO*
		engine.LAOStar(ctx, base, start, cfg.MaxIterations, olKind)
	}

	printExplanation(target, w.StateID(target), base, gridActionName)
	if explainDumpValues {
		dumpValues(base, roots, gridPretty)
	}
	return nil
}

// explainQuotient mirrors runExplain for the two engines that operate on a
// quotient MDP rather than the base gridworld directly, since their search
// base is typed over ec.QuotientAction[grid.Action] instead of grid.Action.
func explainQuotient(ctx context.Context, w *grid.World, roots []mdp.StateID, target grid.Cell) error {
	qh := heuristic.Blind[grid.Cell, ec.QuotientAction[grid.Action]]{Regime: cfg.ValueRegime()}
	qPick := picker.Registry[ec.QuotientAction[grid.Action]](picker.Kind(cfg.Picker))

	var quot *ec.Quotient[grid.Cell, grid.Action]
	var base *search.Base[grid.Cell, ec.QuotientAction[grid.Action]]

	if config.EngineKind(cfg.Engine) == config.EngineIVI {
		quot, base, _, _, _ = engine.IntervalIteration[grid.Cell, grid.Action](ctx, w, qh, roots, cfg.Epsilon, qPick, log, cfg.ReportInterval)
	} else {
		quot, base, _, _ = engine.FRET[grid.Cell, grid.Action](ctx, w, qh, roots, cfg.Epsilon, qPick, log, cfg.FRETVariant(), cfg.MaxIterations, openlist.Kind(cfg.OpenList), cfg.ReportInterval)
	}

	id := quot.Rep(w.StateID(target))
	printExplanation(target, id, base, quotientActionName)
	if explainDumpValues {
		dumpValues(base, repAll(quot, roots), gridPretty)
	}
	return nil
}

// dumpValues prints the value estimate of every state reachable from roots,
// the explain-side analogue of the solve command's policy dump.
func dumpValues[S any, A comparable](base *search.Base[S, A], roots []mdp.StateID, pretty func(S) string) {
	reachable, _ := graph.Reachable(base.MDP, roots)
	report.WriteValueEstimates(os.Stdout, base, reachable, pretty)
}

func printExplanation[S any, A comparable](target grid.Cell, id mdp.StateID, base *search.Base[S, A], actionName func(A) string) {
	info := base.Store.Get(id)
	bounds := base.LookupBounds(id)

	var statusLabel fmt.Stringer
	switch info.Status {
	case store.Goal:
		statusLabel = aurora.Green("goal")
	case store.DeadEnd:
		statusLabel = aurora.Red("dead-end")
	default:
		statusLabel = aurora.Blue(info.Status.String())
	}

	fmt.Fprintf(os.Stdout, "%s %s\n", aurora.White(target.Pretty()), statusLabel)
	fmt.Fprintf(os.Stdout, "  lower = %.6f, upper = %.6f\n", bounds.Lower, bounds.Upper)
	if info.HasAction {
		fmt.Fprintf(os.Stdout, "  greedy action = %s\n", actionName(info.Action))
		successors := base.MDP.Transition(id, info.Action).Map()
		for succ, p := range successors {
			fmt.Fprintf(os.Stdout, "    -> state %d with probability %.6f\n", succ, p)
		}
	} else {
		fmt.Fprintf(os.Stdout, "  greedy action = (none)\n")
	}
}
