// Interval iteration for MaxProb. Composes end-component decomposition,
// the quotient MDP, and qualitative reachability classification: every
// state classified Dead or One already has a fixed reach-probability bound
// (0 or 1) and needs no further iteration; every remaining "maybe"
// end-component is collapsed into a single quotient state so topological VI
// never has to oscillate a cyclic fragment's bounds against themselves,
// then topological VI does the actual converging.
//
// Decision: MEC decomposition always runs before the topological sweep
// here, never the other way around — collapsing first is what makes the
// sweep's SCC order meaningful in the first place.
package engine

import (
	"context"
	"time"

	"probplan/internal/ec"
	"probplan/internal/heuristic"
	"probplan/internal/mdp"
	"probplan/internal/obslog"
	"probplan/internal/picker"
	"probplan/internal/search"
	"probplan/internal/store"
	"probplan/internal/value"
)

// IVIResult reports how much work one interval-iteration solve did.
type IVIResult struct {
	Dead, One, Maybe int
	Collapsed        int
	TVI              TVIResult
}

// IntervalIteration solves m for MaxProb reach-probability bounds from
// roots. It returns the quotient MDP and search base the caller can keep
// querying (e.g. to unwrap a QuotientAction into a base policy), the raw
// per-state classification, and summary stats.
func IntervalIteration[S any, A comparable](
	ctx context.Context,
	m mdp.MDP[S, A],
	h heuristic.Evaluator[S, ec.QuotientAction[A]],
	roots []mdp.StateID,
	eps float64,
	pick picker.Picker[ec.QuotientAction[A]],
	log *obslog.Logger,
	reportInterval time.Duration,
) (*ec.Quotient[S, A], *search.Base[S, ec.QuotientAction[A]], map[mdp.StateID]ec.Classification, IVIResult, error) {
	class := ec.Reachability(m, roots)

	var res IVIResult
	var maybe []mdp.StateID
	for id, c := range class {
		switch c {
		case ec.Dead:
			res.Dead++
		case ec.One:
			res.One++
		default:
			res.Maybe++
			maybe = append(maybe, id)
		}
	}

	mecs := ec.FindMECs(m, maybe)
	quot := ec.NewQuotient[S, A](m)
	for _, comp := range mecs {
		if len(comp.States) > 1 {
			quot.Collapse(comp.States)
			res.Collapsed++
		}
	}

	base := search.New[S, ec.QuotientAction[A]](quot, h, value.MaxProb, eps, true, true, pick, log)
	base.ReportInterval = reportInterval
	base.Initialize()
	for id, c := range class {
		info := base.Store.Get(id)
		switch c {
		case ec.Dead:
			info.Status = store.DeadEnd
			info.SetValue(0)
		case ec.One:
			info.Status = store.Goal
			info.SetValue(1)
		}
	}

	qRoots := make([]mdp.StateID, len(roots))
	for i, r := range roots {
		qRoots[i] = quot.Rep(r)
	}
	var err error
	res.TVI, err = TopologicalVI(ctx, base, qRoots)
	base.Finalize()

	return quot, base, class, res, err
}
