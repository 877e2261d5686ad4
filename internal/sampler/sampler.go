// Package sampler implements choosing one successor from a
// distribution, used by cmd/probplan's trajectory sampling; the
// engines do not use it to choose tips.
//
// Grounded on DiscretePdf.Choose (assignment3/mdp/pdf.go),
// generalized into five weighting strategies.
package sampler

import (
	"math/rand"

	"probplan/internal/mdp"
	"probplan/internal/pdf"
)

// ValueLookup gives a sampler read access to a state's current bound,
// without depending on the store package directly (breaks an import cycle
// and keeps Sampler generic over the caller's regime).
type ValueLookup func(id mdp.StateID) (lower, upper float64)

// Sampler returns a single successor id from dist, using rng and (for the
// value-aware variants) vals.
type Sampler interface {
	Choose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, vals ValueLookup) mdp.StateID
	Name() string
}

// Uniform picks among the support of dist with equal probability,
// ignoring the distribution's actual weights.
type Uniform struct{}

func (Uniform) Name() string { return "uniform" }

func (Uniform) Choose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, vals ValueLookup) mdp.StateID {
	entries := dist.Entries()
	if len(entries) == 0 {
		return mdp.Undefined
	}
	return entries[rng.Intn(len(entries))].Value
}

// Random samples weighted by the transition probability — the distribution
// as written, plain stochastic simulation.
type Random struct{}

func (Random) Name() string { return "random" }

func (Random) Choose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, vals ValueLookup) mdp.StateID {
	return dist.Choose(rng)
}

// MostLikely deterministically picks the highest-probability successor.
type MostLikely struct{}

func (MostLikely) Name() string { return "most-likely" }

func (MostLikely) Choose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, vals ValueLookup) mdp.StateID {
	entries := dist.Entries()
	if len(entries) == 0 {
		return mdp.Undefined
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Prob > best.Prob {
			best = e
		}
	}
	return best.Value
}

// VBiased weights each successor by its probability times its current
// value estimate, biasing toward successors that contribute most to the
// parent's Q-value.
type VBiased struct{}

func (VBiased) Name() string { return "value-biased" }

func (VBiased) Choose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, vals ValueLookup) mdp.StateID {
	return weightedChoose(dist, rng, func(id mdp.StateID, p float64) float64 {
		lo, _ := vals(id)
		w := p * lo
		if w < 0 {
			w = 0
		}
		return w
	})
}

// VGap weights each successor by its probability times its current
// interval width, biasing toward successors whose bounds are least
// converged — useful for directing search where it matters most.
type VGap struct{}

func (VGap) Name() string { return "value-gap" }

func (VGap) Choose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, vals ValueLookup) mdp.StateID {
	return weightedChoose(dist, rng, func(id mdp.StateID, p float64) float64 {
		lo, hi := vals(id)
		return p * (hi - lo)
	})
}

func weightedChoose(dist *pdf.Distribution[mdp.StateID], rng *rand.Rand, weight func(mdp.StateID, float64) float64) mdp.StateID {
	entries := dist.Entries()
	if len(entries) == 0 {
		return mdp.Undefined
	}
	weights := make([]float64, len(entries))
	var total float64
	for i, e := range entries {
		weights[i] = weight(e.Value, e.Prob)
		total += weights[i]
	}
	if total <= 0 {
		return entries[rng.Intn(len(entries))].Value
	}
	r := rng.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if r <= acc {
			return entries[i].Value
		}
	}
	return entries[len(entries)-1].Value
}

// Kind names the sampler variants for config/registry lookup.
type Kind string

const (
	KindUniform    Kind = "uniform"
	KindRandom     Kind = "random"
	KindMostLikely Kind = "most-likely"
	KindVBiased    Kind = "value-biased"
	KindVGap       Kind = "value-gap"
)

// Registry hands out a shared Sampler instance by Kind.
func Registry(kind Kind) Sampler {
	switch kind {
	case KindUniform:
		return Uniform{}
	case KindMostLikely:
		return MostLikely{}
	case KindVBiased:
		return VBiased{}
	case KindVGap:
		return VGap{}
	default:
		return Random{}
	}
}
