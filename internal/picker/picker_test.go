package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func candidates() []Candidate[string] {
	return []Candidate[string]{
		{Action: "a", Q: 1.0, OpID: 2, LowerQ: 0.2, UpperQ: 0.9},
		{Action: "b", Q: 1.0, OpID: 0, LowerQ: 0.5, UpperQ: 0.6},
		{Action: "c", Q: 1.0, OpID: 1, LowerQ: 0.1, UpperQ: 0.95},
	}
}

func TestArbitraryPicksFirst(t *testing.T) {
	p := Arbitrary[string]{}
	got := p.Pick(candidates(), "", false)
	assert.Equal(t, "a", got)
}

func TestStableKeepsPreviousIfStillCandidate(t *testing.T) {
	p := Stable[string]{}
	got := p.Pick(candidates(), "c", true)
	assert.Equal(t, "c", got)
}

func TestStableFallsBackWhenPreviousGone(t *testing.T) {
	p := Stable[string]{}
	got := p.Pick(candidates(), "zzz", true)
	assert.Equal(t, "a", got)
}

func TestStableWithNoPreviousFallsBackToFirst(t *testing.T) {
	p := Stable[string]{}
	got := p.Pick(candidates(), "", false)
	assert.Equal(t, "a", got)
}

func TestOperatorIDPicksLowest(t *testing.T) {
	p := OperatorID[string]{}
	got := p.Pick(candidates(), "", false)
	assert.Equal(t, "b", got)
}

func TestValueGapNarrowestPicksSmallestGap(t *testing.T) {
	p := ValueGap[string]{Widest: false}
	got := p.Pick(candidates(), "", false)
	assert.Equal(t, "b", got) // gap 0.1, smallest
}

func TestValueGapWidestPicksLargestGap(t *testing.T) {
	p := ValueGap[string]{Widest: true}
	got := p.Pick(candidates(), "", false)
	assert.Equal(t, "c", got) // gap 0.85, largest
}

func TestRegistryDefaultsToArbitrary(t *testing.T) {
	p := Registry[string]("unknown-kind")
	assert.Equal(t, "arbitrary", p.Name())
}

func TestRegistryLooksUpEachKind(t *testing.T) {
	assert.Equal(t, "stable", Registry[string](KindStable).Name())
	assert.Equal(t, "operator-id", Registry[string](KindOperatorID).Name())
	assert.Equal(t, "value-gap", Registry[string](KindValueGap).Name())
}
