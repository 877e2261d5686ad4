package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproxEqual(t *testing.T) {
	assert.True(t, ApproxEqual(1.0, 1.0000001, 1e-4))
	assert.False(t, ApproxEqual(1.0, 1.1, 1e-4))
	assert.True(t, ApproxEqual(Inf, Inf, 1e-4), "Inf must compare equal to itself")
}

func TestChanged(t *testing.T) {
	assert.True(t, Changed(1.0, 1.2, 1e-4))
	assert.False(t, Changed(1.0, 1.0, 1e-4))
}

func TestDegenerate(t *testing.T) {
	iv := Degenerate(3.5)
	assert.Equal(t, 3.5, iv.Lower)
	assert.Equal(t, 3.5, iv.Upper)
	assert.InDelta(t, 0.0, iv.Width(), 1e-12)
}

func TestIntervalConverged(t *testing.T) {
	iv := Interval{Lower: 0.5, Upper: 0.50005}
	assert.True(t, iv.Converged(1e-3))
	assert.False(t, iv.Converged(1e-9))
}

func TestIntervalChanged(t *testing.T) {
	prev := Interval{Lower: 0.2, Upper: 0.8}
	same := Interval{Lower: 0.2, Upper: 0.8}
	moved := Interval{Lower: 0.3, Upper: 0.8}
	assert.False(t, same.Changed(prev, 1e-9))
	assert.True(t, moved.Changed(prev, 1e-9))
}

func TestIntervalTighten(t *testing.T) {
	a := Interval{Lower: 0.2, Upper: 0.9}
	b := Interval{Lower: 0.3, Upper: 0.8}
	tightened := a.Tighten(b)
	assert.InDelta(t, 0.3, tightened.Lower, 1e-12)
	assert.InDelta(t, 0.8, tightened.Upper, 1e-12)
}

func TestRegimeString(t *testing.T) {
	assert.Equal(t, "ssp", SSP.String())
	assert.Equal(t, "maxprob", MaxProb.String())
}

func TestGoalValue(t *testing.T) {
	assert.Equal(t, 0.0, SSP.GoalValue())
	assert.Equal(t, 1.0, MaxProb.GoalValue())
}

func TestBestSSPPrefersLowerCost(t *testing.T) {
	qs := []float64{5.0, 2.0, 7.0}
	best, idx := SSP.Best(qs)
	require.Equal(t, 1, idx)
	assert.InDelta(t, 2.0, best, 1e-12)
}

func TestBestMaxProbPrefersHigherProbability(t *testing.T) {
	qs := []float64{0.4, 0.9, 0.1}
	best, idx := MaxProb.Best(qs)
	require.Equal(t, 1, idx)
	assert.InDelta(t, 0.9, best, 1e-12)
}

func TestBestEmpty(t *testing.T) {
	_, idx := SSP.Best(nil)
	assert.Equal(t, -1, idx)
}
