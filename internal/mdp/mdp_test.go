package mdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryAssignsDenseIDs(t *testing.T) {
	r := NewRegistry[string]()
	a := r.StateID("a")
	b := r.StateID("b")
	c := r.StateID("c")

	assert.Equal(t, StateID(0), a)
	assert.Equal(t, StateID(1), b)
	assert.Equal(t, StateID(2), c)
	assert.Equal(t, 3, r.Len())
}

func TestRegistryIsIdempotent(t *testing.T) {
	r := NewRegistry[string]()
	first := r.StateID("x")
	second := r.StateID("x")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryStateIsInverseOfStateID(t *testing.T) {
	r := NewRegistry[string]()
	id := r.StateID("hello")
	assert.Equal(t, "hello", r.State(id))
}
