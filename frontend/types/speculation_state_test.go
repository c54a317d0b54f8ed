package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeculationStateRegistersOpenVariables(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)
	w := ctx.newTypeVariable(emptyProv, "w", originInference)

	s := newSpeculationState()
	first := ctx.newSpeculationID()
	second := ctx.newSpeculationID()
	assert.NotEqual(t, first, second)

	s.init(first)
	s.init(second)
	s.add(first, v)
	s.add(first, v) // idempotent
	s.add(first, w)
	s.add(second, w)

	assert.Equal(t, 2, s.lookup(first).Size())
	assert.Equal(t, 1, s.lookup(second).Size())
	assert.True(t, s.lookup(first).Contains(v))
	assert.False(t, s.lookup(second).Contains(v), "ids keep separate sets")
}

func TestSpeculationStateMisusePanics(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)

	s := newSpeculationState()
	s.init(0)

	assert.Panics(t, func() { s.init(0) }, "initialising an id twice is a defect")
	assert.Panics(t, func() { s.lookup(99) }, "looking up an unregistered id is a defect")
	assert.Panics(t, func() { s.add(99, v) }, "adding to an unregistered id is a defect")
}
