package types

import (
	"testing"

	"github.com/sable-lang/sable/frontend/sberr"
	"github.com/stretchr/testify/assert"
)

func TestUnionOf(t *testing.T) {
	neg := negType{negated: intType}

	testCases := []struct {
		name     string
		lhs, rhs SimpleType
		expected SimpleType
	}{
		{name: "bottom is the identity", lhs: bottomType, rhs: intType, expected: intType},
		{name: "mixed absorbs", lhs: topType, rhs: intType, expected: topType},
		{name: "any absorbs", lhs: anyTypeInstance, rhs: intType, expected: anyTypeInstance},
		{name: "equal operands fold", lhs: intType, rhs: intType, expected: intType},
		{name: "complement yields mixed", lhs: neg, rhs: intType, expected: topType},
		{name: "complement yields mixed swapped", lhs: intType, rhs: neg, expected: topType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := unionOf(tc.lhs, tc.rhs, unionOpts{})
			assert.True(t, reasonlessEqual(tc.expected, got), "got %s", got)
		})
	}

	t.Run("distinct operands build a union", func(t *testing.T) {
		got := unionOf(intType, stringType, unionOpts{})
		_, ok := got.(unionType)
		assert.True(t, ok)
	})
}

func TestUnionAndIntersectionConstructors(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	var errs []sberr.SableError

	target := Union(stringType, Union(intType, trueType))
	ctx.constrain(intType, target, emptyProv, collectInto(&errs))
	assert.Empty(t, errs)

	scrutinee := Intersection(intType, stringType)
	ctx.constrain(scrutinee, stringType, emptyProv, collectInto(&errs))
	assert.Empty(t, errs)

	assert.True(t, reasonlessEqual(intType, Union(intType, intType)), "folds duplicates")
	assert.True(t, reasonlessEqual(bottomType, Intersection(intType, negType{negated: intType})))
}

func TestBoolTypeIsTheTagUnion(t *testing.T) {
	union, ok := boolType.(unionType)
	if assert.True(t, ok) {
		members := []SimpleType{union.lhs, union.rhs}
		for _, tag := range []SimpleType{trueType, falseType} {
			assert.Contains(t, members, tag)
		}
	}
}

func TestIntersectionOf(t *testing.T) {
	neg := negType{negated: intType}

	testCases := []struct {
		name     string
		lhs, rhs SimpleType
		expected SimpleType
	}{
		{name: "bottom absorbs", lhs: bottomType, rhs: intType, expected: bottomType},
		{name: "mixed is the identity", lhs: topType, rhs: intType, expected: intType},
		{name: "any is the identity", lhs: anyTypeInstance, rhs: intType, expected: intType},
		{name: "equal operands fold", lhs: intType, rhs: intType, expected: intType},
		{name: "complement yields bottom", lhs: neg, rhs: intType, expected: bottomType},
		{name: "complement yields bottom swapped", lhs: intType, rhs: neg, expected: bottomType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := intersectionOf(tc.lhs, tc.rhs, unionOpts{})
			assert.True(t, reasonlessEqual(tc.expected, got), "got %s", got)
		})
	}
}
